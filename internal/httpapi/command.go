package httpapi

import (
	"fmt"

	"github.com/abhisek/quizzy/internal/session"
)

// Command names shared by the REST routes and the WebSocket stream.
const (
	CmdStart       = "start"
	CmdAnswer      = "answer"
	CmdNext        = "next"
	CmdPrevious    = "previous"
	CmdGoTo        = "goto"
	CmdFinish      = "finish"
	CmdReviewEnter = "review_enter"
	CmdReviewExit  = "review_exit"
	CmdRestart     = "restart"
)

// AnswerRequest picks an option by text or by display position.
type AnswerRequest struct {
	Option string `json:"option" binding:"required_without=Index"`
	Index  *int   `json:"index" binding:"omitempty,min=0"`
}

// GoToRequest jumps to a 0-based question index. Values past the last
// question finish the quiz.
type GoToRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// apply issues one command. Commands the session cannot take in its
// current phase are ignored by the session itself; the caller sees that
// in the returned snapshot.
func apply(s *session.Store, cmd string, answer *AnswerRequest, goTo *GoToRequest) error {
	switch cmd {
	case CmdStart:
		s.Start()
	case CmdAnswer:
		if answer == nil {
			return fmt.Errorf("answer: missing body")
		}
		if answer.Option != "" {
			s.SelectAnswer(answer.Option)
		} else {
			s.SelectOptionAt(*answer.Index)
		}
	case CmdNext:
		s.Next()
	case CmdPrevious:
		s.Previous()
	case CmdGoTo:
		if goTo == nil || goTo.Index == nil {
			return fmt.Errorf("goto: missing index")
		}
		s.GoTo(*goTo.Index)
	case CmdFinish:
		s.Finish()
	case CmdReviewEnter:
		s.EnterReview()
	case CmdReviewExit:
		s.ExitReview()
	case CmdRestart:
		s.Restart()
	default:
		return fmt.Errorf("unknown command %q", cmd)
	}
	return nil
}
