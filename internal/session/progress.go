package session

import (
	"fmt"

	"github.com/abhisek/quizzy/internal/quiz"
)

// QuestionStatus is the per-index state shown in the navigation strip.
type QuestionStatus int

const (
	StatusUnanswered QuestionStatus = iota
	StatusCorrect
	StatusWrong
)

func (st QuestionStatus) String() string {
	switch st {
	case StatusCorrect:
		return "correct"
	case StatusWrong:
		return "wrong"
	default:
		return "unanswered"
	}
}

// MarshalText encodes the status by name.
func (st QuestionStatus) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// UnmarshalText decodes a status name.
func (st *QuestionStatus) UnmarshalText(text []byte) error {
	for _, c := range []QuestionStatus{StatusUnanswered, StatusCorrect, StatusWrong} {
		if c.String() == string(text) {
			*st = c
			return nil
		}
	}
	return fmt.Errorf("unknown question status %q", text)
}

// Snapshot is a consistent read of the session for presenters.
type Snapshot struct {
	RunID    string `json:"run_id"`
	Phase    Phase  `json:"phase"`
	Index    int    `json:"index"`
	Total    int    `json:"total"`
	TimeLeft int    `json:"time_left"`
	Score    int    `json:"score"`
	Mistakes int    `json:"mistakes"`
	Answered int    `json:"answered"`

	// Question is the current item with options in display order. Nil
	// unless the phase is InProgress or Explaining.
	Question *quiz.Item `json:"question,omitempty"`

	// Record is the answer at the current index, nil while unanswered.
	Record *AnswerRecord `json:"record,omitempty"`

	Statuses    []QuestionStatus `json:"statuses"`
	Progress    float64          `json:"progress"`
	CanPrevious bool             `json:"can_previous"`
	CanNext     bool             `json:"can_next"`
	Config      Config           `json:"config"`
}

// Locked reports whether the current question is answered and read-only.
func (sn Snapshot) Locked() bool {
	return sn.Phase == PhaseExplaining && sn.Record != nil
}

// Snapshot returns the current read surface.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.bank)
	sn := Snapshot{
		RunID:    s.runID,
		Phase:    s.phase,
		Index:    s.current,
		Total:    n,
		TimeLeft: s.timeLeft,
		Score:    s.score,
		Mistakes: len(s.mistakes),
		Answered: len(s.answers),
		Statuses: s.statusesLocked(),
		Progress: s.progressLocked(),
		Config:   s.cfg,
	}

	if (s.phase == PhaseInProgress || s.phase == PhaseExplaining) && s.current < n {
		item := s.bank[s.current].Clone()
		item.Options = s.displayOptionsLocked(s.current)
		sn.Question = &item

		if rec, ok := s.answers[s.current]; ok {
			sn.Record = &rec
		}

		if s.current > 0 {
			_, prevAnswered := s.answers[s.current-1]
			sn.CanPrevious = s.cfg.AllowRevisit || !prevAnswered
		}
		sn.CanNext = s.current+1 < n
	}
	return sn
}

// Phase returns the current phase.
func (s *Store) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// RunID identifies the current run; it changes on every restart.
func (s *Store) RunID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runID
}

// Config returns the session policies.
func (s *Store) Config() Config {
	return s.cfg
}

// Len is the bank size N.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.bank)
}

// Answer returns the record at index, if any.
func (s *Store) Answer(index int) (AnswerRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.answers[index]
	return rec, ok
}

// Item returns the bank item at index in its original option order.
func (s *Store) Item(index int) (quiz.Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.bank) {
		return quiz.Item{}, false
	}
	return s.bank[index].Clone(), true
}

func (s *Store) statusesLocked() []QuestionStatus {
	out := make([]QuestionStatus, len(s.bank))
	for i, rec := range s.answers {
		if rec.Correct {
			out[i] = StatusCorrect
		} else {
			out[i] = StatusWrong
		}
	}
	return out
}

// progressLocked is the share of the bank reached, counting the current
// question as reached.
func (s *Store) progressLocked() float64 {
	n := len(s.bank)
	if n == 0 || s.current >= n {
		if s.phase == PhaseNotStarted {
			return 0
		}
		return 1
	}
	if s.phase == PhaseNotStarted {
		return 0
	}
	return float64(s.current+1) / float64(n)
}

// displayOptionsLocked returns the options of index in display order.
func (s *Store) displayOptionsLocked(index int) []string {
	opts := s.bank[index].Options
	order, ok := s.optionOrder[index]
	if !ok || len(order) != len(opts) {
		return append([]string(nil), opts...)
	}
	out := make([]string, len(order))
	for i, j := range order {
		out[i] = opts[j]
	}
	return out
}
