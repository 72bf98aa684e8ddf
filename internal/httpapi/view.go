package httpapi

import (
	"time"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
)

// QuestionView is the current question as clients see it. Answer and
// explanation stay empty until the question has an answer record.
type QuestionView struct {
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer,omitempty"`
	Explanation string   `json:"explanation,omitempty"`
}

// SessionView is the JSON read surface of the session.
type SessionView struct {
	RunID       string                   `json:"run_id,omitempty"`
	Phase       session.Phase            `json:"phase"`
	Index       int                      `json:"index"`
	Total       int                      `json:"total"`
	TimeLeft    int                      `json:"time_left"`
	Score       int                      `json:"score"`
	Mistakes    int                      `json:"mistakes"`
	Answered    int                      `json:"answered"`
	Question    *QuestionView            `json:"question,omitempty"`
	Record      *session.AnswerRecord    `json:"record,omitempty"`
	Statuses    []session.QuestionStatus `json:"statuses"`
	Progress    float64                  `json:"progress"`
	CanPrevious bool                     `json:"can_previous"`
	CanNext     bool                     `json:"can_next"`
	Config      session.Config           `json:"config"`
}

func newSessionView(sn session.Snapshot) SessionView {
	v := SessionView{
		RunID:       sn.RunID,
		Phase:       sn.Phase,
		Index:       sn.Index,
		Total:       sn.Total,
		TimeLeft:    sn.TimeLeft,
		Score:       sn.Score,
		Mistakes:    sn.Mistakes,
		Answered:    sn.Answered,
		Record:      sn.Record,
		Statuses:    sn.Statuses,
		Progress:    sn.Progress,
		CanPrevious: sn.CanPrevious,
		CanNext:     sn.CanNext,
		Config:      sn.Config,
	}
	if q := sn.Question; q != nil {
		v.Question = &QuestionView{Question: q.Question, Options: q.Options}
		if sn.Record != nil {
			v.Question.Answer = q.Answer
			v.Question.Explanation = q.Explanation
		}
	}
	return v
}

// MistakeView is one review entry. Selected is "None" for a timeout.
type MistakeView struct {
	Index       int    `json:"index"`
	Question    string `json:"question"`
	Selected    string `json:"selected"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

func newMistakeViews(ms []session.Mistake) []MistakeView {
	out := make([]MistakeView, 0, len(ms))
	for _, m := range ms {
		selected := m.Record.Selected
		if m.Record.None {
			selected = "None"
		}
		out = append(out, MistakeView{
			Index:       m.Record.Index,
			Question:    m.Item.Question,
			Selected:    selected,
			Answer:      m.Item.Answer,
			Explanation: m.Item.Explanation,
		})
	}
	return out
}

// RunView is a stored run.
type RunView struct {
	RunID      string          `json:"run_id"`
	StartedAt  string          `json:"started_at"`
	FinishedAt string          `json:"finished_at"`
	Total      int             `json:"total"`
	Score      int             `json:"score"`
	Mistakes   int             `json:"mistakes"`
	Unanswered int             `json:"unanswered"`
	DurationMs int64           `json:"duration_ms"`
	Source     string          `json:"source"`
	Answers    []AnswerRowView `json:"answers,omitempty"`
}

// AnswerRowView is one stored answer of a run.
type AnswerRowView struct {
	Position     int      `json:"position"`
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	Answer       string   `json:"answer"`
	Explanation  string   `json:"explanation"`
	Selected     string   `json:"selected"`
	TimedOut     bool     `json:"timed_out"`
	Correct      bool     `json:"correct"`
	ElapsedMs    int64    `json:"elapsed_ms,omitempty"`
	MistakeOrder int      `json:"mistake_order,omitempty"`
}

func newRunView(r store.RunRecord) RunView {
	v := RunView{
		RunID:      r.RunID,
		StartedAt:  r.StartedAt.UTC().Format(time.RFC3339),
		FinishedAt: r.FinishedAt.UTC().Format(time.RFC3339),
		Total:      r.Total,
		Score:      r.Score,
		Mistakes:   r.Mistakes,
		Unanswered: r.Unanswered,
		DurationMs: r.Duration.Milliseconds(),
		Source:     r.Source,
	}
	for _, a := range r.Answers {
		v.Answers = append(v.Answers, AnswerRowView{
			Position:     a.Position,
			Question:     a.Question,
			Options:      a.Options,
			Answer:       a.Answer,
			Explanation:  a.Explanation,
			Selected:     a.Selected,
			TimedOut:     a.TimedOut,
			Correct:      a.Correct,
			ElapsedMs:    a.Elapsed.Milliseconds(),
			MistakeOrder: a.MistakeOrder,
		})
	}
	return v
}
