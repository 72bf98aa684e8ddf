package session

import (
	"sort"
	"time"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Mistake is one wrong or timed-out answer with the question it belongs to.
type Mistake struct {
	Item   quiz.Item    `json:"item"`
	Record AnswerRecord `json:"record"`
}

// MistakeList returns the mistakes in the order they happened.
func (s *Store) MistakeList() []Mistake {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Mistake, 0, len(s.mistakes))
	for _, rec := range s.mistakes {
		out = append(out, Mistake{Item: s.bank[rec.Index].Clone(), Record: rec})
	}
	return out
}

// ReportAnswer pairs an answered question with its record.
type ReportAnswer struct {
	Item   quiz.Item
	Record AnswerRecord
}

// Report summarizes a run for the finished screen and for history.
type Report struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Config     Config
	Total      int
	Score      int
	Mistakes   int
	Unanswered int

	// Answers are in bank order.
	Answers []ReportAnswer

	// MistakeOrder lists the bank indices of mistakes in occurrence order.
	MistakeOrder []int
}

// Duration is the wall time between start and finish.
func (r *Report) Duration() time.Duration {
	if r.StartedAt.IsZero() || r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Accuracy is score over answered questions.
func (r *Report) Accuracy() float64 {
	answered := r.Score + r.Mistakes
	if answered == 0 {
		return 0
	}
	return float64(r.Score) / float64(answered)
}

// Report builds the summary of the current run.
func (s *Store) Report() *Report {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := &Report{
		RunID:      s.runID,
		StartedAt:  s.startedAt,
		FinishedAt: s.finishedAt,
		Config:     s.cfg,
		Total:      len(s.bank),
		Score:      s.score,
		Mistakes:   len(s.mistakes),
		Unanswered: len(s.bank) - len(s.answers),
	}

	indices := make([]int, 0, len(s.answers))
	for i := range s.answers {
		indices = append(indices, i)
	}
	sort.Ints(indices)
	for _, i := range indices {
		r.Answers = append(r.Answers, ReportAnswer{Item: s.bank[i].Clone(), Record: s.answers[i]})
	}
	for _, rec := range s.mistakes {
		r.MistakeOrder = append(r.MistakeOrder, rec.Index)
	}
	return r
}
