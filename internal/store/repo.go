package store

import (
	"context"
	"time"
)

// QueryOpts configures queries with filtering and pagination.
type QueryOpts struct {
	Limit  int       // max results (0 = unlimited)
	After  int64     // sequence > After (events only)
	Before int64     // sequence < Before (events only)
	From   time.Time // timestamp >= From
	To     time.Time // timestamp <= To
}

// RunRecord is one finished quiz run as persisted.
type RunRecord struct {
	RunID      string
	StartedAt  time.Time
	FinishedAt time.Time
	Total      int
	Score      int
	Mistakes   int
	Unanswered int
	Duration   time.Duration

	TimerSeconds   int
	ShuffleOptions bool
	AllowRevisit   bool
	TrackElapsed   bool

	// Source names where the bank came from (file path, "embedded", "generated:<topic>").
	Source string

	// Answers is filled by GetRun and SaveRun, empty in ListRuns.
	Answers []AnswerRow
}

// AnswerRow is one answered question of a run.
type AnswerRow struct {
	Position    int
	Question    string
	Options     []string
	Answer      string
	Explanation string
	Selected    string
	TimedOut    bool
	Correct     bool
	Elapsed     time.Duration

	// MistakeOrder is the 1-based position among the run's mistakes,
	// 0 for a correct answer.
	MistakeOrder int
}

// RunStats aggregates every stored run.
type RunStats struct {
	Runs       int
	Questions  int
	Correct    int
	Mistakes   int
	Unanswered int
	BestScore  int
	BestTotal  int
	LastPlayed time.Time
}

// Accuracy is correct over answered questions across all runs.
func (s RunStats) Accuracy() float64 {
	answered := s.Correct + s.Mistakes
	if answered == 0 {
		return 0
	}
	return float64(s.Correct) / float64(answered)
}

// RunRepo stores finished runs.
type RunRepo interface {
	// SaveRun stores a run and its answers in one transaction. Saving a
	// run ID that already exists is a no-op.
	SaveRun(ctx context.Context, run RunRecord) error

	// ListRuns returns runs newest first, without answers.
	ListRuns(ctx context.Context, opts QueryOpts) ([]RunRecord, error)

	// GetRun returns one run with its answers, or ErrNotFound.
	GetRun(ctx context.Context, runID string) (*RunRecord, error)

	// Stats aggregates all runs.
	Stats(ctx context.Context) (RunStats, error)
}

// Session event actions.
const (
	ActionStart       = "start"
	ActionFinish      = "finish"
	ActionRestart     = "restart"
	ActionReviewEnter = "review_enter"
	ActionReviewExit  = "review_exit"
)

// SessionEventData captures a session lifecycle transition.
type SessionEventData struct {
	RunID    string
	Action   string
	Score    int
	Mistakes int
	Answered int
}

// SessionEvent is a stored session lifecycle event.
type SessionEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	SessionEventData
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEvent is a stored LLM request event.
type LLMRequestEvent struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM calls by one grouping key.
type LLMUsage struct {
	Purpose      string
	Model        string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to events.
type EventRepo interface {
	// AppendSessionEvent records a session lifecycle transition.
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// QuerySessionEvents returns session events in sequence order. An
	// empty runID matches every run.
	QuerySessionEvents(ctx context.Context, runID string, opts QueryOpts) ([]SessionEvent, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error)

	// GetLLMEvent returns one LLM event by ID, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error)

	// LLMUsageByPurpose aggregates LLM calls per purpose label.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates LLM calls per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
