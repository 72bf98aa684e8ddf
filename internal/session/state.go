package session

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/clock"
	"github.com/abhisek/quizzy/internal/quiz"
)

// DefaultTimerSeconds is the per-question countdown when none is configured.
const DefaultTimerSeconds = 20

// Phase is the coarse-grained session state.
type Phase int

const (
	PhaseNotStarted Phase = iota // Waiting for Start
	PhaseInProgress              // Current question is open and the countdown runs
	PhaseExplaining              // Current question is answered; explanation shown
	PhaseReviewing               // Read-only walk through the mistakes
	PhaseFinished                // Summary; current index is the sentinel N
)

var phaseNames = [...]string{"not_started", "in_progress", "explaining", "reviewing", "finished"}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// MarshalText encodes the phase by name.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a phase name.
func (p *Phase) UnmarshalText(text []byte) error {
	for i, name := range phaseNames {
		if name == string(text) {
			*p = Phase(i)
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", text)
}

// Config holds the session policies, fixed for the lifetime of a Store.
type Config struct {
	// TimerSeconds is the countdown given to each fresh question.
	TimerSeconds int `json:"timer_seconds"`

	// ShuffleOptionsPerQuestion reorders options for display each time a
	// fresh question becomes active.
	ShuffleOptionsPerQuestion bool `json:"shuffle_options_per_question"`

	// AllowRevisit lets navigation enter already-answered questions in
	// the locked view. When false such moves are ignored.
	AllowRevisit bool `json:"allow_revisit"`

	// TrackElapsedTime records time-to-answer on each AnswerRecord.
	TrackElapsedTime bool `json:"track_elapsed_time"`
}

// DefaultConfig returns the policies used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		TimerSeconds: DefaultTimerSeconds,
		AllowRevisit: true,
	}
}

// AnswerRecord is the outcome of answering, or timing out on, one question.
// It is written once and never changed until restart.
type AnswerRecord struct {
	Index    int           `json:"index"`
	Selected string        `json:"selected"`
	None     bool          `json:"none"` // timed out without a choice
	Correct  bool          `json:"correct"`
	Elapsed  time.Duration `json:"elapsed_ns,omitempty"`
}

// timerTag identifies the question and arm generation a countdown belongs to.
type timerTag struct {
	index      int
	generation uint64
}

// Store owns one quiz session and serializes every transition.
type Store struct {
	mu sync.Mutex

	cfg   Config
	clock clock.Clock
	rng   *rand.Rand
	log   zerolog.Logger
	newID func() string

	// original is the bank as loaded; bank is this run's permutation of it.
	original []quiz.Item
	bank     []quiz.Item

	runID      string
	startedAt  time.Time
	finishedAt time.Time

	current       int
	phase         Phase
	timeLeft      int
	questionStart time.Time

	answers  map[int]AnswerRecord
	score    int
	mistakes []AnswerRecord

	// optionOrder holds the display permutation per index while
	// ShuffleOptionsPerQuestion is on.
	optionOrder map[int][]int

	timer      clock.Timer
	timerTag   timerTag
	generation uint64

	subs    map[int]chan struct{}
	nextSub int
	closed  bool
}

// Option customizes a Store.
type Option func(*Store)

// WithClock replaces the wall clock.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithRand sets the random source used for bank and option permutations.
func WithRand(r *rand.Rand) Option {
	return func(s *Store) { s.rng = r }
}

// WithSeed seeds the permutation source deterministically.
func WithSeed(seed uint64) Option {
	return func(s *Store) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

// WithLogger attaches a logger for ignored commands and timeouts.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l.With().Str("component", "session").Logger() }
}

// WithRunIDs replaces the run ID generator.
func WithRunIDs(f func() string) Option {
	return func(s *Store) { s.newID = f }
}

// New creates a session over items in phase NotStarted with its bank already
// shuffled. The items slice is copied.
func New(items []quiz.Item, cfg Config, opts ...Option) *Store {
	if cfg.TimerSeconds <= 0 {
		cfg.TimerSeconds = DefaultTimerSeconds
	}

	original := make([]quiz.Item, len(items))
	for i, it := range items {
		original[i] = it.Clone()
	}

	s := &Store{
		cfg:      cfg,
		clock:    clock.Real{},
		log:      zerolog.Nop(),
		newID:    uuid.NewString,
		original: original,
		subs:     make(map[int]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	s.resetLocked()
	return s
}

// resetLocked draws a fresh permutation and clears all progress.
func (s *Store) resetLocked() {
	perm := s.rng.Perm(len(s.original))
	s.bank = make([]quiz.Item, len(perm))
	for i, j := range perm {
		s.bank[i] = s.original[j]
	}

	s.runID = s.newID()
	s.startedAt = time.Time{}
	s.finishedAt = time.Time{}
	s.current = 0
	s.phase = PhaseNotStarted
	s.timeLeft = s.cfg.TimerSeconds
	s.questionStart = time.Time{}
	s.answers = make(map[int]AnswerRecord)
	s.score = 0
	s.mistakes = nil
	s.optionOrder = make(map[int][]int)
}
