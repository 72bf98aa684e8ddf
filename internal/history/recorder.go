// Package history persists finished quiz runs and session lifecycle events.
package history

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
)

// Recorder watches a session and writes what happened to the store. It is
// safe for concurrent use; Observe calls are serialized.
type Recorder struct {
	runs   store.RunRepo
	events store.EventRepo
	source string
	log    zerolog.Logger

	mu    sync.Mutex
	last  session.Snapshot
	seen  bool
	saved map[string]bool
}

// NewRecorder creates a Recorder. source labels the bank of every run it
// saves. Either repo may be nil to skip that kind of record.
func NewRecorder(runs store.RunRepo, events store.EventRepo, source string, log zerolog.Logger) *Recorder {
	return &Recorder{
		runs:   runs,
		events: events,
		source: source,
		log:    log.With().Str("component", "history").Logger(),
		saved:  make(map[string]bool),
	}
}

// Attach observes s after every change until the returned stop func is
// called or s is closed. stop waits for the watcher to exit.
func (r *Recorder) Attach(ctx context.Context, s *session.Store) (stop func()) {
	changes, cancel := s.Subscribe()
	done := make(chan struct{})

	r.Observe(ctx, s)
	go func() {
		defer close(done)
		for range changes {
			r.Observe(ctx, s)
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			cancel()
			<-done
		})
	}
}

// Observe compares the session with the last state seen and records the
// transitions in between. Notifications coalesce, so one call may record
// several events.
func (r *Recorder) Observe(ctx context.Context, s *session.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cur := s.Snapshot()
	if !r.seen {
		r.seen = true
		r.last = cur
		if cur.Phase != session.PhaseNotStarted {
			r.appendEvent(ctx, cur, store.ActionStart)
		}
		if cur.Phase == session.PhaseFinished || cur.Phase == session.PhaseReviewing {
			r.saveRun(ctx, s, cur)
		}
		return
	}
	prev := r.last
	r.last = cur

	if cur.RunID != prev.RunID {
		if prev.Phase != session.PhaseNotStarted {
			r.appendEvent(ctx, prev, store.ActionRestart)
		}
		prev = session.Snapshot{RunID: cur.RunID, Phase: session.PhaseNotStarted}
	}

	if prev.Phase == session.PhaseNotStarted && cur.Phase != session.PhaseNotStarted {
		r.appendEvent(ctx, cur, store.ActionStart)
	}

	switch cur.Phase {
	case session.PhaseFinished:
		r.saveRun(ctx, s, cur)
		if prev.Phase == session.PhaseReviewing {
			r.appendEvent(ctx, cur, store.ActionReviewExit)
		}
	case session.PhaseReviewing:
		r.saveRun(ctx, s, cur)
		if prev.Phase != session.PhaseReviewing {
			r.appendEvent(ctx, cur, store.ActionReviewEnter)
		}
	}
}

// saveRun stores the run behind sn once.
func (r *Recorder) saveRun(ctx context.Context, s *session.Store, sn session.Snapshot) {
	if r.saved[sn.RunID] {
		return
	}
	rep := s.Report()
	if rep.RunID != sn.RunID {
		// Restarted between the snapshot and the report; the next
		// observation handles the new run.
		return
	}
	r.saved[sn.RunID] = true
	r.appendEvent(ctx, sn, store.ActionFinish)

	if r.runs == nil {
		return
	}
	if err := r.runs.SaveRun(ctx, RunRecord(rep, r.source)); err != nil {
		r.log.Error().Err(err).Str("run_id", rep.RunID).Msg("failed to save run")
		return
	}
	r.log.Info().
		Str("run_id", rep.RunID).
		Int("score", rep.Score).
		Int("total", rep.Total).
		Msg("run saved")
}

func (r *Recorder) appendEvent(ctx context.Context, sn session.Snapshot, action string) {
	if r.events == nil {
		return
	}
	err := r.events.AppendSessionEvent(ctx, store.SessionEventData{
		RunID:    sn.RunID,
		Action:   action,
		Score:    sn.Score,
		Mistakes: sn.Mistakes,
		Answered: sn.Answered,
	})
	if err != nil {
		r.log.Warn().Err(err).Str("run_id", sn.RunID).Str("action", action).Msg("failed to record session event")
	}
}

// RunRecord converts a session report to its stored form.
func RunRecord(rep *session.Report, source string) store.RunRecord {
	run := store.RunRecord{
		RunID:          rep.RunID,
		StartedAt:      rep.StartedAt,
		FinishedAt:     rep.FinishedAt,
		Total:          rep.Total,
		Score:          rep.Score,
		Mistakes:       rep.Mistakes,
		Unanswered:     rep.Unanswered,
		Duration:       rep.Duration(),
		TimerSeconds:   rep.Config.TimerSeconds,
		ShuffleOptions: rep.Config.ShuffleOptionsPerQuestion,
		AllowRevisit:   rep.Config.AllowRevisit,
		TrackElapsed:   rep.Config.TrackElapsedTime,
		Source:         source,
	}
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}

	order := make(map[int]int, len(rep.MistakeOrder))
	for i, idx := range rep.MistakeOrder {
		order[idx] = i + 1
	}
	for _, a := range rep.Answers {
		run.Answers = append(run.Answers, store.AnswerRow{
			Position:     a.Record.Index,
			Question:     a.Item.Question,
			Options:      a.Item.Options,
			Answer:       a.Item.Answer,
			Explanation:  a.Item.Explanation,
			Selected:     a.Record.Selected,
			TimedOut:     a.Record.None,
			Correct:      a.Record.Correct,
			Elapsed:      a.Record.Elapsed,
			MistakeOrder: order[a.Record.Index],
		})
	}
	return run
}
