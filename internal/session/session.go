package session

import (
	"time"
)

// tickInterval is the countdown granularity.
const tickInterval = time.Second

// Start opens the first question and arms its countdown. An empty bank goes
// straight to Finished. Ignored outside NotStarted.
func (s *Store) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.phase != PhaseNotStarted {
		s.ignored("start")
		return
	}

	now := s.clock.Now()
	s.startedAt = now
	s.current = 0

	if len(s.bank) == 0 {
		s.phase = PhaseFinished
		s.finishedAt = now
		s.log.Info().Str("run_id", s.runID).Msg("empty question bank, session finished")
		s.notifyLocked()
		return
	}

	s.activateFreshLocked(0)
	s.log.Info().Str("run_id", s.runID).Int("questions", len(s.bank)).Msg("session started")
	s.notifyLocked()
}

// SelectAnswer answers the current question with option. Ignored unless the
// current question is open and unanswered, so a repeated call cannot score
// twice.
func (s *Store) SelectAnswer(option string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.answerableLocked() {
		s.ignored("select_answer")
		return
	}
	s.recordLocked(option, false)
	s.notifyLocked()
}

// SelectOptionAt answers with the option at position i of the displayed
// order. Out-of-range positions are ignored.
func (s *Store) SelectOptionAt(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.answerableLocked() {
		s.ignored("select_option")
		return
	}
	opts := s.displayOptionsLocked(s.current)
	if i < 0 || i >= len(opts) {
		s.ignored("select_option")
		return
	}
	s.recordLocked(opts[i], false)
	s.notifyLocked()
}

// SelectNone records the current question as unanswered, exactly as a
// timeout does.
func (s *Store) SelectNone() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.answerableLocked() {
		s.ignored("select_none")
		return
	}
	s.recordLocked("", true)
	s.notifyLocked()
}

// GoTo moves to index, clamped to [0, N]. N finishes the session; an
// answered index opens its locked view; any other index opens fresh with a
// full countdown. Ignored outside InProgress and Explaining.
func (s *Store) GoTo(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(index)
}

// Previous is GoTo(current-1).
func (s *Store) Previous() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current - 1)
}

// Next is GoTo(current+1).
func (s *Store) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(s.current + 1)
}

// Finish is GoTo(N). Unanswered questions stay unanswered.
func (s *Store) Finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goToLocked(len(s.bank))
}

// EnterReview opens the mistake review. Only valid when finished with at
// least one mistake.
func (s *Store) EnterReview() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseFinished || len(s.mistakes) == 0 {
		s.ignored("enter_review")
		return
	}
	s.phase = PhaseReviewing
	s.notifyLocked()
}

// ExitReview returns from review to the summary.
func (s *Store) ExitReview() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.phase != PhaseReviewing {
		s.ignored("exit_review")
		return
	}
	s.phase = PhaseFinished
	s.current = len(s.bank)
	s.notifyLocked()
}

// Restart discards all progress, reshuffles the bank and waits for Start.
// Valid from any phase.
func (s *Store) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.cancelTimerLocked()
	prev := s.runID
	s.resetLocked()
	s.log.Info().Str("previous_run_id", prev).Str("run_id", s.runID).Msg("session restarted")
	s.notifyLocked()
}

// Close stops the countdown and closes all subscriptions. Commands after
// Close are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.cancelTimerLocked()
	s.closed = true
	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
}

func (s *Store) goToLocked(target int) {
	if s.closed || (s.phase != PhaseInProgress && s.phase != PhaseExplaining) {
		s.ignored("go_to")
		return
	}

	n := len(s.bank)
	target = max(0, min(target, n))

	if target == n {
		s.cancelTimerLocked()
		s.current = n
		s.phase = PhaseFinished
		s.finishedAt = s.clock.Now()
		s.log.Info().
			Str("run_id", s.runID).
			Int("score", s.score).
			Int("mistakes", len(s.mistakes)).
			Int("answered", len(s.answers)).
			Msg("session finished")
		s.notifyLocked()
		return
	}

	if _, answered := s.answers[target]; answered {
		if !s.cfg.AllowRevisit && target != s.current {
			s.ignored("go_to")
			return
		}
		s.cancelTimerLocked()
		s.current = target
		s.phase = PhaseExplaining
		s.notifyLocked()
		return
	}

	s.activateFreshLocked(target)
	s.notifyLocked()
}

// activateFreshLocked opens an unanswered question with a full countdown.
func (s *Store) activateFreshLocked(index int) {
	s.current = index
	s.phase = PhaseInProgress
	s.timeLeft = s.cfg.TimerSeconds
	s.questionStart = s.clock.Now()
	if s.cfg.ShuffleOptionsPerQuestion {
		s.optionOrder[index] = s.rng.Perm(len(s.bank[index].Options))
	}
	s.armTimerLocked()
}

func (s *Store) answerableLocked() bool {
	if s.closed || s.phase != PhaseInProgress || s.current >= len(s.bank) {
		return false
	}
	_, answered := s.answers[s.current]
	return !answered
}

// recordLocked writes the answer for the current question and moves to the
// explanation. Caller has checked answerableLocked.
func (s *Store) recordLocked(option string, none bool) {
	item := s.bank[s.current]
	rec := AnswerRecord{
		Index:    s.current,
		Selected: option,
		None:     none,
		Correct:  !none && item.IsCorrect(option),
	}
	if s.cfg.TrackElapsedTime {
		rec.Elapsed = s.clock.Now().Sub(s.questionStart)
	}

	s.answers[s.current] = rec
	if rec.Correct {
		s.score++
	} else {
		s.mistakes = append(s.mistakes, rec)
	}
	s.phase = PhaseExplaining
	s.cancelTimerLocked()
}

// armTimerLocked schedules the next countdown tick for the current question.
// Each arm gets a new generation so earlier callbacks become stale.
func (s *Store) armTimerLocked() {
	s.cancelTimerLocked()
	s.generation++
	tag := timerTag{index: s.current, generation: s.generation}
	s.timerTag = tag
	s.timer = s.clock.AfterFunc(tickInterval, func() { s.tick(tag) })
}

func (s *Store) cancelTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerTag = timerTag{index: -1}
}

// tick runs on the clock's goroutine. A tick whose tag no longer matches the
// live countdown lost a race with a command and does nothing.
func (s *Store) tick(tag timerTag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || tag != s.timerTag || s.phase != PhaseInProgress || tag.index != s.current {
		return
	}
	if _, answered := s.answers[s.current]; answered {
		return
	}

	s.timeLeft--
	if s.timeLeft > 0 {
		s.armTimerLocked()
		s.notifyLocked()
		return
	}

	s.timeLeft = 0
	s.log.Debug().Str("run_id", s.runID).Int("index", s.current).Msg("question timed out")
	s.recordLocked("", true)
	s.notifyLocked()
}

func (s *Store) ignored(cmd string) {
	s.log.Debug().Str("cmd", cmd).Stringer("phase", s.phase).Int("index", s.current).Msg("command ignored")
}
