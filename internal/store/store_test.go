package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "quizzy.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleRun(id string, finished time.Time, score, total int) RunRecord {
	run := RunRecord{
		RunID:        id,
		StartedAt:    finished.Add(-90 * time.Second),
		FinishedAt:   finished,
		Total:        total,
		Score:        score,
		Duration:     90 * time.Second,
		TimerSeconds: 20,
		AllowRevisit: true,
		Source:       "embedded",
	}
	order := 0
	for i := range total - 1 {
		correct := i < score
		a := AnswerRow{
			Position:    i,
			Question:    "Q" + string(rune('A'+i)),
			Options:     []string{"yes", "no"},
			Answer:      "yes",
			Explanation: "because",
			Correct:     correct,
			Elapsed:     1500 * time.Millisecond,
		}
		if correct {
			a.Selected = "yes"
		} else {
			order++
			a.MistakeOrder = order
			if i%2 == 0 {
				a.TimedOut = true
			} else {
				a.Selected = "no"
			}
		}
		run.Answers = append(run.Answers, a)
	}
	run.Mistakes = order
	run.Unanswered = total - len(run.Answers)
	return run
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
		{"busy_timeout", "5000"},
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAutoMigrationCreatesTables(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	for _, table := range []string{runsTable, answersTable, sessionEvents, llmRequestEvents, sequenceTable} {
		var name string
		err := db.QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("table %s: %v", table, err)
		}
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quizzy.db")
	ctx := context.Background()

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := s.RunRepo().SaveRun(ctx, sampleRun("r1", time.Now(), 2, 3)); err != nil {
		t.Fatalf("save: %v", err)
	}
	s.Close()

	s, err = Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	if _, err := s.RunRepo().GetRun(ctx, "r1"); err != nil {
		t.Fatalf("get after reopen: %v", err)
	}
}

func TestSaveAndGetRun(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	finished := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	want := sampleRun("run-1", finished, 1, 4)
	if err := repo.SaveRun(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := repo.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.FinishedAt.Equal(finished) {
		t.Errorf("FinishedAt = %v, want %v", got.FinishedAt, finished)
	}
	if got.Score != 1 || got.Total != 4 || got.Mistakes != 2 || got.Unanswered != 1 {
		t.Errorf("score/total/mistakes/unanswered = %d/%d/%d/%d", got.Score, got.Total, got.Mistakes, got.Unanswered)
	}
	if got.Duration != 90*time.Second {
		t.Errorf("Duration = %v, want 90s", got.Duration)
	}
	if !got.AllowRevisit || got.ShuffleOptions || got.Source != "embedded" {
		t.Errorf("config not round-tripped: %+v", got)
	}
	if len(got.Answers) != 3 {
		t.Fatalf("answers = %d, want 3", len(got.Answers))
	}
	for i, a := range got.Answers {
		if a.Position != i {
			t.Errorf("answer %d position = %d", i, a.Position)
		}
		if len(a.Options) != 2 || a.Options[0] != "yes" {
			t.Errorf("answer %d options = %v", i, a.Options)
		}
		if a.Elapsed != 1500*time.Millisecond {
			t.Errorf("answer %d elapsed = %v", i, a.Elapsed)
		}
	}
	if !got.Answers[0].Correct || got.Answers[1].Correct {
		t.Error("correctness not round-tripped")
	}
	if got.Answers[1].Selected != "no" || got.Answers[1].MistakeOrder != 1 {
		t.Errorf("answer 1 = %+v", got.Answers[1])
	}
	if !got.Answers[2].TimedOut || got.Answers[2].MistakeOrder != 2 {
		t.Errorf("answer 2 = %+v", got.Answers[2])
	}
}

func TestSaveRunIdempotent(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	run := sampleRun("run-1", time.Now(), 2, 3)
	for range 3 {
		if err := repo.SaveRun(ctx, run); err != nil {
			t.Fatalf("save: %v", err)
		}
	}

	runs, err := repo.ListRuns(ctx, QueryOpts{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("runs = %d, want 1", len(runs))
	}
	got, _ := repo.GetRun(ctx, "run-1")
	if len(got.Answers) != 2 {
		t.Errorf("answers = %d, want 2", len(got.Answers))
	}
}

func TestGetRunNotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.RunRepo().GetRun(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := repo.SaveRun(ctx, sampleRun(id, base.Add(time.Duration(i)*time.Hour), 1, 3)); err != nil {
			t.Fatalf("save %s: %v", id, err)
		}
	}

	runs, err := repo.ListRuns(ctx, QueryOpts{Limit: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 2 || runs[0].RunID != "c" || runs[1].RunID != "b" {
		t.Errorf("runs = %+v, want c then b", runs)
	}
	if len(runs[0].Answers) != 0 {
		t.Error("list must not load answers")
	}

	runs, err = repo.ListRuns(ctx, QueryOpts{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(runs) != 1 || runs[0].RunID != "b" {
		t.Errorf("range runs = %+v, want only b", runs)
	}
}

func TestStats(t *testing.T) {
	s := openTestStore(t)
	repo := s.RunRepo()
	ctx := context.Background()

	st, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats (empty): %v", err)
	}
	if st.Runs != 0 || st.Accuracy() != 0 {
		t.Errorf("empty stats = %+v", st)
	}

	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	repo.SaveRun(ctx, sampleRun("a", base, 1, 4))
	repo.SaveRun(ctx, sampleRun("b", base.Add(time.Hour), 2, 3))

	st, err = repo.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.Runs != 2 || st.Questions != 7 || st.Correct != 3 {
		t.Errorf("runs/questions/correct = %d/%d/%d, want 2/7/3", st.Runs, st.Questions, st.Correct)
	}
	if st.BestScore != 2 || st.BestTotal != 3 {
		t.Errorf("best = %d/%d, want 2/3", st.BestScore, st.BestTotal)
	}
	if !st.LastPlayed.Equal(base.Add(time.Hour)) {
		t.Errorf("LastPlayed = %v", st.LastPlayed)
	}
}

func TestSequenceCounter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var seqs []int64
	for i := 0; i < 5; i++ {
		seq, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next %d: %v", i, err)
		}
		seqs = append(seqs, seq)
	}

	// Should be monotonically increasing starting from 1.
	for i, seq := range seqs {
		expected := int64(i + 1)
		if seq != expected {
			t.Errorf("seq[%d] = %d, want %d", i, seq, expected)
		}
	}
}

func TestSessionEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []SessionEventData{
		{RunID: "r1", Action: ActionStart},
		{RunID: "r1", Action: ActionFinish, Score: 2, Mistakes: 1, Answered: 3},
		{RunID: "r2", Action: ActionStart},
		{RunID: "r1", Action: ActionReviewEnter, Score: 2, Mistakes: 1, Answered: 3},
	}
	for _, e := range events {
		if err := repo.AppendSessionEvent(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	got, err := repo.QuerySessionEvents(ctx, "r1", QueryOpts{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("events = %d, want 3", len(got))
	}
	wantActions := []string{ActionStart, ActionFinish, ActionReviewEnter}
	for i, e := range got {
		if e.Action != wantActions[i] {
			t.Errorf("event %d action = %q, want %q", i, e.Action, wantActions[i])
		}
		if i > 0 && e.Sequence <= got[i-1].Sequence {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
	if got[1].Score != 2 || got[1].Answered != 3 {
		t.Errorf("finish event = %+v", got[1])
	}

	all, err := repo.QuerySessionEvents(ctx, "", QueryOpts{After: 1, Limit: 2})
	if err != nil {
		t.Fatalf("query all: %v", err)
	}
	if len(all) != 2 || all[0].Sequence != 2 {
		t.Errorf("paged events = %+v", all)
	}
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	reqs := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "bank-gen", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"questions":[]}`},
		{Provider: "anthropic", Model: "claude-haiku-4-5", Purpose: "bank-gen", InputTokens: 50, OutputTokens: 0, LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "explain", InputTokens: 10, OutputTokens: 20, LatencyMs: 300, Success: true},
	}
	for _, r := range reqs {
		if err := repo.AppendLLMRequest(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 10})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(events) != 3 || events[0].Purpose != "explain" {
		t.Fatalf("events = %+v, want newest first", events)
	}

	e, err := repo.GetLLMEvent(ctx, events[2].ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if e.RequestBody != "[user]\nhi" || e.ResponseBody != `{"questions":[]}` || !e.Success {
		t.Errorf("event = %+v", e)
	}
	if time.Since(e.Timestamp) > time.Minute {
		t.Errorf("timestamp = %v", e.Timestamp)
	}

	if _, err := repo.GetLLMEvent(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing event err = %v, want ErrNotFound", err)
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 || byPurpose[0].Purpose != "bank-gen" {
		t.Fatalf("usage = %+v", byPurpose)
	}
	if byPurpose[0].Calls != 2 || byPurpose[0].InputTokens != 150 || byPurpose[0].OutputTokens != 400 || byPurpose[0].AvgLatencyMs != 500 {
		t.Errorf("bank-gen usage = %+v", byPurpose[0])
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Model != "claude-haiku-4-5" || byModel[1].Model != "gpt-4o-mini" {
		t.Errorf("usage by model = %+v", byModel)
	}
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.RunRepo().SaveRun(ctx, sampleRun("r1", time.Now(), 1, 2))
	s.EventRepo().AppendSessionEvent(ctx, SessionEventData{RunID: "r1", Action: ActionStart})
	s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "x", Success: true})

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}

	runs, _ := s.RunRepo().ListRuns(ctx, QueryOpts{})
	events, _ := s.EventRepo().QuerySessionEvents(ctx, "", QueryOpts{})
	llmEvents, _ := s.EventRepo().QueryLLMEvents(ctx, QueryOpts{})
	if len(runs)+len(events)+len(llmEvents) != 0 {
		t.Errorf("rows left after reset: runs=%d events=%d llm=%d", len(runs), len(events), len(llmEvents))
	}

	seq, err := s.seq.Next(ctx)
	if err != nil {
		t.Fatalf("next: %v", err)
	}
	if seq != 1 {
		t.Errorf("sequence after reset = %d, want 1", seq)
	}
}
