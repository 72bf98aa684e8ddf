package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// runRepo implements RunRepo with the ent SQL builder.
type runRepo struct {
	drv *entsql.Driver
}

var runColumns = []string{
	"run_id", "started_at", "finished_at", "total", "score", "mistakes",
	"unanswered", "duration_ms", "timer_seconds", "shuffle_options",
	"allow_revisit", "track_elapsed", "source",
}

var answerColumns = []string{
	"run_id", "position", "question", "options", "answer", "explanation",
	"selected", "timed_out", "correct", "elapsed_ms", "mistake_order",
}

func (r *runRepo) SaveRun(ctx context.Context, run RunRecord) (err error) {
	tx, err := r.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin save run: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	b := entsql.Dialect(dialect.SQLite)

	exists, err := countRows(ctx, tx, b.Select(entsql.Count("*")).
		From(b.Table(runsTable)).
		Where(entsql.EQ("run_id", run.RunID)))
	if err != nil {
		return fmt.Errorf("check run %s: %w", run.RunID, err)
	}
	if exists > 0 {
		return tx.Commit()
	}

	query, args := b.Insert(runsTable).
		Columns(runColumns...).
		Values(
			run.RunID,
			run.StartedAt.UTC(),
			run.FinishedAt.UTC(),
			run.Total,
			run.Score,
			run.Mistakes,
			run.Unanswered,
			run.Duration.Milliseconds(),
			run.TimerSeconds,
			run.ShuffleOptions,
			run.AllowRevisit,
			run.TrackElapsed,
			run.Source,
		).
		Query()
	if err = tx.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Answers) > 0 {
		ins := b.Insert(answersTable).Columns(answerColumns...)
		for _, a := range run.Answers {
			opts, mErr := json.Marshal(a.Options)
			if mErr != nil {
				err = fmt.Errorf("encode options: %w", mErr)
				return err
			}
			ins.Values(
				run.RunID,
				a.Position,
				a.Question,
				string(opts),
				a.Answer,
				a.Explanation,
				a.Selected,
				a.TimedOut,
				a.Correct,
				a.Elapsed.Milliseconds(),
				a.MistakeOrder,
			)
		}
		query, args = ins.Query()
		if err = tx.Exec(ctx, query, args, nil); err != nil {
			return fmt.Errorf("insert answers: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

func (r *runRepo) ListRuns(ctx context.Context, opts QueryOpts) ([]RunRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(runColumns...).
		From(b.Table(runsTable)).
		OrderBy(entsql.Desc("finished_at"), entsql.Desc("id"))
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("finished_at", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("finished_at", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		run, err := scanRun(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return out, nil
}

func (r *runRepo) GetRun(ctx context.Context, runID string) (*RunRecord, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(runColumns...).
		From(b.Table(runsTable)).
		Where(entsql.EQ("run_id", runID)).
		Query()

	run, err := r.queryOneRun(ctx, query, args)
	if err != nil {
		return nil, err
	}

	query, args = b.Select(answerColumns...).
		From(b.Table(answersTable)).
		Where(entsql.EQ("run_id", runID)).
		OrderBy("position").
		Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query answers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			a         AnswerRow
			rid, opts string
			elapsedMs int64
		)
		if err := rows.Scan(&rid, &a.Position, &a.Question, &opts, &a.Answer, &a.Explanation,
			&a.Selected, &a.TimedOut, &a.Correct, &elapsedMs, &a.MistakeOrder); err != nil {
			return nil, fmt.Errorf("scan answer: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &a.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		a.Elapsed = time.Duration(elapsedMs) * time.Millisecond
		run.Answers = append(run.Answers, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate answers: %w", err)
	}
	return run, nil
}

func (r *runRepo) queryOneRun(ctx context.Context, query string, args []any) (*RunRecord, error) {
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query run: %w", err)
		}
		return nil, ErrNotFound
	}
	run, err := scanRun(&rows)
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *runRepo) Stats(ctx context.Context) (RunStats, error) {
	var st RunStats
	b := entsql.Dialect(dialect.SQLite)

	query, args := b.Select(
		entsql.Count("*"),
		"COALESCE(SUM(total), 0)",
		"COALESCE(SUM(score), 0)",
		"COALESCE(SUM(mistakes), 0)",
		"COALESCE(SUM(unanswered), 0)",
	).From(b.Table(runsTable)).Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return st, fmt.Errorf("query run stats: %w", err)
	}
	if rows.Next() {
		if err := rows.Scan(&st.Runs, &st.Questions, &st.Correct, &st.Mistakes, &st.Unanswered); err != nil {
			rows.Close()
			return st, fmt.Errorf("scan run stats: %w", err)
		}
	}
	rows.Close()
	if st.Runs == 0 {
		return st, nil
	}

	best, err := r.ListRuns(ctx, QueryOpts{})
	if err != nil {
		return st, err
	}
	st.LastPlayed = best[0].FinishedAt
	for _, run := range best {
		if run.Total == 0 {
			continue
		}
		if st.BestTotal == 0 || run.Score*st.BestTotal > st.BestScore*run.Total {
			st.BestScore, st.BestTotal = run.Score, run.Total
		}
	}
	return st, nil
}

func scanRun(rows *entsql.Rows) (RunRecord, error) {
	var (
		run        RunRecord
		durationMs int64
	)
	if err := rows.Scan(&run.RunID, &run.StartedAt, &run.FinishedAt, &run.Total, &run.Score,
		&run.Mistakes, &run.Unanswered, &durationMs, &run.TimerSeconds, &run.ShuffleOptions,
		&run.AllowRevisit, &run.TrackElapsed, &run.Source); err != nil {
		return RunRecord{}, fmt.Errorf("scan run: %w", err)
	}
	run.Duration = time.Duration(durationMs) * time.Millisecond
	return run, nil
}

// countRows runs a single-value COUNT selector.
func countRows(ctx context.Context, q dialect.ExecQuerier, sel *entsql.Selector) (int, error) {
	query, args := sel.Query()
	var rows entsql.Rows
	if err := q.Query(ctx, query, args, &rows); err != nil {
		return 0, err
	}
	defer rows.Close()

	n := 0
	if rows.Next() {
		if err := rows.Scan(&n); err != nil {
			return 0, err
		}
	}
	return n, rows.Err()
}
