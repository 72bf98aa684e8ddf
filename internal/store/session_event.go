package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

var sessionEventColumns = []string{
	"id", "sequence", "timestamp", "run_id", "action", "score", "mistakes", "answered",
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(sessionEvents).
		Columns(sessionEventColumns[1:]...).
		Values(seqNum, time.Now().UTC(), data.RunID, data.Action, data.Score, data.Mistakes, data.Answered).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) QuerySessionEvents(ctx context.Context, runID string, opts QueryOpts) ([]SessionEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(sessionEventColumns...).
		From(b.Table(sessionEvents)).
		OrderBy("sequence")
	if runID != "" {
		sel.Where(entsql.EQ("run_id", runID))
	}
	applyEventOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEvent
	for rows.Next() {
		var e SessionEvent
		if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.RunID, &e.Action,
			&e.Score, &e.Mistakes, &e.Answered); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return out, nil
}
