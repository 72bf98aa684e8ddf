package store

import (
	"context"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo backed by the ent SQL builder and the
// global sequence counter.
type eventRepo struct {
	drv *entsql.Driver
	seq *sequence
}

var llmEventColumns = []string{
	"id", "sequence", "timestamp", "provider", "model", "purpose",
	"input_tokens", "output_tokens", "latency_ms", "success",
	"error_message", "request_body", "response_body",
}

func (r *eventRepo) AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := entsql.Dialect(dialect.SQLite).
		Insert(llmRequestEvents).
		Columns(llmEventColumns[1:]...).
		Values(
			seqNum,
			time.Now().UTC(),
			data.Provider,
			data.Model,
			data.Purpose,
			data.InputTokens,
			data.OutputTokens,
			data.LatencyMs,
			data.Success,
			data.ErrorMessage,
			data.RequestBody,
			data.ResponseBody,
		).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save LLM request event: %w", err)
	}
	return nil
}

func (r *eventRepo) QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select(llmEventColumns...).
		From(b.Table(llmRequestEvents)).
		OrderBy(entsql.Desc("sequence"))
	applyEventOpts(sel, opts)

	query, args := sel.Query()
	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM events: %w", err)
	}
	defer rows.Close()

	var out []LLMRequestEvent
	for rows.Next() {
		e, err := scanLLMEvent(&rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM events: %w", err)
	}
	return out, nil
}

func (r *eventRepo) GetLLMEvent(ctx context.Context, id int) (*LLMRequestEvent, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(llmEventColumns...).
		From(b.Table(llmRequestEvents)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM event: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query LLM event: %w", err)
		}
		return nil, ErrNotFound
	}
	e, err := scanLLMEvent(&rows)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *eventRepo) LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "purpose")
}

func (r *eventRepo) LLMUsageByModel(ctx context.Context) ([]LLMUsage, error) {
	return r.llmUsage(ctx, "model")
}

// llmUsage groups LLM events by column, busiest group first.
func (r *eventRepo) llmUsage(ctx context.Context, column string) ([]LLMUsage, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select(
		column,
		entsql.Count("*"),
		"COALESCE(SUM(input_tokens), 0)",
		"COALESCE(SUM(output_tokens), 0)",
		"CAST(COALESCE(AVG(latency_ms), 0) AS INTEGER)",
	).
		From(b.Table(llmRequestEvents)).
		GroupBy(column).
		OrderBy(entsql.Desc(entsql.Count("*")), column).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query LLM usage by %s: %w", column, err)
	}
	defer rows.Close()

	var out []LLMUsage
	for rows.Next() {
		var (
			u   LLMUsage
			key string
		)
		if err := rows.Scan(&key, &u.Calls, &u.InputTokens, &u.OutputTokens, &u.AvgLatencyMs); err != nil {
			return nil, fmt.Errorf("scan LLM usage: %w", err)
		}
		if column == "model" {
			u.Model = key
		} else {
			u.Purpose = key
		}
		out = append(out, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate LLM usage: %w", err)
	}
	return out, nil
}

func scanLLMEvent(rows *entsql.Rows) (LLMRequestEvent, error) {
	var e LLMRequestEvent
	if err := rows.Scan(&e.ID, &e.Sequence, &e.Timestamp, &e.Provider, &e.Model, &e.Purpose,
		&e.InputTokens, &e.OutputTokens, &e.LatencyMs, &e.Success,
		&e.ErrorMessage, &e.RequestBody, &e.ResponseBody); err != nil {
		return LLMRequestEvent{}, fmt.Errorf("scan LLM event: %w", err)
	}
	return e, nil
}

// applyEventOpts adds the QueryOpts filters shared by event tables.
func applyEventOpts(sel *entsql.Selector, opts QueryOpts) {
	if opts.After > 0 {
		sel.Where(entsql.GT("sequence", opts.After))
	}
	if opts.Before > 0 {
		sel.Where(entsql.LT("sequence", opts.Before))
	}
	if !opts.From.IsZero() {
		sel.Where(entsql.GTE("timestamp", opts.From.UTC()))
	}
	if !opts.To.IsZero() {
		sel.Where(entsql.LTE("timestamp", opts.To.UTC()))
	}
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
}
