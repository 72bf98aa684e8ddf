package store

import (
	"context"
	"fmt"
	"sync"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

const sequenceTable = "global_sequence"

// sequence numbers session and LLM events on one timeline. The counter
// is a singleton row so separate processes sharing the database (play
// and serve) never hand out the same number.
type sequence struct {
	mu  sync.Mutex
	drv dialect.Driver
}

func newSequence(ctx context.Context, drv dialect.Driver) (*sequence, error) {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS ` + sequenceTable + ` (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			next_val INTEGER NOT NULL DEFAULT 1
		)`,
		`INSERT OR IGNORE INTO ` + sequenceTable + ` (id, next_val) VALUES (1, 1)`,
	}
	for _, stmt := range stmts {
		if err := drv.Exec(ctx, stmt, []any{}, nil); err != nil {
			return nil, fmt.Errorf("init %s: %w", sequenceTable, err)
		}
	}
	return &sequence{drv: drv}, nil
}

// Next returns the next number, starting at 1.
func (s *sequence) Next(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows entsql.Rows
	query := `UPDATE ` + sequenceTable + ` SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`
	if err := s.drv.Query(ctx, query, []any{}, &rows); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	defer rows.Close()

	var n int64
	if !rows.Next() {
		return 0, fmt.Errorf("next sequence: %s row missing", sequenceTable)
	}
	if err := rows.Scan(&n); err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return n, rows.Err()
}

// restart rewinds the counter inside tx.
func (s *sequence) restart(ctx context.Context, tx dialect.Tx) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return tx.Exec(ctx, `UPDATE `+sequenceTable+` SET next_val = 1 WHERE id = 1`, []any{}, nil)
}
