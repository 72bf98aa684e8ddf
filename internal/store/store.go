package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a run or event does not exist.
var ErrNotFound = errors.New("not found")

// Store holds the ent SQL driver and provides access to repositories.
type Store struct {
	db  *sql.DB
	drv *entsql.Driver
	seq *sequence
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and runs auto-migration.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", withPragmas(dsn))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	drv := entsql.OpenDB(dialect.SQLite, db)
	if err := migrate(context.Background(), drv); err != nil {
		drv.Close()
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	seq, err := newSequence(context.Background(), drv)
	if err != nil {
		drv.Close()
		return nil, err
	}

	return &Store{db: db, drv: drv, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.drv.Close()
}

// RunRepo returns a RunRepo backed by this store.
func (s *Store) RunRepo() RunRepo {
	return &runRepo{drv: s.drv}
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{drv: s.drv, seq: s.seq}
}

// Reset deletes every run and event. The schema is kept.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin reset: %w", err)
	}
	b := entsql.Dialect(dialect.SQLite)
	for _, table := range []string{answersTable, runsTable, sessionEvents, llmRequestEvents} {
		query, args := b.Delete(table).Query()
		if err := tx.Exec(ctx, query, args, nil); err != nil {
			tx.Rollback()
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	if err := s.seq.restart(ctx, tx); err != nil {
		tx.Rollback()
		return fmt.Errorf("reset sequence: %w", err)
	}
	return tx.Commit()
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// withPragmas adds the per-connection pragmas to dsn so every pooled
// connection gets them, not only the one applyPragmas ran on.
func withPragmas(dsn string) string {
	params := "_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=synchronous(NORMAL)"
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// DefaultDBPath resolves the database file path in priority order:
// 1. QUIZZY_DB environment variable
// 2. $XDG_DATA_HOME/quizzy/quizzy.db
// 3. ~/.local/share/quizzy/quizzy.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("QUIZZY_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	p := filepath.Join(dir, "quizzy.db")
	return p, EnsureDir(p)
}

// DataDir is the directory holding quizzy's database and log file.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "quizzy"), nil
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
