package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/logger"
	"github.com/abhisek/quizzy/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "quizzy",
	Short: "Timed multiple-choice quizzes in the terminal",
	Long: `Quizzy runs a timed multiple-choice quiz in the terminal.

Each question has its own countdown. Finished runs are kept in a local
SQLite database so you can review mistakes and track your accuracy.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides QUIZZY_DB env var)")
	addSessionFlags(rootCmd)

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the environment and validates the result.
func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then QUIZZY_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// fileLogger logs to cfg.LogFile, or quizzy.log in the data directory.
// The TUI owns the terminal, so nothing may be written to stdout.
func fileLogger(cfg *config.Config) (zerolog.Logger, io.Closer, error) {
	path := cfg.LogFile
	if path == "" {
		dir, err := store.DataDir()
		if err != nil {
			return zerolog.Nop(), nil, err
		}
		path = filepath.Join(dir, "quizzy.log")
	}
	f, err := logger.OpenFile(path)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}
	format := cfg.LogFormat
	if format == "auto" {
		format = "json"
	}
	return logger.Setup(cfg.LogLevel, format, f), f, nil
}

func stderrLogger(cfg *config.Config) zerolog.Logger {
	return logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr)
}
