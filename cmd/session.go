package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/bank"
	"github.com/abhisek/quizzy/internal/bankgen"
	"github.com/abhisek/quizzy/internal/config"
	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/logger"
	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
)

var errNoProvider = errors.New("no LLM provider configured: set QUIZZY_LLM_PROVIDER and its API key, or ANTHROPIC_API_KEY / OPENAI_API_KEY / GEMINI_API_KEY / OPENROUTER_API_KEY")

// addSessionFlags registers the quiz policy flags shared by play and serve.
// Flags left unset fall back to the QUIZZY_* environment.
func addSessionFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("bank", "", "Question bank JSON file (default: built-in bank)")
	f.Int("timer", session.DefaultTimerSeconds, "Seconds per question")
	f.Bool("shuffle-options", false, "Shuffle the options of every question")
	f.Bool("no-revisit", false, "Lock answered questions")
	f.Bool("track-time", false, "Record time spent per answer")
	f.Uint64("seed", 0, "Shuffle seed (0 = random)")
	f.String("generate", "", "Generate a fresh bank on this topic with the configured LLM")
	f.Int("count", 10, "Number of questions to generate with --generate")
	f.String("difficulty", bankgen.DifficultyMedium, "Difficulty for --generate: easy, medium or hard")
}

// applySessionFlags overrides cfg with the flags the user actually set.
func applySessionFlags(cmd *cobra.Command, cfg *config.Config) error {
	f := cmd.Flags()
	if f.Changed("bank") {
		cfg.BankPath, _ = f.GetString("bank")
	}
	if f.Changed("timer") {
		cfg.TimerSeconds, _ = f.GetInt("timer")
	}
	if f.Changed("shuffle-options") {
		cfg.ShuffleOptions, _ = f.GetBool("shuffle-options")
	}
	if f.Changed("no-revisit") {
		noRevisit, _ := f.GetBool("no-revisit")
		cfg.AllowRevisit = !noRevisit
	}
	if f.Changed("track-time") {
		cfg.TrackElapsedTime, _ = f.GetBool("track-time")
	}
	if f.Changed("seed") {
		cfg.Seed, _ = f.GetUint64("seed")
	}
	return cfg.Validate()
}

// bankLoader picks the question source: an LLM-generated bank when
// --generate is set, otherwise the file or built-in bank.
func bankLoader(ctx context.Context, cmd *cobra.Command, cfg *config.Config, events store.EventRepo, log zerolog.Logger) (bank.Loader, error) {
	topic, _ := cmd.Flags().GetString("generate")
	if topic == "" {
		return bank.Resolve(cfg.BankPath), nil
	}

	count, _ := cmd.Flags().GetInt("count")
	difficulty, _ := cmd.Flags().GetString("difficulty")

	gen, err := newBankGenerator(ctx, events, log)
	if err != nil {
		return nil, err
	}
	return bank.GeneratedLoader{
		Generator: gen,
		Request: bankgen.Request{
			Topic:      topic,
			Count:      count,
			Difficulty: difficulty,
		},
	}, nil
}

func newBankGenerator(ctx context.Context, events store.EventRepo, log zerolog.Logger) (*bankgen.LLMGenerator, error) {
	llmCfg, ok := llm.Resolve()
	if !ok {
		return nil, errNoProvider
	}
	provider, err := llm.NewProvider(ctx, llmCfg, events, logger.Component(log, "llm"))
	if err != nil {
		return nil, fmt.Errorf("LLM provider: %w", err)
	}
	return bankgen.New(provider, bankgen.DefaultConfig()), nil
}

// newSession loads the bank and builds a session over it. A bank that
// fails to load yields an empty session; the failure is logged.
func newSession(ctx context.Context, loader bank.Loader, cfg *config.Config, log zerolog.Logger) *session.Store {
	items := bank.LoadOrEmpty(ctx, loader, logger.Component(log, "bank"))

	opts := []session.Option{session.WithLogger(logger.Component(log, "session"))}
	if cfg.Seed != 0 {
		opts = append(opts, session.WithSeed(cfg.Seed))
	}
	return session.New(items, cfg.SessionConfig(), opts...)
}
