package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/app"
	"github.com/abhisek/quizzy/internal/history"
	"github.com/abhisek/quizzy/internal/logger"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a quiz in the terminal",
	Long: `Start a quiz in the terminal.

Questions come from --bank, a bank generated with --generate, or the
built-in bank. Policy flags override the QUIZZY_* environment.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addSessionFlags(playCmd)
	playCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
	rootCmd.Flags().Bool("no-splash", false, "Skip the welcome animation")
}

// runPlay opens the store, builds the session, and launches the TUI.
func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := applySessionFlags(cmd, cfg); err != nil {
		return err
	}

	log, logFile, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := cmd.Context()
	loader, err := bankLoader(ctx, cmd, cfg, st.EventRepo(), log)
	if err != nil {
		return err
	}
	if topic, _ := cmd.Flags().GetString("generate"); topic != "" {
		fmt.Fprintf(os.Stderr, "Generating questions on %q...\n", topic)
	}

	sess := newSession(ctx, loader, cfg, log)
	defer sess.Close()

	rec := history.NewRecorder(st.RunRepo(), st.EventRepo(), loader.Source(), log)
	stop := rec.Attach(ctx, sess)
	defer stop()

	noSplash, _ := cmd.Flags().GetBool("no-splash")
	return app.Run(app.Options{
		Session:    sess,
		Runs:       st.RunRepo(),
		Source:     loader.Source(),
		SkipSplash: noSplash,
		Logger:     logger.Component(log, "app"),
	})
}
