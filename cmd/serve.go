package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/quizzy/internal/history"
	"github.com/abhisek/quizzy/internal/httpapi"
	"github.com/abhisek/quizzy/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one quiz session over HTTP and WebSocket",
	Long: `Serve one quiz session over a JSON HTTP API.

Clients drive the session with POST /api/session/* commands and can
follow it live on /ws. Finished runs are saved like in the terminal.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.ServerAddr, _ = cmd.Flags().GetString("addr")
		}
		if err := applySessionFlags(cmd, cfg); err != nil {
			return err
		}
		log := logger.Setup(cfg.LogLevel, cfg.LogFormat, os.Stdout)

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		loader, err := bankLoader(ctx, cmd, cfg, st.EventRepo(), log)
		if err != nil {
			return err
		}
		sess := newSession(ctx, loader, cfg, log)
		defer sess.Close()

		rec := history.NewRecorder(st.RunRepo(), st.EventRepo(), loader.Source(), log)
		stop := rec.Attach(ctx, sess)
		defer stop()

		srv := httpapi.New(httpapi.Options{
			Session:        sess,
			Runs:           st.RunRepo(),
			AllowedOrigins: cfg.AllowedOrigins,
			GinMode:        cfg.GinMode,
			Logger:         log,
		})
		return srv.ListenAndServe(ctx, cfg.ServerAddr)
	},
}

func init() {
	addSessionFlags(serveCmd)
	serveCmd.Flags().String("addr", "127.0.0.1:8080", "Listen address (overrides QUIZZY_ADDR)")
}
