// Package httpapi serves the quiz session over HTTP and a WebSocket
// stream of snapshots.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/store"
	"github.com/abhisek/quizzy/internal/validator"
)

// Options configures a Server.
type Options struct {
	Session *session.Store

	// Runs backs /api/runs. Nil leaves those routes out.
	Runs store.RunRepo

	// AllowedOrigins restricts CORS and WebSocket origins. Empty allows all.
	AllowedOrigins []string

	// GinMode is "debug", "release" or "test".
	GinMode string

	Logger zerolog.Logger
}

// Server is the HTTP presenter of one session.
type Server struct {
	session  *session.Store
	runs     store.RunRepo
	log      zerolog.Logger
	upgrader websocket.Upgrader
	engine   *gin.Engine
}

// New builds the server and its routes.
func New(opts Options) *Server {
	if opts.GinMode != "" {
		gin.SetMode(opts.GinMode)
	}
	validator.Setup()

	s := &Server{
		session:  opts.Session,
		runs:     opts.Runs,
		log:      opts.Logger.With().Str("component", "httpapi").Logger(),
		upgrader: buildUpgrader(opts.AllowedOrigins),
	}
	s.engine = s.routes(opts.AllowedOrigins)
	return s
}

// Handler returns the http.Handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes(allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	if len(allowedOrigins) > 0 {
		corsConfig.AllowOrigins = allowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	r.Use(cors.New(corsConfig))

	r.Use(requestID())
	r.Use(s.accessLog())

	r.GET("/health", func(c *gin.Context) {
		success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/session")
	{
		api.GET("", s.getSession)
		api.GET("/mistakes", s.getMistakes)
		api.POST("/start", s.command(CmdStart))
		api.POST("/answer", s.postAnswer)
		api.POST("/next", s.command(CmdNext))
		api.POST("/previous", s.command(CmdPrevious))
		api.POST("/goto", s.postGoTo)
		api.POST("/finish", s.command(CmdFinish))
		api.POST("/review/enter", s.command(CmdReviewEnter))
		api.POST("/review/exit", s.command(CmdReviewExit))
		api.POST("/restart", s.command(CmdRestart))
	}

	if s.runs != nil {
		runs := r.Group("/api/runs")
		{
			runs.GET("", s.listRuns)
			runs.GET("/stats", s.runStats)
			runs.GET("/:id", s.getRun)
		}
	}

	r.GET("/ws", s.stream)
	return r
}

// accessLog writes one zerolog line per request.
func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug().
			Str("request_id", c.GetString(contextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
