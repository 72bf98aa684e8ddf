package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/abhisek/quizzy/internal/session"
	"github.com/abhisek/quizzy/internal/validator"
)

// Config holds all application configuration.
type Config struct {
	TimerSeconds     int  `json:"timer_seconds" validate:"min=1,max=3600"`
	ShuffleOptions   bool `json:"shuffle_options"`
	AllowRevisit     bool `json:"allow_revisit"`
	TrackElapsedTime bool `json:"track_elapsed"`

	// Seed fixes the shuffle order; zero means time based.
	Seed uint64 `json:"seed"`

	// BankPath is a JSON question file; empty selects the built-in bank.
	BankPath string `json:"bank"`
	DBPath   string `json:"db"`

	LogLevel  string `json:"log_level" validate:"oneof=trace debug info warn error fatal panic"`
	LogFormat string `json:"log_format" validate:"oneof=pretty json auto"`
	LogFile   string `json:"log_file"`

	ServerAddr string `json:"addr" validate:"required,hostname_port"`
	GinMode    string `json:"gin_mode" validate:"oneof=debug release test"`
	// AllowedOrigins controls HTTP CORS and WebSocket origin checks.
	// Empty means all origins are permitted.
	AllowedOrigins []string `json:"allowed_origins" validate:"dive,url"`
}

// Load reads configuration from the environment, after loading a .env file
// if one is present.
func Load() *Config {
	_ = godotenv.Load() // .env is optional

	return &Config{
		TimerSeconds:     getEnvInt("QUIZZY_TIMER_SECONDS", session.DefaultTimerSeconds),
		ShuffleOptions:   getEnvBool("QUIZZY_SHUFFLE_OPTIONS", false),
		AllowRevisit:     getEnvBool("QUIZZY_ALLOW_REVISIT", true),
		TrackElapsedTime: getEnvBool("QUIZZY_TRACK_ELAPSED", false),
		Seed:             getEnvUint("QUIZZY_SEED", 0),
		BankPath:         getEnv("QUIZZY_BANK", ""),
		DBPath:           getEnv("QUIZZY_DB", ""),
		LogLevel:         getEnv("QUIZZY_LOG_LEVEL", "info"),
		LogFormat:        getEnv("QUIZZY_LOG_FORMAT", "auto"),
		LogFile:          getEnv("QUIZZY_LOG_FILE", ""),
		ServerAddr:       getEnv("QUIZZY_ADDR", "127.0.0.1:8080"),
		GinMode:          getEnv("QUIZZY_GIN_MODE", "release"),
		AllowedOrigins:   parseOrigins(getEnv("QUIZZY_ALLOWED_ORIGINS", "")),
	}
}

// Validate checks every field and joins the failures into one error.
func (c *Config) Validate() error {
	fes, err := validator.Struct(c)
	if err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	if len(fes) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(fes))
	for _, fe := range fes {
		msgs = append(msgs, fe.Message)
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// SessionConfig returns the session policies.
func (c *Config) SessionConfig() session.Config {
	return session.Config{
		TimerSeconds:              c.TimerSeconds,
		ShuffleOptionsPerQuestion: c.ShuffleOptions,
		AllowRevisit:              c.AllowRevisit,
		TrackElapsedTime:          c.TrackElapsedTime,
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvUint(key string, fallback uint64) uint64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

// parseOrigins splits a comma-separated origins string into a trimmed slice.
// Returns nil (allow-all) if the input is empty.
func parseOrigins(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
