// Package bank loads question banks from files, the built-in set or the
// LLM generator.
package bank

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/bankgen"
	"github.com/abhisek/quizzy/internal/quiz"
)

// ErrEmptyBank is returned when a source yields zero questions.
var ErrEmptyBank = errors.New("question bank is empty")

//go:embed default_bank.json
var defaultBank []byte

// Loader produces the items of one question bank.
type Loader interface {
	Load(ctx context.Context) ([]quiz.Item, error)

	// Source names where the items come from, for logs and run history.
	Source() string
}

// FileLoader reads a JSON bank file.
type FileLoader struct {
	Path string
}

func (l FileLoader) Load(_ context.Context) ([]quiz.Item, error) {
	raw, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("read bank %s: %w", l.Path, err)
	}
	return decode(raw)
}

func (l FileLoader) Source() string { return l.Path }

// EmbeddedLoader serves the bank compiled into the binary.
type EmbeddedLoader struct{}

func (EmbeddedLoader) Load(_ context.Context) ([]quiz.Item, error) {
	return decode(defaultBank)
}

func (EmbeddedLoader) Source() string { return "embedded" }

// GeneratedLoader asks an LLM generator for a fresh bank.
type GeneratedLoader struct {
	Generator bankgen.Generator
	Request   bankgen.Request
}

func (l GeneratedLoader) Load(ctx context.Context) ([]quiz.Item, error) {
	items, err := l.Generator.Generate(ctx, l.Request)
	if err != nil {
		return nil, fmt.Errorf("generate bank on %q: %w", l.Request.Topic, err)
	}
	if len(items) == 0 {
		return nil, ErrEmptyBank
	}
	return items, nil
}

func (l GeneratedLoader) Source() string { return "generated:" + l.Request.Topic }

// Resolve returns a FileLoader for path, or the embedded bank when path
// is empty.
func Resolve(path string) Loader {
	if path == "" {
		return EmbeddedLoader{}
	}
	return FileLoader{Path: path}
}

// LoadOrEmpty loads l and degrades to an empty bank on failure. The
// error and any data-quality issues are logged, never returned: a session
// over zero questions finishes immediately.
func LoadOrEmpty(ctx context.Context, l Loader, log zerolog.Logger) []quiz.Item {
	items, err := l.Load(ctx)
	if err != nil {
		log.Error().Err(err).Str("source", l.Source()).Msg("failed to load question bank")
		return []quiz.Item{}
	}
	for _, iss := range quiz.Validate(items) {
		log.Warn().
			Str("source", l.Source()).
			Int("item", iss.Index+1).
			Str("field", iss.Field).
			Msg(iss.Message)
	}
	log.Info().Str("source", l.Source()).Int("questions", len(items)).Msg("question bank loaded")
	return items
}

func decode(raw []byte) ([]quiz.Item, error) {
	if err := quiz.ValidateJSON(raw); err != nil {
		return nil, err
	}
	items, err := quiz.ParseItems(raw)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyBank
	}
	return items, nil
}
