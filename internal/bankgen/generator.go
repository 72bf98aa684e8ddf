// Package bankgen writes multiple-choice question banks with an LLM.
package bankgen

import (
	"context"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Difficulty levels accepted in Request.Difficulty.
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// Request describes the bank to generate.
type Request struct {
	// Topic is the subject of the questions, e.g. "history of computing".
	Topic string `json:"topic" validate:"required,max=200"`

	// Count is how many questions to produce.
	Count int `json:"count" validate:"min=1,max=50"`

	// Difficulty is one of easy, medium or hard. Empty means medium.
	Difficulty string `json:"difficulty" validate:"omitempty,oneof=easy medium hard"`

	// Language of the questions. Empty means English.
	Language string `json:"language" validate:"omitempty,max=40"`

	// Options per question. Zero means 4.
	Options int `json:"options" validate:"omitempty,min=2,max=6"`

	// Avoid lists question texts that must not be repeated, e.g. the
	// questions of an existing bank being extended.
	Avoid []string `json:"avoid"`
}

func (r Request) withDefaults() Request {
	if r.Difficulty == "" {
		r.Difficulty = DifficultyMedium
	}
	if r.Language == "" {
		r.Language = "English"
	}
	if r.Options == 0 {
		r.Options = 4
	}
	return r
}

// Generator produces question banks.
type Generator interface {
	// Generate returns up to req.Count validated, de-duplicated items.
	// It fails when not a single usable item could be produced.
	Generate(ctx context.Context, req Request) ([]quiz.Item, error)
}
