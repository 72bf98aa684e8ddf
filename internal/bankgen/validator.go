package bankgen

import (
	"fmt"

	"github.com/abhisek/quizzy/internal/quiz"
)

// Validator checks one generated item.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in error messages.
	Name() string

	// Validate returns nil if the item passes.
	Validate(it quiz.Item, req Request) *ValidationError
}

// ValidationError describes why generated output was rejected.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Retryable bool   // Whether regeneration is likely to fix this
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator applies the bank load checks: required fields and
// the answer being one of the options.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(it quiz.Item, _ Request) *ValidationError {
	issues := quiz.Validate([]quiz.Item{it})
	if len(issues) == 0 {
		return nil
	}
	iss := issues[0]
	return &ValidationError{
		Validator: v.Name(),
		Message:   iss.Field + ": " + iss.Message,
		Retryable: true,
	}
}

// LengthValidator keeps question and explanation text readable on one
// screen.
type LengthValidator struct {
	MaxQuestion    int
	MaxExplanation int
}

func (v *LengthValidator) Name() string { return "length" }

func (v *LengthValidator) Validate(it quiz.Item, _ Request) *ValidationError {
	if v.MaxQuestion > 0 && len(it.Question) > v.MaxQuestion {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("question exceeds %d characters", v.MaxQuestion),
			Retryable: true,
		}
	}
	if it.Explanation == "" {
		return &ValidationError{
			Validator: v.Name(),
			Message:   "explanation is empty",
			Retryable: true,
		}
	}
	if v.MaxExplanation > 0 && len(it.Explanation) > v.MaxExplanation {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("explanation exceeds %d characters", v.MaxExplanation),
			Retryable: true,
		}
	}
	return nil
}

// OptionCountValidator requires exactly the requested number of options.
type OptionCountValidator struct{}

func (v *OptionCountValidator) Name() string { return "option-count" }

func (v *OptionCountValidator) Validate(it quiz.Item, req Request) *ValidationError {
	if len(it.Options) != req.Options {
		return &ValidationError{
			Validator: v.Name(),
			Message:   fmt.Sprintf("expected %d options, got %d", req.Options, len(it.Options)),
			Retryable: true,
		}
	}
	return nil
}
