package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
	"github.com/abhisek/quizzy/internal/validator"
)

// ErrNoQuestions is returned when every attempt produced zero usable items.
var ErrNoQuestions = errors.New("no usable questions generated")

// LLMGenerator implements Generator using the LLM provider.
type LLMGenerator struct {
	provider llm.Provider
	config   Config
}

// New creates a new LLMGenerator with the given provider and config.
func New(provider llm.Provider, cfg Config) *LLMGenerator {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &LLMGenerator{provider: provider, config: cfg}
}

// bankOutput is the raw LLM response before validation.
type bankOutput struct {
	Questions []quiz.Item `json:"questions"`
}

// Generate asks the LLM for req.Count questions. Items that fail a
// validator or repeat an earlier question are dropped and the shortfall is
// requested again, up to Config.MaxAttempts calls. A short bank is
// returned as is once attempts run out.
func (g *LLMGenerator) Generate(ctx context.Context, req Request) ([]quiz.Item, error) {
	fieldErrs, err := validator.Struct(req)
	if err != nil {
		return nil, err
	}
	if len(fieldErrs) > 0 {
		msgs := make([]string, len(fieldErrs))
		for i, fe := range fieldErrs {
			msgs[i] = fe.Message
		}
		return nil, &ValidationError{
			Validator: "request",
			Message:   strings.Join(msgs, "; "),
			Retryable: false,
		}
	}
	req = req.withDefaults()
	ctx = llm.WithPurpose(ctx, "bank-gen")

	var (
		collected []quiz.Item
		rejection string
		lastErr   *ValidationError
	)
	avoid := append([]string(nil), req.Avoid...)

	for range g.config.MaxAttempts {
		want := req.Count - len(collected)
		items, err := g.generateOnce(ctx, req, want, avoid, rejection)
		if err != nil {
			if len(collected) > 0 {
				break
			}
			return nil, err
		}

		before := len(items)
		items = Dedup(items, avoid)
		dupes := before - len(items)

		kept, verr := g.check(items, req)
		collected = append(collected, kept...)
		for _, it := range kept {
			avoid = append(avoid, it.Question)
		}

		if len(collected) >= req.Count {
			return collected[:req.Count], nil
		}

		rejection = shortfall(verr, dupes)
		if verr != nil {
			lastErr = verr
			if !verr.Retryable {
				break
			}
		}
	}

	if len(collected) == 0 {
		if lastErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrNoQuestions, lastErr)
		}
		return nil, ErrNoQuestions
	}
	return collected, nil
}

func (g *LLMGenerator) generateOnce(ctx context.Context, req Request, want int, avoid []string, rejection string) ([]quiz.Item, error) {
	llmReq := llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, want, avoid, rejection, g.config)},
		},
		Schema:      BankSchema,
		MaxTokens:   g.config.maxTokens(want),
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, llmReq)
	if err != nil {
		return nil, fmt.Errorf("LLM generation failed: %w", err)
	}

	var raw bankOutput
	if err := json.Unmarshal(resp.Content, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response: %w", err)
	}
	return raw.Questions, nil
}

// check runs the validator chain over items and returns those that pass
// along with the first failure seen.
func (g *LLMGenerator) check(items []quiz.Item, req Request) ([]quiz.Item, *ValidationError) {
	var (
		kept  []quiz.Item
		first *ValidationError
	)
next:
	for _, it := range items {
		for _, v := range g.config.Validators {
			if verr := v.Validate(it, req); verr != nil {
				if first == nil {
					first = verr
				}
				continue next
			}
		}
		kept = append(kept, it)
	}
	return kept, first
}

func shortfall(verr *ValidationError, dupes int) string {
	var parts []string
	if verr != nil {
		parts = append(parts, verr.Message)
	}
	if dupes > 0 {
		parts = append(parts, fmt.Sprintf("%d repeated an already asked question", dupes))
	}
	if len(parts) == 0 {
		return "too few questions were returned"
	}
	return strings.Join(parts, "; ")
}
