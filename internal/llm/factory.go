package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/store"
)

// NewProvider creates a Provider from configuration. The result is the
// base provider wrapped as caller → timeout → retry → logging → base, so
// every attempt is audited and the whole call is bounded by cfg.Timeout.
// repo may be nil when no audit trail is wanted.
func NewProvider(ctx context.Context, cfg Config, repo store.EventRepo, log zerolog.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error

	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case ProviderOpenRouter:
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	p := WithLogging(base, cfg.Provider, repo, log)
	p = WithRetry(p, cfg.Retry, log)
	p = WithTimeout(p, cfg.Timeout)
	return p, nil
}

// TimeoutProvider bounds each Generate call with a deadline.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps p so Generate gives up after d. A non-positive d
// returns p unchanged.
func WithTimeout(p Provider, d time.Duration) Provider {
	if d <= 0 {
		return p
	}
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
