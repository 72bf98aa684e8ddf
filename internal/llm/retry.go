package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
)

// RetryProvider retries transient failures with jittered exponential
// backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
	log    zerolog.Logger
}

// WithRetry wraps p. MaxAttempts below 1 means a single attempt.
func WithRetry(p Provider, cfg RetryConfig, log zerolog.Logger) Provider {
	cfg.MaxAttempts = max(cfg.MaxAttempts, 1)
	return &RetryProvider{inner: p, config: cfg, log: log}
}

type retryClass int

const (
	noRetry retryClass = iota
	retryOnce
	retryAlways
)

// classify decides whether err is worth another attempt. A reply that
// failed the schema gets exactly one more try; models usually get it
// right the second time or never.
func classify(err error) retryClass {
	var (
		maxTok   *ErrMaxTokensExceeded
		rejected *ErrRejected
		invalid  *ErrInvalidResponse
	)
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return noRetry
	case errors.As(err, &maxTok), errors.As(err, &rejected):
		return noRetry
	case errors.As(err, &invalid):
		return retryOnce
	default:
		return retryAlways
	}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	retriedInvalid := false
	for attempt := 1; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}

		switch classify(err) {
		case noRetry:
			return nil, err
		case retryOnce:
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt >= r.config.MaxAttempts {
			return nil, err
		}

		wait := r.delay(attempt, err)
		r.log.Debug().Err(err).
			Int("attempt", attempt).
			Dur("wait", wait).
			Str("purpose", PurposeFrom(ctx)).
			Msg("retrying llm request")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// delay is InitialWait * Multiplier^(attempt-1), capped at MaxWait, with
// ±20% jitter. A rate limit with a RetryAfter hint waits exactly that.
func (r *RetryProvider) delay(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.config.InitialWait) * math.Pow(r.config.Multiplier, float64(attempt-1))
	d = math.Min(d, float64(r.config.MaxWait))
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}
