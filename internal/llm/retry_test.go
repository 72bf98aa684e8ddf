package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: time.Millisecond,
		MaxWait:     5 * time.Millisecond,
		Multiplier:  2,
	}
}

var okReply = MockResponse{Content: json.RawMessage(`{"questions":[]}`)}

func TestRetry(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	cases := []struct {
		name      string
		script    []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first try", []MockResponse{okReply}, false, 1},
		{"transient then ok", []MockResponse{down, okReply}, false, 2},
		{"rate limited then ok", []MockResponse{{Err: &ErrRateLimit{Err: errors.New("429")}}, okReply}, false, 2},
		{"always down", []MockResponse{down, down, down, okReply}, true, 3},
		{"truncated", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, okReply}, true, 1},
		{"rejected", []MockResponse{{Err: &ErrRejected{Status: 401, Err: errors.New("bad key")}}, okReply}, true, 1},
		{"invalid once", []MockResponse{invalid, okReply}, false, 2},
		{"invalid twice", []MockResponse{invalid, invalid, okReply}, true, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := NewMockProvider(tc.script...)
			p := WithRetry(mock, fastRetry(), zerolog.Nop())

			resp, err := p.Generate(context.Background(), Request{})
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.JSONEq(t, `{"questions":[]}`, string(resp.Content))
			}
			assert.Equal(t, tc.wantCalls, mock.CallCount())
		})
	}
}

func TestRetry_StopsWhenContextEnds(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrProviderUnavailable{}}, okReply)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour
	p := WithRetry(mock, cfg, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := p.Generate(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_CanceledIsFinal(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: context.Canceled}, okReply)
	p := WithRetry(mock, fastRetry(), zerolog.Nop())

	_, err := p.Generate(context.Background(), Request{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetry_Delay(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}

	for attempt, base := range map[int]time.Duration{1: 100 * time.Millisecond, 2: 200 * time.Millisecond, 5: time.Second} {
		d := r.delay(attempt, errors.New("x"))
		assert.GreaterOrEqual(t, d, base*8/10, "attempt %d", attempt)
		assert.LessOrEqual(t, d, base*12/10, "attempt %d", attempt)
	}

	hinted := &ErrRateLimit{RetryAfter: 3 * time.Second}
	assert.Equal(t, 3*time.Second, r.delay(1, hinted))
}

func TestWithRetry_AtLeastOneAttempt(t *testing.T) {
	mock := NewMockProvider(okReply)
	p := WithRetry(mock, RetryConfig{}, zerolog.Nop())

	_, err := p.Generate(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, p.ModelID())
}
