package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/abhisek/quizzy/internal/store"
)

// LoggingProvider writes every call to the LLM audit table and to the
// log. It sits under the retry decorator, so each attempt is one event.
type LoggingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	log      zerolog.Logger
}

// WithLogging wraps p. A nil repo keeps the log line only.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log zerolog.Logger) Provider {
	return &LoggingProvider{
		inner:    p,
		provider: providerName,
		events:   repo,
		log:      log.With().Str("component", "llm").Logger(),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	ev := l.event(PurposeFrom(ctx), req, resp, err, time.Since(start))

	line := l.log.Debug()
	if err != nil {
		line = l.log.Warn().Err(err)
	}
	line.Str("purpose", ev.Purpose).
		Str("model", ev.Model).
		Int("input_tokens", ev.InputTokens).
		Int("output_tokens", ev.OutputTokens).
		Int64("latency_ms", ev.LatencyMs).
		Msg("llm request")

	if l.events != nil {
		// Recorded even when the caller gave up; never fails the call.
		if recErr := l.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
			l.log.Warn().Err(recErr).Msg("failed to record llm request event")
		}
	}
	return resp, err
}

func (l *LoggingProvider) ModelID() string { return l.inner.ModelID() }

func (l *LoggingProvider) event(purpose string, req Request, resp *Response, err error, took time.Duration) store.LLMRequestEventData {
	ev := store.LLMRequestEventData{
		Provider:    l.provider,
		Model:       l.inner.ModelID(),
		Purpose:     purpose,
		LatencyMs:   took.Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(req),
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		ev.ResponseBody = string(resp.Content)
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}
	return ev
}

// transcript renders req for `quizzy llm view`.
func transcript(req Request) string {
	var b strings.Builder
	if req.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", req.System)
	}
	for _, m := range req.Messages {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", m.Role, m.Content)
	}
	if req.Schema != nil {
		if def, err := json.Marshal(req.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "[schema: %s]\n%s\n", req.Schema.Name, def)
		}
	}
	return b.String()
}
