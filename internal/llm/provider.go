package llm

import (
	"context"
	"encoding/json"
)

// Provider sends one prompt to a model and returns its reply.
type Provider interface {
	// Generate runs req. With req.Schema set the reply is JSON that has
	// already been checked against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID is the model the provider was configured with.
	ModelID() string
}

// Request is a single-turn prompt.
type Request struct {
	System   string
	Messages []Message

	// Schema asks for structured output. Nil returns free text.
	Schema *Schema

	MaxTokens int

	// Temperature in 0..1. Zero leaves the vendor default.
	Temperature float64
}

// Message is one turn of the prompt.
type Message struct {
	Role    Role
	Content string
}

// Role is the sender of a Message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// Response is a model reply.
type Response struct {
	// Content is the JSON reply, or the raw text when no schema was set.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the call, which may be a
	// dated snapshot of ModelID.
	Model string

	// StopReason is StopEnd or StopMaxTokens.
	StopReason string
}

// Usage counts tokens for one call.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

func newUsage(in, out int) Usage {
	return Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out}
}

// checkOutput applies the structured-output contract to a vendor reply:
// a truncated reply is reported as such, anything else must match the
// schema.
func checkOutput(req Request, resp *Response) error {
	if req.Schema == nil {
		return nil
	}
	if resp.StopReason == StopMaxTokens {
		return &ErrMaxTokensExceeded{Content: resp.Content}
	}
	return req.Schema.Validate(resp.Content)
}

// alias maps a short model name to a vendor model ID. Unknown names are
// assumed to be IDs already.
func alias(name string, table map[string]string) string {
	if id, ok := table[name]; ok {
		return id
	}
	return name
}
