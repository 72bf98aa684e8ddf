package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one scripted reply. A non-nil Err is returned instead
// of the content.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays scripted replies in order and records every
// request. Once the script runs out it reports the provider unavailable.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse

	// Calls holds every request received, in order.
	Calls []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.script) == 0 {
		return nil, &ErrProviderUnavailable{}
	}
	next := m.script[0]
	m.script = m.script[1:]
	if next.Err != nil {
		return nil, next.Err
	}

	resp := &Response{Content: next.Content, Usage: next.Usage, Model: ProviderMock, StopReason: StopEnd}
	if err := checkOutput(req, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

func (m *MockProvider) ModelID() string { return ProviderMock }

// CallCount is len(Calls) under the lock.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
