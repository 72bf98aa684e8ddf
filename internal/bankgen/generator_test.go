package bankgen

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/quizzy/internal/llm"
	"github.com/abhisek/quizzy/internal/quiz"
)

func item(q, answer string, distractors ...string) quiz.Item {
	return quiz.Item{
		Question:    q,
		Options:     append([]string{answer}, distractors...),
		Answer:      answer,
		Explanation: "Because " + answer + ".",
	}
}

func bankJSON(t *testing.T, items ...quiz.Item) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(bankOutput{Questions: items})
	require.NoError(t, err)
	return raw
}

func fourOptions(q, answer string) quiz.Item {
	return item(q, answer, answer+" A", answer+" B", answer+" C")
}

func TestGenerate_HappyPath(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: bankJSON(t,
		fourOptions("Who wrote the first algorithm?", "Ada Lovelace"),
		fourOptions("What does CPU stand for?", "Central Processing Unit"),
	)})
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Request{Topic: "computing", Count: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Ada Lovelace", items[0].Answer)

	require.Len(t, mock.Calls, 1)
	call := mock.Calls[0]
	assert.Equal(t, BankSchema, call.Schema)
	assert.Equal(t, 2*300+256, call.MaxTokens)
	msg := call.Messages[0].Content
	assert.Contains(t, msg, "Topic: computing")
	assert.Contains(t, msg, "Difficulty: medium")
	assert.Contains(t, msg, "Language: English")
	assert.Contains(t, msg, "Options per question: 4")
	assert.Contains(t, msg, "Already asked:\nNone")
}

func TestGenerate_TrimsExtraQuestions(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: bankJSON(t,
		fourOptions("Q1?", "a"), fourOptions("Q2?", "b"), fourOptions("Q3?", "c"),
	)})
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 2})
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestGenerate_TopsUpAfterRejectedItems(t *testing.T) {
	bad := fourOptions("Which year?", "1946")
	bad.Answer = "1947"

	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bankJSON(t, fourOptions("First?", "one"), bad)},
		llm.MockResponse{Content: bankJSON(t, fourOptions("Second?", "two"))},
	)
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "First?", items[0].Question)
	assert.Equal(t, "Second?", items[1].Question)

	require.Len(t, mock.Calls, 2)
	retry := mock.Calls[1].Messages[0].Content
	assert.Contains(t, retry, "Number of questions: 1")
	assert.Contains(t, retry, "1. First?")
	assert.Contains(t, retry, "previous attempt were rejected")
	assert.Contains(t, retry, "not one of the options")
}

func TestGenerate_DropsRepeatsOfAvoided(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bankJSON(t, fourOptions("  WHAT is RAM? ", "memory"))},
		llm.MockResponse{Content: bankJSON(t, fourOptions("What is ROM?", "read-only memory"))},
	)
	gen := New(mock, DefaultConfig())

	items, err := gen.Generate(context.Background(), Request{
		Topic: "hardware",
		Count: 1,
		Avoid: []string{"what is ram?"},
	})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "What is ROM?", items[0].Question)
	assert.Contains(t, mock.Calls[1].Messages[0].Content, "1 repeated an already asked question")
}

func TestGenerate_ReturnsShortBankWhenAttemptsRunOut(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxAttempts = 2
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bankJSON(t, fourOptions("Only?", "yes"))},
		llm.MockResponse{Content: bankJSON(t)},
	)
	gen := New(mock, cfg)

	items, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 3})
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Len(t, mock.Calls, 2)
}

func TestGenerate_NoUsableQuestions(t *testing.T) {
	twoOpts := item("Short?", "yes", "no")
	mock := llm.NewMockProvider(
		llm.MockResponse{Content: bankJSON(t, twoOpts)},
		llm.MockResponse{Content: bankJSON(t, twoOpts)},
		llm.MockResponse{Content: bankJSON(t, twoOpts)},
	)
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoQuestions)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "option-count", verr.Validator)
	assert.Len(t, mock.Calls, 3)
}

func TestGenerate_InvalidRequest(t *testing.T) {
	mock := llm.NewMockProvider()
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Request{Count: 0, Difficulty: "brutal"})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.False(t, verr.Retryable)
	assert.Equal(t, "request", verr.Validator)
	assert.Empty(t, mock.Calls)
}

func TestGenerate_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{Err: errors.New("down")}})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 1})
	var unavail *llm.ErrProviderUnavailable
	assert.True(t, errors.As(err, &unavail))
}

func TestGenerate_MalformedJSON(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{"questions": "nope"}`)})
	gen := New(mock, DefaultConfig())

	_, err := gen.Generate(context.Background(), Request{Topic: "t", Count: 1})
	var invalid *llm.ErrInvalidResponse
	require.ErrorAs(t, err, &invalid)
	assert.JSONEq(t, `{"questions": "nope"}`, string(invalid.Content))
}

func TestGenerate_UsesBankPurpose(t *testing.T) {
	var got string
	p := purposeProbe{fn: func(ctx context.Context) { got = llm.PurposeFrom(ctx) }}
	gen := New(p, DefaultConfig())

	_, _ = gen.Generate(context.Background(), Request{Topic: "t", Count: 1})
	assert.Equal(t, "bank-gen", got)
}

type purposeProbe struct {
	fn func(context.Context)
}

func (p purposeProbe) Generate(ctx context.Context, _ llm.Request) (*llm.Response, error) {
	p.fn(ctx)
	return nil, errors.New("probe")
}

func (p purposeProbe) ModelID() string { return "probe" }

func TestMaxTokensCapped(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 556, cfg.maxTokens(1))
	assert.Equal(t, 8192, cfg.maxTokens(50))
}

func TestBuildAvoid(t *testing.T) {
	assert.Equal(t, "None", buildAvoid(nil, 5))

	var qs []string
	for i := range 6 {
		qs = append(qs, fmt.Sprintf("Q%d", i))
	}
	got := buildAvoid(qs, 3)
	assert.Equal(t, "1. Q3\n2. Q4\n3. Q5", got)
	assert.False(t, strings.Contains(got, "Q2"))
}
