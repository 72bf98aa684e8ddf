package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_ReplaysScriptInOrder(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"n":1}`), Usage: newUsage(3, 2)},
		MockResponse{Err: errors.New("boom")},
	)

	resp, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"n":1}`, string(resp.Content))
	assert.Equal(t, 5, resp.Usage.TotalTokens)
	assert.Equal(t, StopEnd, resp.StopReason)

	_, err = mock.Generate(context.Background(), Request{})
	assert.EqualError(t, err, "boom")

	_, err = mock.Generate(context.Background(), Request{})
	var unavail *ErrProviderUnavailable
	assert.ErrorAs(t, err, &unavail)

	require.Equal(t, 3, mock.CallCount())
	assert.Equal(t, "first", mock.Calls[0].Messages[0].Content)
	assert.Equal(t, ProviderMock, mock.ModelID())
}

func TestMockProvider_EnforcesSchema(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"question":"q"}`)})

	_, err := mock.Generate(context.Background(), Request{Schema: questionSchema()})
	var invalid *ErrInvalidResponse
	assert.ErrorAs(t, err, &invalid)
}

func TestPurposeContext(t *testing.T) {
	assert.Equal(t, PurposeUnknown, PurposeFrom(context.Background()))
	assert.Equal(t, PurposeUnknown, PurposeFrom(WithPurpose(context.Background(), "")))
	assert.Equal(t, "bank-gen", PurposeFrom(WithPurpose(context.Background(), "bank-gen")))
}
