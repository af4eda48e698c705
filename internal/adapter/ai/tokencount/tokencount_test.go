package tokencount

import (
	"errors"
	"testing"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offlineCounter() *Counter {
	return &Counter{load: func() (*tiktoken.Tiktoken, error) { return nil, errors.New("offline") }}
}

func TestCalculateUsage_EstimatesWhenEncodingUnavailable(t *testing.T) {
	u := offlineCounter().CalculateUsage("sys!", "user prompt!", "12345678", "llama-3.3-70b-versatile", "groq")

	assert.Equal(t, 4, u.PromptTokens)
	assert.Equal(t, 2, u.CompletionTokens)
	assert.Equal(t, 6, u.TotalTokens)
	assert.Equal(t, "groq", u.Provider)
	assert.Equal(t, "llama-3.3-70b-versatile", u.Model)
}

func TestCounter_LoadsOnce(t *testing.T) {
	calls := 0
	c := &Counter{load: func() (*tiktoken.Tiktoken, error) {
		calls++
		return nil, errors.New("offline")
	}}
	_, err1 := c.CountTokens("a", "m")
	_, err2 := c.CountTokens("b", "m")

	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, 1, calls)
}

func TestCountTokens_WithEncoding(t *testing.T) {
	c := NewCounter()
	n, err := c.CountTokens("Hello, world!", "llama-3.3-70b-versatile")
	if err != nil {
		t.Skipf("encoding not available: %v", err)
	}
	assert.GreaterOrEqual(t, n, 3)
	assert.LessOrEqual(t, n, 5)

	chat, err := c.CountChatTokens("You are a helpful assistant.", "What is the capital of France?", "llama2")
	require.NoError(t, err)
	assert.Greater(t, chat, 10)
	assert.Less(t, chat, 40)
}

func TestEstimate(t *testing.T) {
	assert.Equal(t, 0, Estimate(""))
	assert.Equal(t, 25, Estimate(string(make([]byte, 100))))
}
