package tokenizer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/prism/internal/logger"
)

func TestEstimate(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"héllo wörld", 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Estimate(tt.text), "text %q", tt.text)
	}
}

func TestEstimate_Monotone(t *testing.T) {
	text := strings.Repeat("chunk overlap ", 20)
	prev := 0
	for i := range text {
		n := Estimate(text[:i])
		assert.GreaterOrEqual(t, n, prev)
		prev = n
	}
}

func TestHeuristicCounter(t *testing.T) {
	n, err := NewHeuristicCounter().CountTokens(context.Background(), "twelve chars")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestTiktokenCounter(t *testing.T) {
	counter, err := NewTiktokenCounter(DefaultEncoding)
	if err != nil {
		t.Skipf("tiktoken encoding unavailable: %v", err)
	}
	assert.Equal(t, DefaultEncoding, counter.Encoding())

	n, err := counter.CountTokens(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = counter.CountTokens(context.Background(), "Hello world")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestTiktokenCounter_Uninitialized(t *testing.T) {
	_, err := (&TiktokenCounter{encodingName: "x"}).CountTokens(context.Background(), "hi")
	assert.Error(t, err)
}

func TestNewCounter_AlwaysUsable(t *testing.T) {
	counter := NewCounter("no-such-encoding-or-model", logger.NewLogger(logger.TestConfig()))
	require.NotNil(t, counter)
	_, ok := counter.(*HeuristicCounter)
	assert.True(t, ok)

	n, err := counter.CountTokens(context.Background(), "abcdefgh")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNewCounter_Heuristic(t *testing.T) {
	counter := NewCounter(HeuristicEncoding, nil)
	assert.IsType(t, &HeuristicCounter{}, counter)
}
