package splitter

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

func TestLangChain_ShortDocument(t *testing.T) {
	chunks, err := NewLangChain().Split(context.Background(), "Hello world", entities.NewSplitConfig(100, 10))
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, "Hello world", chunks[0].Content)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 11, chunks[0].End)
}

func TestLangChain_EmptyDocument(t *testing.T) {
	chunks, err := NewLangChain().Split(context.Background(), "", entities.NewSplitConfig(100, 10))
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestLangChain_InvalidConfig(t *testing.T) {
	_, err := NewLangChain().Split(context.Background(), "text", entities.NewSplitConfig(5, 7))
	assert.True(t, errors.Is(err, entities.ErrInvalidConfig))
}

func TestLangChain_LocatesChunks(t *testing.T) {
	chunks, err := NewLangChain().Split(context.Background(), sampleDoc, entities.NewSplitConfig(120, 20))
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.Equal(t, i+1, c.Index)
		assert.LessOrEqual(t, c.Length, 120)
		if c.HasSpan() {
			assert.Equal(t, sampleDoc[c.Start:c.End], c.Content)
		}
	}
}
