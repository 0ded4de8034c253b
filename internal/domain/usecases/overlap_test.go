package usecases

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

func unspanned(contents ...string) []entities.Chunk {
	chunks := make([]entities.Chunk, len(contents))
	for i, c := range contents {
		chunks[i] = entities.Chunk{Index: i + 1, Content: c, Length: len(c), Start: -1, End: -1}
	}
	return chunks
}

func TestReconcile_SourceSpans(t *testing.T) {
	chunks := []entities.Chunk{
		{Index: 1, Content: "Hello world.", Start: 0, End: 12},
		{Index: 2, Content: "rld. Foo bar", Start: 8, End: 20},
		{Index: 3, Content: "bar baz.", Start: 17, End: 25},
	}

	records := Reconcile(chunks)
	require.Len(t, records, 3)

	assert.Equal(t, "", records[0].OverlapText)
	assert.Equal(t, "Hello world.", records[0].RemainderText)
	assert.Equal(t, "rld.", records[1].OverlapText)
	assert.Equal(t, " Foo bar", records[1].RemainderText)
	assert.Equal(t, "bar", records[2].OverlapText)
	assert.Equal(t, " baz.", records[2].RemainderText)
}

func TestReconcile_SpansSuppressCoincidentalMatches(t *testing.T) {
	// "ab." repeats in the source but the chunks do not overlap there.
	chunks := []entities.Chunk{
		{Index: 1, Content: "ab.", Start: 0, End: 3},
		{Index: 2, Content: "ab.", Start: 4, End: 7},
	}
	records := Reconcile(chunks)
	assert.Equal(t, "", records[1].OverlapText)
	assert.Equal(t, "ab.", records[1].RemainderText)

	inferred := Reconcile(unspanned("ab.", "ab."))
	assert.Equal(t, "ab.", inferred[1].OverlapText)
	assert.Equal(t, "", inferred[1].RemainderText)
}

func TestReconcile_InfersLongestBoundaryMatch(t *testing.T) {
	tests := []struct {
		name    string
		prev    string
		cur     string
		overlap string
	}{
		{"longest wins", "xxabab", "ababyy", "abab"},
		{"no match", "hello", "world", ""},
		{"multi-word", "the cat sat", "cat sat on", "cat sat"},
		{"substring not at boundary", "abcdef", "cdxyz", ""},
		{"unicode", "héllo", "llo wörld", "llo"},
		{"multibyte boundary", "café", "éclair", "é"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Reconcile(unspanned(tt.prev, tt.cur))
			assert.Equal(t, tt.overlap, records[1].OverlapText)
			assert.Equal(t, tt.cur, records[1].OverlapText+records[1].RemainderText)
		})
	}
}

func TestReconcile_Empty(t *testing.T) {
	assert.Empty(t, Reconcile(nil))
}

func TestIsBadCut(t *testing.T) {
	tests := []struct {
		content string
		bad     bool
	}{
		{"A full sentence.", false},
		{"Really!", false},
		{"Is it?", false},
		{`He said "stop"`, false},
		{`He said "stop."`, false},
		{"She said “stop”", false},
		{"the author’s", true},
		{"the authors’", false},
		{"trailing space.   \n", false},
		{"in the middle of", true},
		{"a list;", true},
		{"", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.bad, IsBadCut(tt.content), "content %q", tt.content)
	}
}
