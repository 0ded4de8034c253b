package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

func sampleResult() *entities.ProcessResult {
	return &entities.ProcessResult{
		Chunks: []entities.ChunkResult{
			{Index: 1, RemainderText: "Hello world.", Length: 12, UnitCount: 3, SimilarityScore: 0.1},
			{
				Index: 2, OverlapText: "rld.", RemainderText: " Foo bar", Length: 12, UnitCount: 4,
				BadCut: true, SimilarityScore: 0.6, Match: true,
				Coordinate: entities.Coordinate{X: 0.5, Y: -0.25},
			},
		},
		QueryCoordinate: entities.Coordinate{X: 1, Y: 2},
		Stats:           entities.Stats{TotalChunks: 2, AvgChunkLength: 12, DocumentUnits: 6},
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleResult()))

	var got Response
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	require.Len(t, got.Chunks, 2)
	assert.Equal(t, Chunk{
		ID: 2, Overlap: "rld.", Remaining: " Foo bar", Tokens: 4, Length: 12,
		BadCut: true, Score: 0.6, Match: true, X: 0.5, Y: -0.25,
	}, got.Chunks[1])
	assert.Equal(t, entities.Coordinate{X: 1, Y: 2}, got.QueryCoords)
	assert.Equal(t, Stats{TotalChunks: 2, AvgChunkLength: 12, DocumentTokens: 6}, got.Stats)
	assert.Contains(t, buf.String(), `"bad_cut": true`)
	assert.Contains(t, buf.String(), `"query_coords"`)
}

func TestFromResult_Nil(t *testing.T) {
	res := FromResult(nil)
	assert.NotNil(t, res.Chunks)
	assert.Empty(t, res.Chunks)

	data, err := json.Marshal(res)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chunks":[]`)
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Query: "foo"}))
	out := buf.String()

	assert.Contains(t, out, "Total chunks: 2")
	assert.Contains(t, out, "CHUNK 1 • 12 CHARS • 3 TOKENS")
	assert.Contains(t, out, "CHUNK 2")
	assert.Contains(t, out, "rld. Foo bar")
	assert.Contains(t, out, "bad cut")
	assert.Contains(t, out, "score 0.600 ✓ match")
	assert.Contains(t, out, "score 0.100")
}

func TestRender_NoQuery(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(&buf, sampleResult(), Options{Unit: "tokens"}))
	out := buf.String()

	assert.Contains(t, out, "CHUNK 1 • 12 TOKENS")
	assert.NotContains(t, out, "score")
	assert.NotContains(t, out, "Query:")
}
