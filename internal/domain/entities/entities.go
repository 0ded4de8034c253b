// Package entities contains core business entities.
// These are the enterprise business rules - pure domain objects with no external dependencies.
package entities

import (
	"time"
	"unicode/utf8"
)

// DefaultSeparators is the separator hierarchy tried by the recursive splitter,
// highest priority first. The trailing empty separator means "slice by character".
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// Document represents a source document submitted for chunk inspection.
// Immutable once handed to a usecase.
type Document struct {
	ID        string
	Name      string
	Path      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// LengthFunc measures text for chunk budgeting.
type LengthFunc func(text string) int

// CharLength counts characters (runes), the default length function.
func CharLength(text string) int {
	return utf8.RuneCountInString(text)
}

// SplitConfig controls how a document is partitioned into chunks.
type SplitConfig struct {
	MaxChunkLength int
	OverlapLength  int
	Separators     []string   // Highest priority first
	LengthFn       LengthFunc // Defaults to CharLength
}

// NewSplitConfig returns a config with the default separators and character length.
func NewSplitConfig(maxChunkLength, overlapLength int) SplitConfig {
	return SplitConfig{
		MaxChunkLength: maxChunkLength,
		OverlapLength:  overlapLength,
		Separators:     append([]string(nil), DefaultSeparators...),
		LengthFn:       CharLength,
	}
}

// Validate reports a ConfigurationError for sizes the splitter cannot honour.
// It never adjusts the config.
func (c SplitConfig) Validate() error {
	if c.MaxChunkLength <= 0 {
		return &ConfigurationError{Field: "max_chunk_length", Reason: "must be greater than zero"}
	}
	if c.OverlapLength < 0 {
		return &ConfigurationError{Field: "overlap_length", Reason: "cannot be negative"}
	}
	if c.OverlapLength >= c.MaxChunkLength {
		return &ConfigurationError{
			Field:  "overlap_length",
			Reason: "must be smaller than max_chunk_length",
		}
	}
	return nil
}

// Length applies the configured length function, falling back to CharLength.
func (c SplitConfig) Length(text string) int {
	if c.LengthFn == nil {
		return CharLength(text)
	}
	return c.LengthFn(text)
}

// EffectiveSeparators returns the separator list, always ending with "".
func (c SplitConfig) EffectiveSeparators() []string {
	seps := c.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	out := make([]string, 0, len(seps)+1)
	out = append(out, seps...)
	if out[len(out)-1] != "" {
		out = append(out, "")
	}
	return out
}

// Chunk is a contiguous segment of a document produced by a splitter.
// Start and End are byte offsets into the source text when the splitter
// knows them (text[Start:End] == Content); both are -1 otherwise.
type Chunk struct {
	Index   int // 1-based position in the document
	Content string
	Length  int // Per the config's length function
	Start   int
	End     int
}

// HasSpan reports whether the chunk carries its source offsets.
func (c Chunk) HasSpan() bool {
	return c.Start >= 0 && c.End >= c.Start
}

// OverlapRecord splits a chunk into the text shared with its predecessor and the rest.
type OverlapRecord struct {
	OverlapText   string
	RemainderText string
}

// VectorSpace holds one term-weight row per document, over a request-local vocabulary.
type VectorSpace struct {
	Terms []string
	Rows  [][]float64
}

// Len returns the number of documents (rows) in the space.
func (v VectorSpace) Len() int {
	return len(v.Rows)
}

// Coordinate is a 2-D projected position.
type Coordinate struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ProcessRequest is one document, one configuration and an optional query.
type ProcessRequest struct {
	Document string
	Query    string
	Config   SplitConfig
}

// ChunkResult is the per-chunk record handed back to collaborators.
type ChunkResult struct {
	Index           int
	OverlapText     string
	RemainderText   string
	Length          int
	UnitCount       int
	BadCut          bool
	SimilarityScore float64
	Match           bool
	Coordinate      Coordinate
}

// Content reassembles the chunk text.
func (r ChunkResult) Content() string {
	return r.OverlapText + r.RemainderText
}

// Stats summarises a processed document.
type Stats struct {
	TotalChunks    int
	AvgChunkLength int
	DocumentUnits  int
}

// ProcessResult is the full answer for one ProcessRequest.
type ProcessResult struct {
	Chunks          []ChunkResult
	QueryCoordinate Coordinate
	Stats           Stats
}
