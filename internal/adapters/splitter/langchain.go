package splitter

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/textsplitter"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// LangChain delegates to langchaingo's recursive character splitter, for
// comparing against the chunking most pipelines actually run.
// Spans are recovered by locating each chunk in the source; chunks that
// cannot be located carry no span.
type LangChain struct{}

// NewLangChain creates the langchaingo-backed splitter.
func NewLangChain() *LangChain {
	return &LangChain{}
}

// Split partitions text with langchaingo using the same size, overlap,
// separators and length function as the native splitter.
func (s *LangChain) Split(ctx context.Context, text string, cfg entities.SplitConfig) ([]entities.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	ts := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(cfg.MaxChunkLength),
		textsplitter.WithChunkOverlap(cfg.OverlapLength),
		textsplitter.WithSeparators(cfg.EffectiveSeparators()),
		textsplitter.WithLenFunc(cfg.Length),
	)
	parts, err := ts.SplitText(text)
	if err != nil {
		return nil, fmt.Errorf("langchain split: %w", err)
	}

	chunks := make([]entities.Chunk, 0, len(parts))
	from := 0
	for _, part := range parts {
		content := strings.TrimSpace(part)
		if content == "" {
			continue
		}
		start, end := -1, -1
		if from <= len(text) {
			if i := strings.Index(text[from:], content); i >= 0 {
				start = from + i
				end = start + len(content)
				from = start + 1
			}
		}
		chunks = append(chunks, entities.Chunk{
			Index:   len(chunks) + 1,
			Content: content,
			Length:  cfg.Length(content),
			Start:   start,
			End:     end,
		})
	}
	return chunks, nil
}
