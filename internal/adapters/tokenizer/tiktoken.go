// Package tokenizer provides token counting adapters.
// Clean Architecture: Adapter implementing ports.TokenCounter.
package tokenizer

import (
	"context"
	"fmt"

	"github.com/pkoukk/tiktoken-go"

	"github.com/0xcro3dile/prism/internal/domain/ports"
	"github.com/0xcro3dile/prism/internal/logger"
)

const (
	// DefaultEncoding matches the encoding used by current OpenAI embedding models.
	DefaultEncoding = "cl100k_base"

	// HeuristicEncoding selects the offline chars/4 estimate.
	HeuristicEncoding = "heuristic"
)

// TiktokenCounter counts BPE tokens with tiktoken-go.
// The encoder is read-only after construction and safe for concurrent use.
type TiktokenCounter struct {
	encodingName string
	tke          *tiktoken.Tiktoken
}

// NewTiktokenCounter loads an encoding by name, or by model name if that fails.
// Loading may download the BPE ranks on first use.
func NewTiktokenCounter(encodingOrModel string) (*TiktokenCounter, error) {
	if encodingOrModel == "" {
		encodingOrModel = DefaultEncoding
	}
	tke, err := tiktoken.GetEncoding(encodingOrModel)
	if err != nil {
		var modelErr error
		tke, modelErr = tiktoken.EncodingForModel(encodingOrModel)
		if modelErr != nil {
			return nil, fmt.Errorf("loading tiktoken encoding %q: %w", encodingOrModel, err)
		}
	}
	return &TiktokenCounter{encodingName: encodingOrModel, tke: tke}, nil
}

// CountTokens returns the number of BPE tokens in text.
func (c *TiktokenCounter) CountTokens(_ context.Context, text string) (int, error) {
	if c.tke == nil {
		return 0, fmt.Errorf("tiktoken encoder is not initialized for encoding %s", c.encodingName)
	}
	if text == "" {
		return 0, nil
	}
	return len(c.tke.Encode(text, nil, nil)), nil
}

// Encoding returns the configured encoding or model name.
func (c *TiktokenCounter) Encoding() string {
	return c.encodingName
}

// NewCounter prefers tiktoken and falls back to the character heuristic when
// the encoding cannot be loaded (e.g. offline).
func NewCounter(encodingOrModel string, log logger.Logger) ports.TokenCounter {
	if encodingOrModel == HeuristicEncoding {
		return NewHeuristicCounter()
	}
	counter, err := NewTiktokenCounter(encodingOrModel)
	if err != nil {
		if log != nil {
			log.Warn("tiktoken unavailable, estimating tokens from characters", "encoding", encodingOrModel, "error", err)
		}
		return NewHeuristicCounter()
	}
	return counter
}
