package tokenizer

import (
	"context"
	"unicode/utf8"
)

// charsPerToken is the usual rule of thumb for English BPE vocabularies.
const charsPerToken = 4

// HeuristicCounter estimates tokens as ceil(runes / 4).
type HeuristicCounter struct{}

// NewHeuristicCounter creates the offline estimator.
func NewHeuristicCounter() *HeuristicCounter {
	return &HeuristicCounter{}
}

// CountTokens never fails.
func (c *HeuristicCounter) CountTokens(_ context.Context, text string) (int, error) {
	return Estimate(text), nil
}

// Estimate is the heuristic as a plain function.
func Estimate(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + charsPerToken - 1) / charsPerToken
}
