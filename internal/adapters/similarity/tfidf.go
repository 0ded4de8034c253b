// Package similarity provides lexical similarity adapters.
// Clean Architecture: Adapter implementing ports.SimilarityEngine.
package similarity

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// tokenPattern keeps runs of two or more word characters.
var tokenPattern = regexp.MustCompile(`[\p{L}\p{M}\p{N}_]{2,}`)

// TFIDF weights terms by raw count times smoothed inverse document frequency
// and L2-normalises every row. The vocabulary is built from exactly the
// documents passed to Vectorize; nothing is kept between calls.
type TFIDF struct {
	stopWords map[string]struct{}
}

// Option configures a TFIDF engine.
type Option func(*TFIDF)

// WithStopWords replaces the English stop-word list. An empty list keeps
// every term.
func WithStopWords(words []string) Option {
	return func(t *TFIDF) {
		t.stopWords = toSet(words...)
	}
}

// NewTFIDF creates a TF-IDF engine using the English stop-word list.
func NewTFIDF(opts ...Option) *TFIDF {
	t := &TFIDF{stopWords: englishStopWords}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tokenize lowercases text and returns its terms in order, stop words removed.
func (t *TFIDF) Tokenize(text string) []string {
	raw := tokenPattern.FindAllString(strings.ToLower(text), -1)
	terms := raw[:0]
	for _, term := range raw {
		if _, stop := t.stopWords[term]; stop {
			continue
		}
		terms = append(terms, term)
	}
	return terms
}

// Vectorize builds one weighted row per document over a sorted vocabulary.
func (t *TFIDF) Vectorize(docs []string) entities.VectorSpace {
	counts := make([]map[string]int, len(docs))
	docFreq := make(map[string]int)
	for i, doc := range docs {
		counts[i] = make(map[string]int)
		for _, term := range t.Tokenize(doc) {
			if counts[i][term] == 0 {
				docFreq[term]++
			}
			counts[i][term]++
		}
	}

	terms := make([]string, 0, len(docFreq))
	for term := range docFreq {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	idf := make([]float64, len(terms))
	for j, term := range terms {
		idf[j] = math.Log((1+n)/(1+float64(docFreq[term]))) + 1
	}

	rows := make([][]float64, len(docs))
	for i := range docs {
		row := make([]float64, len(terms))
		for j, term := range terms {
			row[j] = float64(counts[i][term]) * idf[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
		rows[i] = row
	}

	return entities.VectorSpace{Terms: terms, Rows: rows}
}

// Similarities returns the cosine similarity of row `against` with every
// other row, clamped to [0, 1]. Rows with no terms score zero.
func (t *TFIDF) Similarities(space entities.VectorSpace, against int) []float64 {
	if against < 0 || against >= space.Len() {
		return nil
	}
	target := space.Rows[against]
	scores := make([]float64, 0, space.Len()-1)
	for i, row := range space.Rows {
		if i == against {
			continue
		}
		scores = append(scores, Cosine(target, row))
	}
	return scores
}

// Cosine returns the cosine similarity of a and b clamped to [0, 1].
// Mismatched, empty or zero vectors score zero.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	normA, normB := floats.Norm(a, 2), floats.Norm(b, 2)
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := floats.Dot(a, b) / (normA * normB)
	return math.Min(1, math.Max(0, sim))
}
