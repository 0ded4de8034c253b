// Package usecases - process.go runs one chunk inspection request end to end.
package usecases

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/0xcro3dile/prism/internal/domain/entities"
	"github.com/0xcro3dile/prism/internal/domain/ports"
	"github.com/0xcro3dile/prism/internal/logger"
)

// DefaultMatchThreshold is the score at which a chunk counts as a match.
const DefaultMatchThreshold = 0.2

// ProcessUseCase splits a document, reconciles overlaps, scores chunks
// against a query and projects everything onto a plane.
// It holds no per-request state, so one instance serves concurrent callers.
type ProcessUseCase struct {
	splitter       ports.TextSplitter
	tokens         ports.TokenCounter
	similarity     ports.SimilarityEngine
	projector      ports.Projector
	matchThreshold float64
}

// NewProcessUseCase creates a ProcessUseCase with injected dependencies.
// A negative threshold selects DefaultMatchThreshold.
func NewProcessUseCase(
	splitter ports.TextSplitter,
	tokens ports.TokenCounter,
	similarity ports.SimilarityEngine,
	projector ports.Projector,
	matchThreshold float64,
) *ProcessUseCase {
	if matchThreshold < 0 {
		matchThreshold = DefaultMatchThreshold
	}
	return &ProcessUseCase{
		splitter:       splitter,
		tokens:         tokens,
		similarity:     similarity,
		projector:      projector,
		matchThreshold: matchThreshold,
	}
}

// isMatch requires a query and a positive score at or above the threshold, so
// a chunk sharing no terms with the query never matches, even at threshold 0.
func isMatch(query string, score, threshold float64) bool {
	return query != "" && score > 0 && score >= threshold
}

// MatchThreshold returns the score at or above which a chunk is a match.
func (uc *ProcessUseCase) MatchThreshold() float64 {
	return uc.matchThreshold
}

// Process handles one document, config and optional query.
// An invalid config fails before any splitting; an empty document yields an
// empty result.
func (uc *ProcessUseCase) Process(ctx context.Context, req entities.ProcessRequest) (*entities.ProcessResult, error) {
	if err := req.Config.Validate(); err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx)
	started := time.Now()

	chunks, err := uc.splitter.Split(ctx, req.Document, req.Config)
	if err != nil {
		return nil, fmt.Errorf("splitting document: %w", err)
	}
	if len(chunks) == 0 {
		return &entities.ProcessResult{Chunks: []entities.ChunkResult{}}, nil
	}

	var (
		records    []entities.OverlapRecord
		units      []int
		docUnits   int
		scores     []float64
		coords     []entities.Coordinate
		queryCoord entities.Coordinate
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		records = Reconcile(chunks)
		var err error
		units, docUnits, err = uc.countUnits(gctx, req.Document, chunks)
		return err
	})
	g.Go(func() error {
		var err error
		scores, coords, queryCoord, err = uc.score(gctx, req.Query, chunks)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]entities.ChunkResult, len(chunks))
	totalLength := 0
	for i, c := range chunks {
		totalLength += c.Length
		results[i] = entities.ChunkResult{
			Index:           c.Index,
			OverlapText:     records[i].OverlapText,
			RemainderText:   records[i].RemainderText,
			Length:          c.Length,
			UnitCount:       units[i],
			BadCut:          IsBadCut(c.Content),
			SimilarityScore: scores[i],
			Match:           isMatch(req.Query, scores[i], uc.matchThreshold),
			Coordinate:      coords[i],
		}
	}

	log.Debug("processed document",
		"chunks", len(chunks),
		"query", req.Query != "",
		"duration", time.Since(started),
	)

	return &entities.ProcessResult{
		Chunks:          results,
		QueryCoordinate: queryCoord,
		Stats: entities.Stats{
			TotalChunks:    len(chunks),
			AvgChunkLength: totalLength / len(chunks),
			DocumentUnits:  docUnits,
		},
	}, nil
}

func (uc *ProcessUseCase) countUnits(ctx context.Context, document string, chunks []entities.Chunk) ([]int, int, error) {
	units := make([]int, len(chunks))
	for i, c := range chunks {
		n, err := uc.tokens.CountTokens(ctx, c.Content)
		if err != nil {
			return nil, 0, fmt.Errorf("counting tokens for chunk %d: %w", c.Index, err)
		}
		units[i] = n
	}
	total, err := uc.tokens.CountTokens(ctx, document)
	if err != nil {
		return nil, 0, fmt.Errorf("counting document tokens: %w", err)
	}
	return units, total, nil
}

// score vectorizes the query (when present) and the chunks in one space.
// Without a query every score is zero and only the chunks are projected.
// A cancelled context stops the work between stages.
func (uc *ProcessUseCase) score(ctx context.Context, query string, chunks []entities.Chunk) ([]float64, []entities.Coordinate, entities.Coordinate, error) {
	texts := make([]string, 0, len(chunks)+1)
	if query != "" {
		texts = append(texts, query)
	}
	for _, c := range chunks {
		texts = append(texts, c.Content)
	}

	space := uc.similarity.Vectorize(texts)
	if err := ctx.Err(); err != nil {
		return nil, nil, entities.Coordinate{}, err
	}
	coords := uc.projector.Project(space)
	if err := ctx.Err(); err != nil {
		return nil, nil, entities.Coordinate{}, err
	}

	if query == "" {
		return make([]float64, len(chunks)), coords, entities.Coordinate{}, nil
	}
	return uc.similarity.Similarities(space, 0), coords[1:], coords[0], nil
}

// TokenLength turns a TokenCounter into a splitter length function, so
// documents can be budgeted in tokens instead of characters. Counting errors
// fall back to character length.
func TokenLength(ctx context.Context, counter ports.TokenCounter) entities.LengthFunc {
	return func(text string) int {
		n, err := counter.CountTokens(ctx, text)
		if err != nil {
			return entities.CharLength(text)
		}
		return n
	}
}
