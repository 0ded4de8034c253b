// Package ports defines interfaces for external dependencies.
// Clean Architecture: usecases depend on these abstractions, adapters implement them.
package ports

import (
	"context"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// TextSplitter partitions text into ordered chunks.
type TextSplitter interface {
	// Split returns chunks in document order. The config must already be valid.
	Split(ctx context.Context, text string, cfg entities.SplitConfig) ([]entities.Chunk, error)
}

// TokenCounter measures text in sub-word tokens. Used for reporting and,
// when requested, as a splitter length function.
type TokenCounter interface {
	CountTokens(ctx context.Context, text string) (int, error)
}

// SimilarityEngine builds a request-local term-weight space and scores rows in it.
type SimilarityEngine interface {
	// Vectorize returns one row per document, in input order.
	Vectorize(docs []string) entities.VectorSpace

	// Similarities returns the cosine similarity of row `against` with every
	// other row, in row order, skipping `against` itself.
	Similarities(space entities.VectorSpace, against int) []float64
}

// Projector places every row of a vector space on a 2-D plane.
type Projector interface {
	Project(space entities.VectorSpace) []entities.Coordinate
}

// DocumentLoader reads and parses documents from various formats.
type DocumentLoader interface {
	// Load reads a document from the given path.
	Load(ctx context.Context, path string) (*entities.Document, error)

	// SupportedExtensions returns file extensions this loader handles.
	SupportedExtensions() []string
}

// FileWatcher monitors a file or directory for changes.
type FileWatcher interface {
	// Watch starts monitoring the path and emits events.
	Watch(ctx context.Context, path string) (<-chan FileEvent, error)

	// Stop stops the watcher.
	Stop() error
}

// FileEvent represents a file system change.
type FileEvent struct {
	Path      string
	Operation FileOperation
}

// FileOperation is the type of file change.
type FileOperation int

const (
	FileCreated FileOperation = iota
	FileModified
	FileDeleted
)

func (op FileOperation) String() string {
	switch op {
	case FileCreated:
		return "created"
	case FileModified:
		return "modified"
	case FileDeleted:
		return "deleted"
	default:
		return "unknown"
	}
}
