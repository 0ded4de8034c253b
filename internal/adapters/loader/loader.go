// Package loader provides document loading adapters.
package loader

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/0xcro3dile/prism/internal/domain/entities"
	"github.com/0xcro3dile/prism/internal/domain/ports"
)

// DefaultMaxBytes bounds how much of a file a loader will read.
const DefaultMaxBytes int64 = 1 << 20

// TextLoader loads plain text documents (.txt, .md).
type TextLoader struct {
	maxBytes int64
}

// NewTextLoader creates a text loader. maxBytes <= 0 selects DefaultMaxBytes.
func NewTextLoader(maxBytes int64) *TextLoader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &TextLoader{maxBytes: maxBytes}
}

// Load reads a text document from the given path.
func (l *TextLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	data, info, err := readLimited(ctx, path, l.maxBytes)
	if err != nil {
		return nil, err
	}
	return newDocument(path, string(data), info.ModTime()), nil
}

// SupportedExtensions returns file extensions this loader handles.
func (l *TextLoader) SupportedExtensions() []string {
	return []string{".txt", ".md", ".markdown"}
}

// PDFLoader extracts the plain text of every page of a PDF.
type PDFLoader struct {
	maxBytes int64
}

// NewPDFLoader creates a PDF loader. maxBytes <= 0 selects DefaultMaxBytes.
func NewPDFLoader(maxBytes int64) *PDFLoader {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	return &PDFLoader{maxBytes: maxBytes}
}

// Load reads a PDF and joins its pages with blank lines, so the splitter's
// paragraph separator falls on page breaks.
func (l *PDFLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	data, info, err := readLimited(ctx, path, l.maxBytes)
	if err != nil {
		return nil, err
	}

	text, err := extractPDFText(data)
	if err != nil {
		return nil, fmt.Errorf("parsing pdf %s: %w", filepath.Base(path), err)
	}
	return newDocument(path, text, info.ModTime()), nil
}

// SupportedExtensions returns file extensions.
func (l *PDFLoader) SupportedExtensions() []string {
	return []string{".pdf"}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var content strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Unreadable pages are skipped rather than failing the document.
			continue
		}
		text = cleanPDFContent(text)
		if text == "" {
			continue
		}
		if content.Len() > 0 {
			content.WriteString("\n\n")
		}
		content.WriteString(text)
	}
	return content.String(), nil
}

// MultiLoader combines multiple loaders.
type MultiLoader struct {
	loaders  map[string]ports.DocumentLoader
	fallback ports.DocumentLoader
}

// NewMultiLoader creates a loader that handles text and PDF files.
// Unknown extensions are read as text.
func NewMultiLoader(maxBytes int64) *MultiLoader {
	m := &MultiLoader{
		loaders:  make(map[string]ports.DocumentLoader),
		fallback: NewTextLoader(maxBytes),
	}
	m.Register(m.fallback)
	m.Register(NewPDFLoader(maxBytes))
	return m
}

// Register routes every extension of l to l.
func (m *MultiLoader) Register(l ports.DocumentLoader) {
	for _, ext := range l.SupportedExtensions() {
		m.loaders[strings.ToLower(ext)] = l
	}
}

// Load dispatches to the appropriate loader based on extension.
func (m *MultiLoader) Load(ctx context.Context, path string) (*entities.Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, entities.ErrEmptyDocumentPath
	}
	loader, ok := m.loaders[strings.ToLower(filepath.Ext(path))]
	if !ok {
		loader = m.fallback
	}
	return loader.Load(ctx, path)
}

// SupportedExtensions returns all supported extensions, sorted.
func (m *MultiLoader) SupportedExtensions() []string {
	exts := make([]string, 0, len(m.loaders))
	for ext := range m.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// readLimited reads at most maxBytes from path, failing with
// ErrDocumentTooLarge when the file is bigger.
func readLimited(ctx context.Context, path string, maxBytes int64) ([]byte, os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, entities.ErrEmptyDocumentPath
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, err
	}
	if info.IsDir() {
		return nil, nil, fmt.Errorf("%s is a directory", path)
	}

	data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
	if err != nil {
		return nil, nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, nil, fmt.Errorf("%w: %s is larger than %d bytes", entities.ErrDocumentTooLarge, filepath.Base(path), maxBytes)
	}
	return data, info, nil
}

func newDocument(path, content string, modTime time.Time) *entities.Document {
	return &entities.Document{
		ID:        generateDocID(path),
		Name:      filepath.Base(path),
		Path:      path,
		Content:   content,
		CreatedAt: modTime,
		UpdatedAt: time.Now(),
	}
}

// generateDocID creates a deterministic ID for a document.
func generateDocID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

// cleanPDFContent drops control characters left over from text extraction.
func cleanPDFContent(content string) string {
	var cleaned strings.Builder
	for _, r := range content {
		if unicode.IsPrint(r) || r == '\n' || r == '\t' {
			cleaned.WriteRune(r)
		}
	}
	return strings.TrimSpace(cleaned.String())
}
