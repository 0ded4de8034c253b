package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTextLoader_LoadTxtFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "test.txt", "Hello World")

	doc, err := NewTextLoader(0).Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "Hello World", doc.Content)
	assert.Equal(t, "test.txt", doc.Name)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, generateDocID(path), doc.ID)
	assert.Len(t, doc.ID, 16)
}

func TestTextLoader_SupportedExtensions(t *testing.T) {
	assert.Contains(t, NewTextLoader(0).SupportedExtensions(), ".txt")
}

func TestTextLoader_TooLarge(t *testing.T) {
	path := writeFile(t, t.TempDir(), "big.txt", strings.Repeat("a", 11))

	_, err := NewTextLoader(10).Load(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrDocumentTooLarge))

	doc, err := NewTextLoader(11).Load(context.Background(), path)
	require.NoError(t, err)
	assert.Len(t, doc.Content, 11)
}

func TestMultiLoader_DispatchByExtension(t *testing.T) {
	dir := t.TempDir()
	txtPath := writeFile(t, dir, "test.txt", "txt content")
	mdPath := writeFile(t, dir, "test.MD", "# Markdown")
	otherPath := writeFile(t, dir, "notes.rst", "rst content")

	loader := NewMultiLoader(0)
	for path, want := range map[string]string{
		txtPath:   "txt content",
		mdPath:    "# Markdown",
		otherPath: "rst content",
	} {
		doc, err := loader.Load(context.Background(), path)
		require.NoError(t, err)
		assert.Equal(t, want, doc.Content)
	}
}

func TestMultiLoader_InvalidPDF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "broken.pdf", "this is not a pdf")

	_, err := NewMultiLoader(0).Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.pdf")
}

func TestMultiLoader_AllExtensions(t *testing.T) {
	assert.Equal(t, []string{".markdown", ".md", ".pdf", ".txt"}, NewMultiLoader(0).SupportedExtensions())
}

func TestLoader_Errors(t *testing.T) {
	loader := NewMultiLoader(0)

	_, err := loader.Load(context.Background(), "  ")
	assert.True(t, errors.Is(err, entities.ErrEmptyDocumentPath))

	_, err = loader.Load(context.Background(), "/nonexistent/file.txt")
	assert.True(t, errors.Is(err, os.ErrNotExist))

	_, err = loader.Load(context.Background(), t.TempDir())
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, t.TempDir(), "a.txt", "a")
	_, err = loader.Load(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanPDFContent(t *testing.T) {
	assert.Equal(t, "héllo\tworld\nnext", cleanPDFContent("  héllo\tworld\x00\nnext\x07  "))
}
