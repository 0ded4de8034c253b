// Package report turns a ProcessResult into terminal output or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// Chunk is the exported form of one chunk.
type Chunk struct {
	ID        int     `json:"id"`
	Overlap   string  `json:"overlap"`
	Remaining string  `json:"remaining"`
	Tokens    int     `json:"tokens"`
	Length    int     `json:"length"`
	BadCut    bool    `json:"bad_cut"`
	Score     float64 `json:"score"`
	Match     bool    `json:"match"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
}

// Stats is the exported form of entities.Stats.
type Stats struct {
	TotalChunks    int `json:"total_chunks"`
	AvgChunkLength int `json:"avg_chunk_length"`
	DocumentTokens int `json:"document_tokens"`
}

// Response is the JSON document served by the API and written by
// `prism split --json`.
type Response struct {
	Chunks      []Chunk             `json:"chunks"`
	QueryCoords entities.Coordinate `json:"query_coords"`
	Stats       Stats               `json:"stats"`
}

// FromResult converts a ProcessResult for export.
func FromResult(res *entities.ProcessResult) Response {
	out := Response{Chunks: []Chunk{}}
	if res == nil {
		return out
	}
	for _, c := range res.Chunks {
		out.Chunks = append(out.Chunks, Chunk{
			ID:        c.Index,
			Overlap:   c.OverlapText,
			Remaining: c.RemainderText,
			Tokens:    c.UnitCount,
			Length:    c.Length,
			BadCut:    c.BadCut,
			Score:     c.SimilarityScore,
			Match:     c.Match,
			X:         c.Coordinate.X,
			Y:         c.Coordinate.Y,
		})
	}
	out.QueryCoords = res.QueryCoordinate
	out.Stats = Stats{
		TotalChunks:    res.Stats.TotalChunks,
		AvgChunkLength: res.Stats.AvgChunkLength,
		DocumentTokens: res.Stats.DocumentUnits,
	}
	return out
}

// WriteJSON writes the indented export of res to w.
func WriteJSON(w io.Writer, res *entities.ProcessResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(FromResult(res)); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return nil
}

// Options controls terminal rendering.
type Options struct {
	Query string // Shown in the header and enables score lines
	Unit  string // Length unit label, "chars" by default
}

var cardColors = []string{"39", "170", "42", "214", "99", "203"}

// Render writes one card per chunk with the overlap highlighted.
// Colours follow the terminal behind w; plain writers get plain text.
func Render(w io.Writer, res *entities.ProcessResult, opts Options) error {
	r := lipgloss.NewRenderer(w)
	unit := opts.Unit
	if unit == "" {
		unit = "chars"
	}

	var (
		title   = r.NewStyle().Bold(true).Foreground(lipgloss.Color("69"))
		muted   = r.NewStyle().Foreground(lipgloss.Color("241"))
		overlap = r.NewStyle().Background(lipgloss.Color("226")).Foreground(lipgloss.Color("0"))
		warn    = r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")).Bold(true)
		hit     = r.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	)

	var sb strings.Builder
	stats := FromResult(res).Stats
	sb.WriteString(title.Render("Chunk inspection") + "\n")
	sb.WriteString(muted.Render(fmt.Sprintf("Total chunks: %d • Avg chunk size: %d %s • Est. tokens: %d",
		stats.TotalChunks, stats.AvgChunkLength, unit, stats.DocumentTokens)) + "\n")
	if opts.Query != "" && res != nil {
		sb.WriteString(muted.Render(fmt.Sprintf("Query: %q at (%.3f, %.3f)",
			opts.Query, res.QueryCoordinate.X, res.QueryCoordinate.Y)) + "\n")
	}

	if res != nil {
		for i, c := range res.Chunks {
			card := r.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(cardColors[i%len(cardColors)])).
				Padding(0, 1)

			header := fmt.Sprintf("CHUNK %d • %d %s • %d TOKENS", c.Index, c.Length, strings.ToUpper(unit), c.UnitCount)
			body := header + "\n"
			if c.OverlapText != "" {
				body += overlap.Render(c.OverlapText)
			}
			body += c.RemainderText

			var notes []string
			if c.BadCut {
				notes = append(notes, warn.Render("⚠ bad cut"))
			}
			if opts.Query != "" {
				score := fmt.Sprintf("score %.3f", c.SimilarityScore)
				if c.Match {
					score = hit.Render(score + " ✓ match")
				}
				notes = append(notes, score)
			}
			if len(notes) > 0 {
				body += "\n" + strings.Join(notes, "  ")
			}
			sb.WriteString(card.Render(body) + "\n")
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
