// Package splitter provides text splitting adapters.
// Clean Architecture: Adapter implementing ports.TextSplitter.
package splitter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/0xcro3dile/prism/internal/domain/entities"
	"github.com/0xcro3dile/prism/internal/domain/ports"
)

// Strategy names accepted by New.
const (
	StrategyRecursive = "recursive"
	StrategyLangChain = "langchain"
)

// New returns the splitter registered under strategy.
func New(strategy string) (ports.TextSplitter, error) {
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case "", StrategyRecursive:
		return NewRecursive(), nil
	case StrategyLangChain:
		return NewLangChain(), nil
	default:
		return nil, fmt.Errorf("%w: %q", entities.ErrUnsupportedStrategy, strategy)
	}
}

// Recursive splits text along a separator hierarchy, falling back to
// finer separators only for pieces that are still too long.
// Every chunk it returns is a trimmed slice of the source text and carries
// its byte span, so overlap between neighbours is a fact of the source.
type Recursive struct{}

// NewRecursive creates the native recursive splitter.
func NewRecursive() *Recursive {
	return &Recursive{}
}

// Split partitions text into chunks no longer than cfg.MaxChunkLength.
func (s *Recursive) Split(ctx context.Context, text string, cfg entities.SplitConfig) ([]entities.Chunk, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}

	w := &walker{text: text, cfg: cfg, seps: cfg.EffectiveSeparators()}
	spans := w.split(span{start: 0, end: len(text)}, w.seps)

	chunks := make([]entities.Chunk, 0, len(spans))
	for _, sp := range spans {
		content := text[sp.start:sp.end]
		chunks = append(chunks, entities.Chunk{
			Index:   len(chunks) + 1,
			Content: content,
			Length:  cfg.Length(content),
			Start:   sp.start,
			End:     sp.end,
		})
	}
	return chunks, nil
}

// span is a half-open byte range of the source text.
type span struct {
	start, end int
}

type walker struct {
	text string
	cfg  entities.SplitConfig
	seps []string
}

func (w *walker) length(sp span) int {
	return w.cfg.Length(w.text[sp.start:sp.end])
}

func (w *walker) fits(sp span) bool {
	return w.length(sp) <= w.cfg.MaxChunkLength
}

// split handles one region with the remaining separators.
func (w *walker) split(sp span, seps []string) []span {
	sep, rest := w.pickSeparator(sp, seps)

	var out, good []span
	for _, p := range w.pieces(sp, sep) {
		if w.fits(p) {
			good = append(good, p)
			continue
		}
		if len(good) > 0 {
			out = w.merge(out, good)
			good = nil
		}
		if sep == "" || len(rest) == 0 {
			// A single unit longer than the budget; emit it whole.
			out = w.emit(out, p)
			continue
		}
		out = append(out, w.split(p, rest)...)
	}
	if len(good) > 0 {
		out = w.merge(out, good)
	}
	return out
}

// pickSeparator returns the first separator present in the region and the
// separators below it. The empty separator always matches.
func (w *walker) pickSeparator(sp span, seps []string) (string, []string) {
	region := w.text[sp.start:sp.end]
	for i, sep := range seps {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(region, sep) {
			return sep, seps[i+1:]
		}
	}
	return "", nil
}

// pieces cuts a region on sep, dropping empty pieces. The empty separator
// yields one piece per rune.
func (w *walker) pieces(sp span, sep string) []span {
	region := w.text[sp.start:sp.end]
	var out []span
	if sep == "" {
		for i, r := range region {
			out = append(out, span{start: sp.start + i, end: sp.start + i + utf8.RuneLen(r)})
		}
		return out
	}

	pos := 0
	for {
		i := strings.Index(region[pos:], sep)
		end := len(region)
		if i >= 0 {
			end = pos + i
		}
		if end > pos {
			out = append(out, span{start: sp.start + pos, end: sp.start + end})
		}
		if i < 0 {
			return out
		}
		pos = end + len(sep)
	}
}

// merge greedily joins consecutive pieces into chunks and appends them to out.
func (w *walker) merge(out, pieces []span) []span {
	cur := pieces[0]
	for _, p := range pieces[1:] {
		if w.fits(span{start: cur.start, end: p.end}) {
			cur.end = p.end
			continue
		}
		out = w.emit(out, cur)
		cur = w.carry(cur, p)
	}
	return w.emit(out, cur)
}

// carry starts the chunk that begins with next, re-including the longest tail
// of prev that fits the overlap budget. Tails starting at a higher-priority
// separator boundary win over longer tails at lower priority.
func (w *walker) carry(prev, next span) span {
	if w.cfg.OverlapLength <= 0 {
		return next
	}
	for _, sep := range w.seps {
		if start, ok := w.tailStart(prev, next, sep); ok {
			return span{start: start, end: next.end}
		}
	}
	return next
}

func (w *walker) tailStart(prev, next span, sep string) (int, bool) {
	cands := w.boundaries(prev, sep)
	if len(cands) == 0 {
		return 0, false
	}

	ok := func(start int) bool {
		return w.length(span{start: start, end: prev.end}) <= w.cfg.OverlapLength &&
			w.fits(span{start: start, end: next.end})
	}
	// Candidates ascend, so tails shrink; the first passing one is the longest.
	i := sort.Search(len(cands), func(i int) bool { return ok(cands[i]) })
	if i == len(cands) {
		return 0, false
	}
	return cands[i], true
}

// boundaries lists tail start offsets inside prev for sep, ascending, with
// leading whitespace skipped and empty tails removed.
func (w *walker) boundaries(prev span, sep string) []int {
	region := w.text[prev.start:prev.end]
	var raw []int
	if sep == "" {
		for i := range region {
			raw = append(raw, prev.start+i)
		}
	} else {
		for pos := 0; ; {
			i := strings.Index(region[pos:], sep)
			if i < 0 {
				break
			}
			pos += i + len(sep)
			raw = append(raw, prev.start+pos)
		}
	}

	// A tail must be a proper suffix of the emitted chunk.
	first := w.skipSpace(prev.start, prev.end)
	out := raw[:0]
	last := -1
	for _, start := range raw {
		start = w.skipSpace(start, prev.end)
		if start <= first || start >= prev.end || start == last {
			continue
		}
		out = append(out, start)
		last = start
	}
	return out
}

func (w *walker) skipSpace(pos, limit int) int {
	for pos < limit {
		r, size := utf8.DecodeRuneInString(w.text[pos:limit])
		if !unicode.IsSpace(r) {
			break
		}
		pos += size
	}
	return pos
}

// emit trims whitespace from sp and appends it unless nothing is left.
func (w *walker) emit(out []span, sp span) []span {
	region := w.text[sp.start:sp.end]
	lead := len(region) - len(strings.TrimLeftFunc(region, unicode.IsSpace))
	trimmed := strings.TrimSpace(region)
	if trimmed == "" {
		return out
	}
	start := sp.start + lead
	return append(out, span{start: start, end: start + len(trimmed)})
}
