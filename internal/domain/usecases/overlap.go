// Package usecases contains application business rules.
// Clean Architecture: Usecases orchestrate entities and depend on port interfaces.
// They contain NO framework code - just the chunk inspection logic.
package usecases

import (
	"strings"
	"unicode/utf8"

	"github.com/0xcro3dile/prism/internal/domain/entities"
)

// Reconcile splits every chunk into the text it shares with its predecessor
// and the remainder. Records align 1:1 with chunks.
//
// The shared text is the longest suffix of the previous chunk that is also a
// prefix of the current one. When both chunks carry source spans the match is
// capped by the span intersection, so only overlap the splitter actually
// produced is reported.
func Reconcile(chunks []entities.Chunk) []entities.OverlapRecord {
	records := make([]entities.OverlapRecord, len(chunks))
	for i, cur := range chunks {
		if i == 0 {
			records[i] = entities.OverlapRecord{RemainderText: cur.Content}
			continue
		}
		shared := boundaryOverlap(chunks[i-1], cur)
		records[i] = entities.OverlapRecord{
			OverlapText:   shared,
			RemainderText: cur.Content[len(shared):],
		}
	}
	return records
}

func boundaryOverlap(prev, cur entities.Chunk) string {
	limit := min(len(prev.Content), len(cur.Content))
	if prev.HasSpan() && cur.HasSpan() {
		limit = min(limit, max(0, prev.End-cur.Start))
	}

	for n := limit; n >= 1; n-- {
		// Only cut the current chunk on a rune boundary.
		if n < len(cur.Content) && !utf8.RuneStart(cur.Content[n]) {
			continue
		}
		if strings.HasSuffix(prev.Content, cur.Content[:n]) {
			return cur.Content[:n]
		}
	}
	return ""
}
