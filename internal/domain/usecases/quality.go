package usecases

import (
	"strings"
	"unicode/utf8"
)

// terminalMarks end a sentence cleanly.
const terminalMarks = ".!?\"'”’"

// IsBadCut reports whether a chunk likely ends mid-sentence: its trimmed
// content does not end with a terminal punctuation mark.
func IsBadCut(content string) bool {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return true
	}
	last, _ := utf8.DecodeLastRuneInString(trimmed)
	return !strings.ContainsRune(terminalMarks, last)
}
