package casenumber

import (
	"strings"
	"unicode"
)

// CourtCode derives the short code for a court from its display name: the
// upper-cased initial of each word. "Birmingham Family Court" → "BFC".
// Pure function; the contention point is the sequence, not the code.
func CourtCode(courtName string) string {
	var b strings.Builder
	for _, word := range strings.Fields(courtName) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(unicode.ToUpper(r))
				break
			}
		}
	}
	return b.String()
}
