package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// Normalize folds case and removes separators (., _, -, spaces), so the
// usual spellings of one side marker compare equal:
//
//	"Hand_R", "hand.r", "Hand R" -> "handr"
func Normalize(s string) string {
	folded := cases.Fold().String(s)

	var b strings.Builder

	b.Grow(len(folded))

	for _, r := range folded {
		if isSeparator(r) {
			continue
		}

		b.WriteRune(r)
	}

	return b.String()
}

func isSeparator(r rune) bool {
	return r == '.' || r == '_' || r == '-' || unicode.IsSpace(r)
}
