package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MatchKey returns the comparison form of a label or query: trimmed,
// NFKC-normalized and case-folded.
func MatchKey(text string) string {
	text = norm.NFKC.String(strings.TrimSpace(text))
	return cases.Fold().String(text)
}
