package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// Fold returns a comparison key for value. Two titles that differ only in
// letter case, compatibility forms (full-width digits, ligatures) or runs of
// whitespace fold to the same key.
func Fold(value string) string {
	normalized := norm.NFKC.String(value)
	folded := folder.String(normalized)
	return CollapseSpace(folded)
}

// CollapseSpace trims value and replaces each run of Unicode whitespace with a
// single ASCII space.
func CollapseSpace(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingSpace := false
	for _, r := range value {
		if unicode.IsSpace(r) {
			pendingSpace = b.Len() > 0
			continue
		}
		if pendingSpace {
			b.WriteByte(' ')
			pendingSpace = false
		}
		b.WriteRune(r)
	}
	return b.String()
}
