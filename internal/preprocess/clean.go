// Package preprocess normalizes extracted document text before it is sent to the model.
package preprocess

import (
	"strings"
	"unicode"
)

// Clean replaces line breaks with spaces, collapses every whitespace run to a
// single space and trims the result. Clean(Clean(s)) == Clean(s).
func Clean(text string) string {
	text = strings.NewReplacer("\r", " ", "\n", " ").Replace(text)

	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	for _, r := range text {
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
