package domain

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup extracts the plain text of an Anki field value: HTML tags are
// dropped, entities are decoded, whitespace runs (including non-breaking
// spaces) are compressed into single spaces, and the result is trimmed.
// Field values come straight from the card editor and routinely wrap the
// actual headword in <div>/<b> tags and &nbsp; padding.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))

	tok := html.NewTokenizer(strings.NewReader(s))
	for {
		tt := tok.Next()
		if tt == html.ErrorToken {
			break
		}
		if tt == html.TextToken {
			b.Write(tok.Text())
		}
	}

	// Collapse any whitespace run into a single space.
	return strings.Join(strings.Fields(b.String()), " ")
}
