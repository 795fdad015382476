package reformat

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/heartmarshall/anki-reformat/internal/provider"
)

// Render produces the structured answer text for an ordered list of
// definitions:
//
//	Definitions:
//
//	1. <PartOfSpeech>: <definition text>
//	   1. Sentences:
//	   2. Synonyms:
//
// Entries are numbered 1-based in input order; the part-of-speech label is
// title-cased. Sentences and Synonyms stay blank for manual completion.
// Callers must not invoke Render with an empty list — an empty template
// would clobber a field the user may want to fill by hand.
func Render(defs []provider.Definition) string {
	var b strings.Builder
	b.WriteString("Definitions:\n\n")

	for i, d := range defs {
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, titleCase(d.PartOfSpeech), d.Text)
		b.WriteString("   1. Sentences: \n")
		b.WriteString("   2. Synonyms: \n\n")
	}

	return b.String()
}

// titleCase capitalizes the first letter of a part-of-speech label and
// lowercases the rest ("ADJECTIVE" → "Adjective").
func titleCase(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
