package reformat

import "regexp"

// alreadyFormattedRe matches answers that already carry the structured
// definitions block. Case-sensitive; (?s) lets the dots span newlines so
// the marker is found anywhere in a multi-line field.
var alreadyFormattedRe = regexp.MustCompile(`(?s).*Definitions:.*`)

// NeedsReformat reports whether an answer field still lacks the structured
// definitions block. Pure function of the answer text.
func NeedsReformat(answer string) bool {
	return !alreadyFormattedRe.MatchString(answer)
}
