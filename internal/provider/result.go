package provider

import "context"

// Definition is a single (part of speech, definition text) pair returned by
// a dictionary provider. Order is whatever the provider returned; callers
// must not assume grouping or deduplication.
type Definition struct {
	PartOfSpeech string
	Text         string
}

// Source is a dictionary lookup backend. Lookup returns the definitions for
// a headword in provider order. A headword with no entry yields an empty
// slice and a nil error; a non-nil error means the lookup itself failed
// (network, malformed response) and says nothing about the headword.
type Source interface {
	Lookup(ctx context.Context, headword string) ([]Definition, error)
}
