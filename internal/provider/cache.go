package provider

import (
	"context"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cached wraps a Source with an in-memory LRU cache keyed by headword.
// Decks routinely contain the same headword on several notes; memoizing
// within a run avoids re-querying the external service. Only successful
// lookups are cached — errors are always retried on the next request.
type Cached struct {
	src   Source
	cache *lru.Cache[string, []Definition]
}

// NewCached wraps src with an LRU cache of the given size.
func NewCached(src Source, size int) (*Cached, error) {
	c, err := lru.New[string, []Definition](size)
	if err != nil {
		return nil, err
	}
	return &Cached{src: src, cache: c}, nil
}

// Lookup returns the cached definitions for headword, consulting the
// underlying Source on a miss. Empty (not-found) results are cached too:
// they are valid answers, not errors.
func (c *Cached) Lookup(ctx context.Context, headword string) ([]Definition, error) {
	if defs, ok := c.cache.Get(headword); ok {
		return defs, nil
	}

	defs, err := c.src.Lookup(ctx, headword)
	if err != nil {
		return nil, err
	}

	c.cache.Add(headword, defs)
	return defs, nil
}
