package provider

import (
	"context"
	"log/slog"
)

// Fallback chains two Sources: the secondary is consulted only when the
// primary finds no entry for a headword. A primary lookup error is returned
// as-is — the secondary is a coverage fallback, not an availability one, so
// an outage of the primary still surfaces as a failed lookup.
type Fallback struct {
	primary   Source
	secondary Source
	log       *slog.Logger
}

// NewFallback creates a Fallback chain over primary and secondary.
func NewFallback(primary, secondary Source, logger *slog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		log:       logger.With("adapter", "fallback"),
	}
}

// Lookup queries the primary Source and, on an empty result, the secondary.
func (f *Fallback) Lookup(ctx context.Context, headword string) ([]Definition, error) {
	defs, err := f.primary.Lookup(ctx, headword)
	if err != nil {
		return nil, err
	}
	if len(defs) > 0 {
		return defs, nil
	}

	f.log.DebugContext(ctx, "primary returned no entries, trying fallback",
		slog.String("headword", headword))

	return f.secondary.Lookup(ctx, headword)
}
