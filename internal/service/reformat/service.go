package reformat

import (
	"context"
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/heartmarshall/anki-reformat/internal/domain"
	"github.com/heartmarshall/anki-reformat/internal/provider"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type collection interface {
	Ping(ctx context.Context) error
	DeckNames(ctx context.Context) ([]string, error)
	Cards(ctx context.Context, deck string) ([]domain.Card, int, error)
	UpdateAnswer(ctx context.Context, noteID int64, answer string) error
}

type definitions interface {
	Lookup(ctx context.Context, headword string) ([]provider.Definition, error)
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds the knobs of one reformat run.
type Config struct {
	DeckName string
	DryRun   bool

	// LookupRate/LookupBurst bound the request rate against the external
	// dictionary service.
	LookupRate  float64
	LookupBurst int
}

// Service walks a deck and rewrites unformatted answer fields from
// dictionary lookups. Cards are processed strictly one at a time and each
// update is its own atomic unit; a run interrupted midway leaves already
// updated cards updated.
type Service struct {
	log     *slog.Logger
	col     collection
	defs    definitions
	limiter *rate.Limiter
	cfg     Config
}

// NewService creates a reformat Service.
func NewService(logger *slog.Logger, col collection, defs definitions, cfg Config) *Service {
	burst := cfg.LookupBurst
	if burst < 1 {
		burst = 1
	}
	limit := rate.Limit(cfg.LookupRate)
	if cfg.LookupRate <= 0 {
		limit = rate.Inf
	}

	return &Service{
		log:     logger.With("service", "reformat"),
		col:     col,
		defs:    defs,
		limiter: rate.NewLimiter(limit, burst),
		cfg:     cfg,
	}
}
