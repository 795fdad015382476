package reformat

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/heartmarshall/anki-reformat/internal/domain"
)

// Report summarizes one run. Every card of the deck lands in exactly one
// bucket; Failures carries the headword and reason for each card that could
// not be reformatted, so gaps can be addressed manually.
type Report struct {
	RunID  string
	Deck   string
	DryRun bool

	Total            int // cards enumerated (with usable fields)
	MissingFields    int // notes skipped: configured fields absent
	AlreadyFormatted int // classifier matched, zero writes issued
	Updated          int // answer rewritten (or would be, in dry-run)
	NotFound         int // dictionary had no entry, answer untouched
	LookupFailed     int // dictionary unreachable/malformed, answer untouched
	UpdateFailed     int // write call failed, answer state unknown

	Failures []Failure
}

// Failure identifies one card that was not reformatted and why.
type Failure struct {
	NoteID int64
	Word   string
	Reason string
}

func (r *Report) fail(noteID int64, word, reason string) {
	r.Failures = append(r.Failures, Failure{NoteID: noteID, Word: word, Reason: reason})
}

// Run executes the full pipeline over the configured deck: enumerate cards,
// classify each answer, and rewrite the ones lacking the definitions block
// from dictionary lookups. Per-card failures never abort the batch; only
// collection connectivity problems return an error.
func (s *Service) Run(ctx context.Context) (*Report, error) {
	report := &Report{
		RunID:  uuid.NewString(),
		Deck:   s.cfg.DeckName,
		DryRun: s.cfg.DryRun,
	}
	log := s.log.With(slog.String("run_id", report.RunID), slog.String("deck", s.cfg.DeckName))

	if err := s.col.Ping(ctx); err != nil {
		return nil, err
	}

	decks, err := s.col.DeckNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	log.Debug("available decks", slog.Any("decks", decks))
	if !slices.Contains(decks, s.cfg.DeckName) {
		return nil, fmt.Errorf("deck %q not found in collection", s.cfg.DeckName)
	}

	cards, missing, err := s.col.Cards(ctx, s.cfg.DeckName)
	if err != nil {
		return nil, fmt.Errorf("enumerate cards: %w", err)
	}
	report.Total = len(cards)
	report.MissingFields = missing
	log.Info("deck enumerated",
		slog.Int("cards", len(cards)),
		slog.Int("missing_fields", missing),
	)

	for i, card := range cards {
		log.Debug("processing card",
			slog.Int("index", i+1),
			slog.Int("total", len(cards)),
			slog.Int64("note_id", card.NoteID),
		)

		if !NeedsReformat(card.Answer) {
			report.AlreadyFormatted++
			continue
		}

		if err := s.reformatCard(ctx, log, card, report); err != nil {
			// Only context cancellation escapes reformatCard.
			return nil, err
		}
	}

	log.Info("run complete",
		slog.Bool("dry_run", report.DryRun),
		slog.Int("total", report.Total),
		slog.Int("already_formatted", report.AlreadyFormatted),
		slog.Int("updated", report.Updated),
		slog.Int("not_found", report.NotFound),
		slog.Int("lookup_failed", report.LookupFailed),
		slog.Int("update_failed", report.UpdateFailed),
	)

	return report, nil
}

// reformatCard fetches definitions for one card and writes the rendered
// answer back. All per-card failures are recorded in the report and
// swallowed; the returned error is non-nil only when the run context is
// cancelled.
func (s *Service) reformatCard(ctx context.Context, log *slog.Logger, card domain.Card, report *Report) error {
	headword := domain.StripMarkup(card.Word)
	if headword == "" {
		report.LookupFailed++
		report.fail(card.NoteID, card.Word, "empty headword after stripping markup")
		log.Warn("empty headword", slog.Int64("note_id", card.NoteID))
		return nil
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	defs, err := s.defs.Lookup(ctx, headword)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.LookupFailed++
		report.fail(card.NoteID, headword, fmt.Sprintf("lookup: %v", err))
		log.Warn("lookup failed",
			slog.String("headword", headword),
			slog.String("error", err.Error()),
		)
		return nil
	}

	if len(defs) == 0 {
		// Writing an empty template would clobber a field the user may
		// want to fill manually, so the card is left as it is.
		report.NotFound++
		report.fail(card.NoteID, headword, "no definition found")
		log.Info("no definition found", slog.String("headword", headword))
		return nil
	}

	answer := Render(defs)

	if s.cfg.DryRun {
		report.Updated++
		log.Info("would update card",
			slog.String("headword", headword),
			slog.Int("definitions", len(defs)),
		)
		return nil
	}

	if err := s.col.UpdateAnswer(ctx, card.NoteID, answer); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report.UpdateFailed++
		report.fail(card.NoteID, headword, fmt.Sprintf("update: %v", err))
		log.Warn("update failed",
			slog.String("headword", headword),
			slog.String("error", err.Error()),
		)
		return nil
	}

	report.Updated++
	log.Info("card updated",
		slog.String("headword", headword),
		slog.Int("definitions", len(defs)),
	)
	return nil
}
