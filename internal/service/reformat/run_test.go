package reformat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anki-reformat/internal/domain"
	"github.com/heartmarshall/anki-reformat/internal/provider"
)

// ===========================================================================
// Manual mocks (moq-style with func fields)
// ===========================================================================

type update struct {
	noteID int64
	answer string
}

// mockCollection is a stateful in-memory collection. By default it serves
// the configured cards and applies updates to them, so a second Run sees
// the effect of the first.
type mockCollection struct {
	PingFunc         func(ctx context.Context) error
	DeckNamesFunc    func(ctx context.Context) ([]string, error)
	CardsFunc        func(ctx context.Context, deck string) ([]domain.Card, int, error)
	UpdateAnswerFunc func(ctx context.Context, noteID int64, answer string) error

	cards   []domain.Card
	updates []update
}

func (m *mockCollection) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

func (m *mockCollection) DeckNames(ctx context.Context) ([]string, error) {
	if m.DeckNamesFunc != nil {
		return m.DeckNamesFunc(ctx)
	}
	return []string{"Default", "GRE Vocabulary"}, nil
}

func (m *mockCollection) Cards(ctx context.Context, deck string) ([]domain.Card, int, error) {
	if m.CardsFunc != nil {
		return m.CardsFunc(ctx, deck)
	}
	out := make([]domain.Card, len(m.cards))
	copy(out, m.cards)
	return out, 0, nil
}

func (m *mockCollection) UpdateAnswer(ctx context.Context, noteID int64, answer string) error {
	if m.UpdateAnswerFunc != nil {
		return m.UpdateAnswerFunc(ctx, noteID, answer)
	}
	m.updates = append(m.updates, update{noteID: noteID, answer: answer})
	for i := range m.cards {
		if m.cards[i].NoteID == noteID {
			m.cards[i].Answer = answer
		}
	}
	return nil
}

type mockDefinitions struct {
	LookupFunc func(ctx context.Context, headword string) ([]provider.Definition, error)

	lookups []string
}

func (m *mockDefinitions) Lookup(ctx context.Context, headword string) ([]provider.Definition, error) {
	m.lookups = append(m.lookups, headword)
	if m.LookupFunc != nil {
		return m.LookupFunc(ctx, headword)
	}
	return nil, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(col collection, defs definitions, dryRun bool) *Service {
	return NewService(testLogger(), col, defs, Config{
		DeckName: "GRE Vocabulary",
		DryRun:   dryRun,
	})
}

// ===========================================================================
// Tests
// ===========================================================================

func TestRun_AlreadyFormattedCardsGetZeroWrites(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "ephemeral", Answer: "Definitions:\n\n1. Adjective: short-lived\n"},
		{NoteID: 2, Word: "laconic", Answer: "prefix\nDefinitions:\nsuffix"},
	}}
	defs := &mockDefinitions{}

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Equal(t, 2, report.AlreadyFormatted)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, col.updates, "no write may be issued for formatted cards")
	assert.Empty(t, defs.lookups, "no lookup may be issued for formatted cards")
}

func TestRun_ReformatsUnformattedCard(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 10, Word: "ephemeral", Answer: "old paraphrase"},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, headword string) ([]provider.Definition, error) {
		require.Equal(t, "ephemeral", headword)
		return []provider.Definition{
			{PartOfSpeech: "adjective", Text: "lasting a very short time"},
		}, nil
	}}

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Updated)
	assert.Empty(t, report.Failures)

	require.Len(t, col.updates, 1)
	assert.Equal(t, int64(10), col.updates[0].noteID)
	assert.Equal(t,
		"Definitions:\n\n1. Adjective: lasting a very short time\n   1. Sentences: \n   2. Synonyms: \n\n",
		col.updates[0].answer)
}

func TestRun_StripsMarkupFromHeadword(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 11, Word: `<div style="text-align: center;"><b>abate</b>&nbsp;</div>`, Answer: ""},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, _ string) ([]provider.Definition, error) {
		return []provider.Definition{{PartOfSpeech: "verb", Text: "to lessen"}}, nil
	}}

	_, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	require.Len(t, defs.lookups, 1)
	assert.Equal(t, "abate", defs.lookups[0])
}

func TestRun_NotFoundLeavesAnswerUntouched(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 20, Word: "qwertyuiop", Answer: "legacy content"},
	}}
	defs := &mockDefinitions{} // default: zero entries, nil error

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.NotFound)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, col.updates)
	assert.Equal(t, "legacy content", col.cards[0].Answer)

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "qwertyuiop", report.Failures[0].Word)
	assert.Equal(t, "no definition found", report.Failures[0].Reason)
}

func TestRun_DictionaryOutage(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "alpha", Answer: ""},
		{NoteID: 2, Word: "beta", Answer: "Definitions:\n"},
		{NoteID: 3, Word: "gamma", Answer: ""},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, _ string) ([]provider.Definition, error) {
		return nil, errors.New("connection refused")
	}}

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err, "per-card lookup failures must not abort the batch")

	assert.Equal(t, 2, report.LookupFailed)
	assert.Equal(t, 1, report.AlreadyFormatted)
	assert.Equal(t, 0, report.Updated)
	assert.Empty(t, col.updates, "no answer may change during an outage")
	assert.Len(t, report.Failures, 2)
}

func TestRun_UpdateFailureDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "alpha", Answer: ""},
		{NoteID: 2, Word: "beta", Answer: ""},
	}}
	col.UpdateAnswerFunc = func(_ context.Context, noteID int64, _ string) error {
		if noteID == 1 {
			return errors.New("note was deleted")
		}
		col.updates = append(col.updates, update{noteID: noteID})
		return nil
	}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, _ string) ([]provider.Definition, error) {
		return []provider.Definition{{PartOfSpeech: "noun", Text: "x"}}, nil
	}}

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.UpdateFailed)
	assert.Equal(t, 1, report.Updated)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, int64(1), report.Failures[0].NoteID)
}

func TestRun_DryRunIssuesNoWrites(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "alpha", Answer: ""},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, _ string) ([]provider.Definition, error) {
		return []provider.Definition{{PartOfSpeech: "noun", Text: "x"}}, nil
	}}

	report, err := newTestService(col, defs, true).Run(context.Background())
	require.NoError(t, err)

	assert.True(t, report.DryRun)
	assert.Equal(t, 1, report.Updated, "dry-run still counts would-be updates")
	assert.Empty(t, col.updates, "dry-run must not write")
}

func TestRun_SecondRunIsIdempotent(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "ephemeral", Answer: ""},
		{NoteID: 2, Word: "laconic", Answer: "old text"},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, headword string) ([]provider.Definition, error) {
		return []provider.Definition{{PartOfSpeech: "adjective", Text: "definition of " + headword}}, nil
	}}

	svc := newTestService(col, defs, false)

	first, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Updated)
	assert.Len(t, col.updates, 2)

	second, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.AlreadyFormatted)
	assert.Equal(t, 0, second.Updated)
	assert.Len(t, col.updates, 2, "second run must issue zero additional writes")
}

func TestRun_PingFailureIsFatal(t *testing.T) {
	t.Parallel()

	col := &mockCollection{PingFunc: func(_ context.Context) error {
		return domain.ErrConnection
	}}

	_, err := newTestService(col, &mockDefinitions{}, false).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConnection)
}

func TestRun_UnknownDeckIsFatal(t *testing.T) {
	t.Parallel()

	col := &mockCollection{DeckNamesFunc: func(_ context.Context) ([]string, error) {
		return []string{"Default"}, nil
	}}

	_, err := newTestService(col, &mockDefinitions{}, false).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GRE Vocabulary")
}

func TestRun_EmptyHeadwordIsReported(t *testing.T) {
	t.Parallel()

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "<div><br></div>", Answer: ""},
	}}
	defs := &mockDefinitions{}

	report, err := newTestService(col, defs, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.LookupFailed)
	assert.Empty(t, defs.lookups, "no lookup for an empty headword")
	require.Len(t, report.Failures, 1)
}

func TestRun_MissingFieldsCounted(t *testing.T) {
	t.Parallel()

	col := &mockCollection{CardsFunc: func(_ context.Context, _ string) ([]domain.Card, int, error) {
		return []domain.Card{{NoteID: 1, Word: "alpha", Answer: "Definitions:\n"}}, 3, nil
	}}

	report, err := newTestService(col, &mockDefinitions{}, false).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, report.Total)
	assert.Equal(t, 3, report.MissingFields)
}

func TestRun_ContextCancellationAborts(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())

	col := &mockCollection{cards: []domain.Card{
		{NoteID: 1, Word: "alpha", Answer: ""},
		{NoteID: 2, Word: "beta", Answer: ""},
	}}
	defs := &mockDefinitions{LookupFunc: func(_ context.Context, _ string) ([]provider.Definition, error) {
		cancel() // cancel mid-run, during the first lookup
		return nil, context.Canceled
	}}

	_, err := newTestService(col, defs, false).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, defs.lookups, 1, "processing must stop after cancellation")
}
