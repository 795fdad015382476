package ankiconnect

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/anki-reformat/internal/domain"
)

// Collection adapts the raw AnkiConnect client to the field layout of a
// vocabulary note model: one word field on the front, one answer field on
// the back. It is the only component that knows field names; everything
// above works with domain.Card.
type Collection struct {
	client      *Client
	wordField   string
	answerField string
	log         *slog.Logger
}

// NewCollection creates a Collection reading the given word and answer fields.
func NewCollection(client *Client, wordField, answerField string, logger *slog.Logger) *Collection {
	return &Collection{
		client:      client,
		wordField:   wordField,
		answerField: answerField,
		log:         logger.With("adapter", "collection"),
	}
}

// Ping reports whether the collection API is reachable.
func (c *Collection) Ping(ctx context.Context) error {
	return c.client.Ping(ctx)
}

// DeckNames returns all deck names in the collection.
func (c *Collection) DeckNames(ctx context.Context) ([]string, error) {
	return c.client.DeckNames(ctx)
}

// Cards enumerates every note of the named deck as a domain.Card.
// Notes lacking the configured word or answer field are logged and skipped;
// the second return value counts them.
func (c *Collection) Cards(ctx context.Context, deck string) ([]domain.Card, int, error) {
	noteIDs, err := c.client.FindNotes(ctx, fmt.Sprintf("deck:%q", deck))
	if err != nil {
		return nil, 0, fmt.Errorf("find notes in deck %q: %w", deck, err)
	}
	if len(noteIDs) == 0 {
		return nil, 0, nil
	}

	notes, err := c.client.NotesInfo(ctx, noteIDs)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch note info: %w", err)
	}

	cards := make([]domain.Card, 0, len(notes))
	missing := 0
	for _, n := range notes {
		word, wordOK := n.Fields[c.wordField]
		answer, answerOK := n.Fields[c.answerField]
		if !wordOK || !answerOK {
			missing++
			c.log.WarnContext(ctx, "note lacks configured fields",
				slog.Int64("note_id", n.NoteID),
				slog.String("word_field", c.wordField),
				slog.String("answer_field", c.answerField),
			)
			continue
		}

		cards = append(cards, domain.Card{
			NoteID:  n.NoteID,
			CardIDs: n.Cards,
			Word:    word.Value,
			Answer:  answer.Value,
		})
	}

	return cards, missing, nil
}

// UpdateAnswer overwrites the answer field of one note. No other field, no
// tags, and no scheduling data are part of the call.
func (c *Collection) UpdateAnswer(ctx context.Context, noteID int64, answer string) error {
	return c.client.UpdateNoteFields(ctx, noteID, map[string]string{c.answerField: answer})
}
