package ankiconnect

import (
	"context"
	"encoding/json"
	"testing"
)

func newTestCollection(url string) *Collection {
	return NewCollection(newTestClient(url), "Word", "Details", newTestLogger())
}

func TestCollection_Cards(t *testing.T) {
	t.Parallel()

	srv := ankiStub(t, func(t *testing.T, req apiRequest) (any, string) {
		switch req.Action {
		case "findNotes":
			var params struct {
				Query string `json:"query"`
			}
			raw, _ := req.Params.(json.RawMessage)
			if err := json.Unmarshal(raw, &params); err != nil {
				t.Fatalf("decode params: %v", err)
			}
			if params.Query != `deck:"GRE Vocabulary"` {
				t.Errorf("query = %q", params.Query)
			}
			return []int64{1, 2, 3}, ""
		case "notesInfo":
			return []map[string]any{
				{
					"noteId": 1,
					"fields": map[string]any{
						"Word":    map[string]any{"value": "ephemeral", "order": 0},
						"Details": map[string]any{"value": "", "order": 1},
					},
					"cards": []int64{101},
				},
				{
					// Different note model without our fields: skipped.
					"noteId": 2,
					"fields": map[string]any{
						"Front": map[string]any{"value": "x", "order": 0},
						"Back":  map[string]any{"value": "y", "order": 1},
					},
					"cards": []int64{102},
				},
				{
					"noteId": 3,
					"fields": map[string]any{
						"Word":    map[string]any{"value": "laconic", "order": 0},
						"Details": map[string]any{"value": "Definitions:\n", "order": 1},
					},
					"cards": []int64{103, 104},
				},
			}, ""
		default:
			t.Errorf("unexpected action %q", req.Action)
			return nil, ""
		}
	})
	defer srv.Close()

	cards, missing, err := newTestCollection(srv.URL).Cards(context.Background(), "GRE Vocabulary")
	if err != nil {
		t.Fatalf("Cards() error: %v", err)
	}

	if missing != 1 {
		t.Errorf("missing = %d, want 1", missing)
	}
	if len(cards) != 2 {
		t.Fatalf("len(cards) = %d, want 2", len(cards))
	}
	if cards[0].NoteID != 1 || cards[0].Word != "ephemeral" || cards[0].Answer != "" {
		t.Errorf("cards[0] = %+v", cards[0])
	}
	if cards[1].Word != "laconic" || len(cards[1].CardIDs) != 2 {
		t.Errorf("cards[1] = %+v", cards[1])
	}
}

func TestCollection_Cards_EmptyDeck(t *testing.T) {
	t.Parallel()

	srv := ankiStub(t, func(t *testing.T, req apiRequest) (any, string) {
		if req.Action == "findNotes" {
			return []int64{}, ""
		}
		t.Errorf("notesInfo must not be called for an empty deck, got %q", req.Action)
		return nil, ""
	})
	defer srv.Close()

	cards, missing, err := newTestCollection(srv.URL).Cards(context.Background(), "Empty Deck")
	if err != nil {
		t.Fatalf("Cards() error: %v", err)
	}
	if len(cards) != 0 || missing != 0 {
		t.Errorf("cards = %v, missing = %d, want empty", cards, missing)
	}
}

func TestCollection_UpdateAnswer_OnlyAnswerField(t *testing.T) {
	t.Parallel()

	var gotFields map[string]string
	srv := ankiStub(t, func(t *testing.T, req apiRequest) (any, string) {
		if req.Action != "updateNoteFields" {
			t.Errorf("action = %q", req.Action)
		}
		var params struct {
			Note struct {
				ID     int64             `json:"id"`
				Fields map[string]string `json:"fields"`
			} `json:"note"`
		}
		raw, _ := req.Params.(json.RawMessage)
		if err := json.Unmarshal(raw, &params); err != nil {
			t.Fatalf("decode params: %v", err)
		}
		gotFields = params.Note.Fields
		return nil, ""
	})
	defer srv.Close()

	err := newTestCollection(srv.URL).UpdateAnswer(context.Background(), 7, "Definitions:\n")
	if err != nil {
		t.Fatalf("UpdateAnswer() error: %v", err)
	}

	if len(gotFields) != 1 {
		t.Fatalf("fields = %v, want exactly one", gotFields)
	}
	if gotFields["Details"] != "Definitions:\n" {
		t.Errorf("Details = %q", gotFields["Details"])
	}
}
