package ankiconnect

import "encoding/json"

// apiRequest is the envelope of every AnkiConnect call.
type apiRequest struct {
	Action  string `json:"action"`
	Version int    `json:"version"`
	Params  any    `json:"params,omitempty"`
}

// apiResponse is the envelope of every AnkiConnect response.
// Exactly one of Result/Error is meaningful; Error is null on success.
type apiResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *string         `json:"error"`
}

type findNotesParams struct {
	Query string `json:"query"`
}

type notesInfoParams struct {
	Notes []int64 `json:"notes"`
}

type updateNoteParams struct {
	Note noteUpdate `json:"note"`
}

type noteUpdate struct {
	ID     int64             `json:"id"`
	Fields map[string]string `json:"fields"`
}

// NoteInfo is one note as returned by the notesInfo action.
type NoteInfo struct {
	NoteID    int64            `json:"noteId"`
	ModelName string           `json:"modelName"`
	Tags      []string         `json:"tags"`
	Fields    map[string]Field `json:"fields"`
	Cards     []int64          `json:"cards"`
}

// Field is one field value of a note with its display order.
type Field struct {
	Value string `json:"value"`
	Order int    `json:"order"`
}
