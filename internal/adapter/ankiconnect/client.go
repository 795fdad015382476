package ankiconnect

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/heartmarshall/anki-reformat/internal/domain"
)

// apiVersion is the AnkiConnect protocol version this client speaks.
const apiVersion = 6

// Client talks to the AnkiConnect add-on of a locally running Anki.
// Every operation is one POST of {"action", "version", "params"} to a single
// URL; responses carry {"result", "error"}. AnkiConnect is a single-client
// resource — calls are synchronous and never issued concurrently.
type Client struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the given AnkiConnect URL.
func NewClient(url string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "ankiconnect"),
	}
}

// Ping verifies that AnkiConnect is reachable and speaks a compatible
// protocol version. Failures wrap domain.ErrConnection: without the
// collection there is nothing to do, so callers abort the run.
func (c *Client) Ping(ctx context.Context) error {
	raw, err := c.invoke(ctx, "version", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrConnection, err)
	}

	var version int
	if err := json.Unmarshal(raw, &version); err != nil {
		return fmt.Errorf("%w: decode version: %w", domain.ErrConnection, err)
	}
	if version < apiVersion {
		return fmt.Errorf("%w: protocol version %d, need >= %d", domain.ErrConnection, version, apiVersion)
	}

	c.log.DebugContext(ctx, "ankiconnect reachable", slog.Int("version", version))
	return nil
}

// DeckNames returns the names of all decks in the collection.
func (c *Client) DeckNames(ctx context.Context) ([]string, error) {
	raw, err := c.invoke(ctx, "deckNames", nil)
	if err != nil {
		return nil, err
	}

	var names []string
	if err := json.Unmarshal(raw, &names); err != nil {
		return nil, fmt.Errorf("ankiconnect: decode deckNames: %w", err)
	}
	return names, nil
}

// FindNotes returns the note ids matching an Anki search query,
// e.g. `deck:"GRE Vocabulary"`.
func (c *Client) FindNotes(ctx context.Context, query string) ([]int64, error) {
	raw, err := c.invoke(ctx, "findNotes", findNotesParams{Query: query})
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("ankiconnect: decode findNotes: %w", err)
	}
	return ids, nil
}

// NotesInfo fetches field contents and card ids for the given note ids.
func (c *Client) NotesInfo(ctx context.Context, noteIDs []int64) ([]NoteInfo, error) {
	raw, err := c.invoke(ctx, "notesInfo", notesInfoParams{Notes: noteIDs})
	if err != nil {
		return nil, err
	}

	var notes []NoteInfo
	if err := json.Unmarshal(raw, &notes); err != nil {
		return nil, fmt.Errorf("ankiconnect: decode notesInfo: %w", err)
	}
	return notes, nil
}

// UpdateNoteFields overwrites the given fields of one existing note.
// Fields not present in the map, tags, deck membership, and all scheduling
// data are untouched by AnkiConnect for this action.
func (c *Client) UpdateNoteFields(ctx context.Context, noteID int64, fields map[string]string) error {
	_, err := c.invoke(ctx, "updateNoteFields", updateNoteParams{
		Note: noteUpdate{ID: noteID, Fields: fields},
	})
	return err
}

// invoke performs one AnkiConnect action and returns the raw result member.
func (c *Client) invoke(ctx context.Context, action string, params any) (json.RawMessage, error) {
	reqBody, err := json.Marshal(apiRequest{
		Action:  action,
		Version: apiVersion,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: marshal %s: %w", action, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.log.DebugContext(ctx, "ankiconnect request", slog.String("action", action))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: %s: %w", action, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ankiconnect: %s: unexpected status %d", action, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ankiconnect: %s: read body: %w", action, err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("ankiconnect: %s: decode response: %w", action, err)
	}

	if apiResp.Error != nil && *apiResp.Error != "" {
		return nil, fmt.Errorf("ankiconnect: %s: %s", action, *apiResp.Error)
	}

	return apiResp.Result, nil
}
