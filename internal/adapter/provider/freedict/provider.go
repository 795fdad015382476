package freedict

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/heartmarshall/anki-reformat/internal/provider"
)

// Provider fetches definitions from the FreeDictionary API
// (https://dictionaryapi.dev). It serves as a coverage fallback for
// headwords the primary dictionary does not know. The API returns an array
// of entries (one per etymology); senses from all entries are concatenated
// in response order.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// NewProvider creates a Provider for the given base URL.
func NewProvider(baseURL string, timeout time.Duration, logger *slog.Logger) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "freedict"),
	}
}

// Lookup fetches the definitions for the given headword.
// Returns an empty slice and nil error when the word is not found (HTTP 404).
func (p *Provider) Lookup(ctx context.Context, headword string) ([]provider.Definition, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(headword)

	p.log.DebugContext(ctx, "freedict request", slog.String("headword", headword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("freedict: create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		p.log.ErrorContext(ctx, "freedict request failed",
			slog.String("headword", headword), slog.String("error", err.Error()))
		return nil, fmt.Errorf("freedict: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("freedict: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("freedict: read body: %w", err)
	}

	var entries []apiEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("freedict: decode json: %w", err)
	}

	defs := mapAPIResponse(entries)

	p.log.DebugContext(ctx, "freedict response",
		slog.String("headword", headword),
		slog.Int("status", resp.StatusCode),
		slog.Int("definitions", len(defs)),
	)

	return defs, nil
}

// mapAPIResponse flattens API entries into provider-neutral definitions.
// Senses with no definition text are dropped; order is preserved across
// entries (etymology 1 senses before etymology 2 senses, and so on).
func mapAPIResponse(entries []apiEntry) []provider.Definition {
	var defs []provider.Definition
	for _, entry := range entries {
		for _, meaning := range entry.Meanings {
			for _, d := range meaning.Definitions {
				text := strings.TrimSpace(d.Definition)
				if text == "" {
					continue
				}
				defs = append(defs, provider.Definition{
					PartOfSpeech: strings.TrimSpace(meaning.PartOfSpeech),
					Text:         text,
				})
			}
		}
	}
	return defs
}
