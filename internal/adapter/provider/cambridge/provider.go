package cambridge

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

// Provider fetches word definitions from a Cambridge dictionary proxy API.
// The API serves one entry set per word: GET <base>/<word> returns
// {"definition": [{"pos": ..., "text": ...}, ...]}.
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
		log:        logger.With("adapter", "cambridge"),
	}
}

// Lookup fetches the definitions for the given headword.
// Returns an empty slice and nil error when the word is not found (HTTP 404).
// Entries without definition text are dropped, matching the upstream data
// which pads some senses with empty strings.
func (p *Provider) Lookup(ctx context.Context, headword string) ([]provider.Definition, error) {
	reqURL := p.baseURL + "/" + url.PathEscape(headword)

	p.log.DebugContext(ctx, "cambridge request", slog.String("headword", headword))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("cambridge: create request: %w", err)
	}

	resp, err := p.doWithRetry(ctx, req, headword)
	if err != nil {
		p.log.ErrorContext(ctx, "cambridge request failed",
			slog.String("headword", headword), slog.String("error", err.Error()))
		return nil, fmt.Errorf("cambridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cambridge: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("cambridge: read body: %w", err)
	}

	var entry apiEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil, fmt.Errorf("cambridge: decode json: %w", err)
	}

	defs := mapAPIResponse(entry)

	p.log.DebugContext(ctx, "cambridge response",
		slog.String("headword", headword),
		slog.Int("status", resp.StatusCode),
		slog.Int("definitions", len(defs)),
	)

	return defs, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, headword string) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	// Don't retry if context is already cancelled.
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "cambridge retry",
		slog.String("headword", headword), slog.String("reason", reason))

	// Close body from the failed attempt before retrying.
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	resp, err = p.httpClient.Do(req)
	return resp, err
}

// mapAPIResponse converts an API entry into the provider-neutral definitions,
// preserving upstream order and skipping senses with no definition text.
func mapAPIResponse(entry apiEntry) []provider.Definition {
	defs := make([]provider.Definition, 0, len(entry.Definition))
	for _, d := range entry.Definition {
		text := strings.TrimSpace(d.Text)
		if text == "" {
			continue
		}
		defs = append(defs, provider.Definition{
			PartOfSpeech: strings.TrimSpace(d.POS),
			Text:         text,
		})
	}
	return defs
}
