// Package catalog resolves candidate card names against external catalog APIs
// and normalizes their heterogeneous responses into canonical card records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cardlens/internal/common"
	"cardlens/internal/model"
)

// externalCallTimeout bounds each catalog request.
const externalCallTimeout = 15 * time.Second

// Adapter looks one domain's catalog up by card name. A miss is ErrNotFound;
// transport or shape failures are wrapped in ErrCatalogLookup. Callers treat
// both as "no match for this candidate", never as fatal.
type Adapter interface {
	Domain() model.GameDomain
	Lookup(ctx context.Context, name string) (*model.Card, error)
}

// restClient is the fetch-and-decode plumbing shared by every adapter, so the
// per-domain code reduces to query parameters and response-shape parsing.
type restClient struct {
	httpClient *http.Client
}

func newRESTClient() *restClient {
	return &restClient{
		httpClient: &http.Client{Timeout: externalCallTimeout},
	}
}

// statusError reports a non-2xx response so adapters can map specific codes
// (Scryfall's 404 on a fuzzy miss) to ErrNotFound.
type statusError struct {
	URL  string
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", e.Code, e.URL)
}

func (c *restClient) getJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, target any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%w: parse url: %v", common.ErrCatalogLookup, err)
	}
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", common.ErrCatalogLookup, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrCatalogLookup, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &statusError{URL: u.Host + u.Path, Code: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("%w: decode response: %v", common.ErrCatalogLookup, err)
	}

	return nil
}

// firstPrice walks a price fallback chain and returns the first positive
// value, defaulting to 0. Normalized prices are never negative.
func firstPrice(values ...float64) float64 {
	for _, v := range values {
		if v > 0 {
			return v
		}
	}
	return 0
}

// parsePrice converts a string price field, returning 0 for absent or
// malformed values.
func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

// firstNonEmpty walks an image (or label) fallback chain.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
