package retail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	defaultBaseURL = "https://prices.azure.com/api/retail/prices"
	// APIVersion is the pinned Retail Prices API version.
	APIVersion = "2023-01-01-preview"
	// DefaultMaxPages bounds pagination so a broken NextPageLink chain cannot
	// loop forever.
	DefaultMaxPages = 100
)

// Failure taxonomy. Callers match with errors.Is.
var (
	// ErrNetwork covers transport failures and non-2xx responses.
	ErrNetwork = errors.New("network error")
	// ErrMalformedResponse covers response bodies that are not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")
)

// Client calls the Azure Retail Prices REST API over HTTP. The API is public
// and unauthenticated. Fields are exported so tests can point the client at a
// mock server.
type Client struct {
	HTTPClient *http.Client
	BaseURL    string
	APIVersion string
	MaxPages   int
}

// NewClient returns a Client against the production endpoint.
func NewClient() *Client {
	return &Client{
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		BaseURL:    defaultBaseURL,
		APIVersion: APIVersion,
		MaxPages:   DefaultMaxPages,
	}
}

// Fetch runs the query and follows NextPageLink until it is absent or the
// client page bound is hit, preserving API return order. Zero matching items
// is an empty result, not an error. No retries: any failure aborts the fetch.
func (c *Client) Fetch(ctx context.Context, q PriceQuery) ([]PriceItem, error) {
	return c.FetchPages(ctx, q, c.MaxPages)
}

// FetchSKUPrices runs a SKU-scoped query. An empty SKU set matches nothing,
// so it returns an empty result without calling the API.
func (c *Client) FetchSKUPrices(ctx context.Context, q PriceQuery) ([]PriceItem, error) {
	if len(q.SKUNames) == 0 {
		return nil, nil
	}
	return c.Fetch(ctx, q)
}

// FetchPages is Fetch with an explicit page bound. maxPages <= 0 means
// unbounded. A bound of 1 is used for cheap single-page probes.
func (c *Client) FetchPages(ctx context.Context, q PriceQuery, maxPages int) ([]PriceItem, error) {
	params := url.Values{}
	params.Set("api-version", c.APIVersion)
	params.Set("$filter", q.Filter())
	nextURL := c.BaseURL + "?" + params.Encode()

	var items []PriceItem

	for page := 0; nextURL != ""; page++ {
		if maxPages > 0 && page >= maxPages {
			log.Debugf("stopping pagination at page bound [maxPages=%d]", maxPages)
			break
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, nextURL, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: creating request: %v", ErrNetwork, err)
		}

		resp, err := c.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: API returned status %d", ErrNetwork, resp.StatusCode)
		}

		var pageResp PriceResponse
		if err := json.NewDecoder(resp.Body).Decode(&pageResp); err != nil {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: decoding page: %v", ErrMalformedResponse, err)
		}
		resp.Body.Close()

		items = append(items, pageResp.Items...)

		validNext, err := validateNextPageLink(pageResp.NextPageLink, c.BaseURL)
		if err != nil {
			log.WithError(err).Warn("invalid NextPageLink, stopping pagination")
			break
		}
		nextURL = validNext
	}

	return items, nil
}

// validateNextPageLink rejects continuation URLs pointing at a different host
// than the configured endpoint. The link already encodes the filter, so it is
// used as the full request URL.
func validateNextPageLink(next, baseURL string) (string, error) {
	if next == "" {
		return "", nil
	}
	u, err := url.Parse(next)
	if err != nil {
		return "", fmt.Errorf("invalid NextPageLink %q: %w", next, err)
	}
	base, _ := url.Parse(baseURL)
	if u.Host != base.Host || u.Scheme != base.Scheme {
		return "", fmt.Errorf("NextPageLink host %q does not match expected %q", u.Host, base.Host)
	}
	return next, nil
}
