// Package rates fetches exchange rates from an external provider. The data
// is informational only: the ledger core never depends on it, and any lookup
// failure degrades to a fixed fallback table instead of an error.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
)

// Fallback table served when the provider is unreachable
var fallbackRates = map[string]decimal.Decimal{
	"USD": decimal.RequireFromString("34.50"),
	"EUR": decimal.RequireFromString("36.20"),
	"GBP": decimal.RequireFromString("42.10"),
}

// Result is a rate lookup outcome. Fallback marks table data served because
// the provider was unavailable.
type Result struct {
	Base     string
	Rates    map[string]decimal.Decimal
	Fallback bool
}

// Client fetches rates over HTTP with a bounded timeout
type Client struct {
	logger     *slog.Logger
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a rate client for the given provider URL
func NewClient(logger *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		logger:     logger,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
	}
}

type providerResponse struct {
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Latest returns the rate table for the given base currency. Any failure
// (bad URL, transport error, non-200 status, malformed body) yields the
// fallback table, never an error.
func (c *Client) Latest(ctx context.Context, base string) Result {
	rates, err := c.fetch(ctx, base)
	if err != nil {
		c.logger.Warn("rate lookup failed, serving fallback table", "base", base, "error", err)
		return Result{Base: base, Rates: fallback(), Fallback: true}
	}
	return Result{Base: base, Rates: rates}
}

func (c *Client) fetch(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid rates URL: %w", err)
	}
	q := endpoint.Query()
	q.Set("base", base)
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rate provider returned status %d", resp.StatusCode)
	}

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rate response: %w", err)
	}
	if len(body.Rates) == 0 {
		return nil, fmt.Errorf("rate provider returned no rates")
	}
	return body.Rates, nil
}

func fallback() map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(fallbackRates))
	for code, rate := range fallbackRates {
		rates[code] = rate
	}
	return rates
}
