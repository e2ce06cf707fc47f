package currency

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultRatesURL is the public Frankfurter API (ECB reference rates).
const DefaultRatesURL = "https://api.frankfurter.app"

// Provider fetches a fresh rate table quoted against base.
type Provider interface {
	FetchRates(ctx context.Context, base string) (RateTable, error)
}

// Frankfurter fetches rates from a Frankfurter-compatible HTTP API.
type Frankfurter struct {
	baseURL string
	client  *http.Client
}

type latestResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewFrankfurter creates a provider for the API at baseURL.
func NewFrankfurter(baseURL string, timeout time.Duration) *Frankfurter {
	if baseURL == "" {
		baseURL = DefaultRatesURL
	}
	return &Frankfurter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

// FetchRates calls GET /latest?from=base. The base currency itself is added
// to the returned table with a rate of 1.
func (f *Frankfurter) FetchRates(ctx context.Context, base string) (RateTable, error) {
	endpoint := fmt.Sprintf("%s/latest?from=%s", f.baseURL, url.QueryEscape(base))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch rates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("rates API returned status %d", resp.StatusCode)
	}

	var body latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode rates response: %w", err)
	}

	rates := make(RateTable, len(body.Rates)+1)
	for code, rate := range body.Rates {
		rates[code] = rate
	}
	rates[base] = 1

	return rates, nil
}
