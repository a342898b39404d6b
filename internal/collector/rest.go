package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

// RESTSource implements Source against a generic bars/quote REST API.
type RESTSource struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewRESTSource creates a new source with optional proxy support.
func NewRESTSource(baseURL, apiKey, proxyURL string) *RESTSource {
	return &RESTSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client:  newHTTPClient(proxyURL),
	}
}

func (f *RESTSource) Name() string { return "rest" }

// restBar is the expected JSON shape of a daily bar.
type restBar struct {
	Timestamp int64           `json:"timestamp"`
	Close     decimal.Decimal `json:"close"`
}

func (f *RESTSource) FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceSample, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("rest: lookback must be positive, got %d", lookbackDays)
	}
	endpoint := fmt.Sprintf("%s/api/v1/bars/daily?symbol=%s&limit=%d", f.BaseURL, url.QueryEscape(symbol), lookbackDays)
	var bars []restBar
	if err := f.getJSON(ctx, endpoint, &bars); err != nil {
		return nil, fmt.Errorf("fetch bars: %w", err)
	}
	samples := make([]model.PriceSample, 0, len(bars))
	for _, b := range bars {
		if !b.Close.IsPositive() {
			continue
		}
		samples = append(samples, model.PriceSample{Time: time.Unix(b.Timestamp, 0).UTC(), Close: b.Close})
	}
	// Ensure chronological order
	sort.Slice(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })
	return samples, nil
}

func (f *RESTSource) FetchLatestRate(ctx context.Context, pair string) (model.RateSnapshot, error) {
	symbol := strings.ReplaceAll(strings.ToUpper(pair), "/", "")
	endpoint := fmt.Sprintf("%s/api/v1/quote?symbol=%s", f.BaseURL, url.QueryEscape(symbol))
	var result struct {
		Price decimal.Decimal `json:"price"`
	}
	if err := f.getJSON(ctx, endpoint, &result); err != nil {
		return model.RateSnapshot{}, fmt.Errorf("fetch rate %s: %w", pair, err)
	}
	return model.RateSnapshot{Pair: pair, Rate: result.Price}, nil
}

func (f *RESTSource) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	return nil
}
