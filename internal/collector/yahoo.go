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

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooSource implements Source using the Yahoo Finance public chart API.
type YahooSource struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
}

// NewYahooSource creates a new Yahoo Finance source.
func NewYahooSource(proxyURL string) *YahooSource {
	return &YahooSource{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"GOLD": "GC=F",
			"XAU":  "GC=F",
		},
	}
}

func (f *YahooSource) Name() string { return "yahoo" }

func (f *YahooSource) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooPairSymbol maps "USD/AUD" to the Yahoo ticker "AUD=X".
func yahooPairSymbol(pair string) (string, error) {
	base, quote, ok := strings.Cut(strings.ToUpper(pair), "/")
	if !ok || base != "USD" || quote == "" {
		return "", fmt.Errorf("yahoo: unsupported pair %q", pair)
	}
	return quote + "=X", nil
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func (f *YahooSource) fetchChart(ctx context.Context, ticker, interval, rng string) ([]model.PriceSample, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(ticker), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned")
	}

	result := chart.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	samples := make([]model.PriceSample, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil || *closes[i] <= 0 {
			continue // skip null bars (holidays etc.)
		}
		samples = append(samples, model.PriceSample{
			Time:  time.Unix(ts, 0).UTC(),
			Close: decimal.NewFromFloat(*closes[i]),
		})
	}

	sort.Slice(samples, func(i, j int) bool { return samples[i].Time.Before(samples[j].Time) })
	return samples, nil
}

func (f *YahooSource) FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceSample, error) {
	if lookbackDays <= 0 {
		return nil, fmt.Errorf("yahoo: lookback must be positive, got %d", lookbackDays)
	}
	// Yahoo range: max "2y" for daily interval
	rng := "2y"
	if lookbackDays <= 30 {
		rng = "1mo"
	} else if lookbackDays <= 60 {
		rng = "3mo"
	} else if lookbackDays <= 120 {
		rng = "6mo"
	} else if lookbackDays <= 250 {
		rng = "1y"
	}
	samples, err := f.fetchChart(ctx, f.yahooSymbol(symbol), "1d", rng)
	if err != nil {
		return nil, err
	}
	// Trim to requested count
	if len(samples) > lookbackDays {
		samples = samples[len(samples)-lookbackDays:]
	}
	return samples, nil
}

func (f *YahooSource) FetchLatestRate(ctx context.Context, pair string) (model.RateSnapshot, error) {
	ticker, err := yahooPairSymbol(pair)
	if err != nil {
		return model.RateSnapshot{}, err
	}
	samples, err := f.fetchChart(ctx, ticker, "1d", "5d")
	if err != nil {
		return model.RateSnapshot{}, err
	}
	if len(samples) == 0 {
		return model.RateSnapshot{}, fmt.Errorf("yahoo: no rate data for %s", pair)
	}
	return model.RateSnapshot{Pair: pair, Rate: samples[len(samples)-1].Close}, nil
}
