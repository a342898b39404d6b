package collector

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"GoldSentinel/internal/model"
)

// Source defines the interface for fetching market data.
type Source interface {
	// FetchHistory returns daily closes for symbol, oldest first.
	FetchHistory(ctx context.Context, symbol string, lookbackDays int) ([]model.PriceSample, error)
	// FetchLatestRate returns the most recent rate for a "USD/XXX" pair.
	FetchLatestRate(ctx context.Context, pair string) (model.RateSnapshot, error)
	Name() string
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
