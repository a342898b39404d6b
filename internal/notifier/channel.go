package notifier

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"GoldSentinel/internal/model"
)

// ErrDeliveryFailure wraps the final error of a delivery that exhausted its retries.
var ErrDeliveryFailure = errors.New("delivery failure")

// Channel sends one planned delivery.
type Channel interface {
	Send(ctx context.Context, d model.Delivery) error
}

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
