// Package retail scrapes the displayed per-gram price from a bullion retailer's page.
package retail

import (
	"context"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/net/publicsuffix"

	"GoldSentinel/internal/model"
)

// Source fetches the retailer's current price. Failures are reported in the result, never as errors.
type Source interface {
	FetchRetailPrice(ctx context.Context) model.RetailResult
}

// Disabled is used when no retail URL is configured.
type Disabled struct{}

func (Disabled) FetchRetailPrice(context.Context) model.RetailResult {
	return model.RetailNotAvailable()
}

// Config describes the page to scrape.
type Config struct {
	URL           string
	PriceSelector string // "#id", ".class" or a tag name
	ClosedMarker  string // page text that means the store is closed
	Timeout       time.Duration
	UserAgent     string
	// DecimalSeparator is '.' (the default) or ','.
	DecimalSeparator rune
}

// Scraper fetches and parses the retail page.
type Scraper struct {
	cfg    Config
	client *resty.Client
	log    zerolog.Logger
}

// NewScraper creates a Scraper. Use New when the URL may be empty.
func NewScraper(cfg Config, log zerolog.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "Mozilla/5.0 (compatible; GoldSentinel/1.0)"
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetHeader("User-Agent", cfg.UserAgent)
	client.SetHeader("Accept", "text/html")
	if jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List}); err == nil {
		client.SetCookieJar(jar)
	}

	return &Scraper{
		cfg:    cfg,
		client: client,
		log:    log.With().Str("component", "retail").Logger(),
	}
}

// New returns a Scraper, or Disabled when cfg has no URL.
func New(cfg Config, log zerolog.Logger) Source {
	if strings.TrimSpace(cfg.URL) == "" {
		return Disabled{}
	}
	return NewScraper(cfg, log)
}

func (s *Scraper) FetchRetailPrice(ctx context.Context) model.RetailResult {
	resp, err := s.client.R().SetContext(ctx).Get(s.cfg.URL)
	if err != nil {
		s.log.Warn().Err(err).Str("url", s.cfg.URL).Msg("retail fetch failed")
		return model.RetailNotAvailable()
	}
	if resp.IsError() {
		s.log.Warn().Int("status", resp.StatusCode()).Str("url", s.cfg.URL).Msg("retail fetch returned error status")
		return model.RetailNotAvailable()
	}

	page, err := parsePage(resp.Body())
	if err != nil {
		s.log.Warn().Err(err).Msg("retail page parse failed")
		return model.RetailNotAvailable()
	}

	if s.cfg.ClosedMarker != "" && strings.Contains(strings.ToLower(page.text()), strings.ToLower(s.cfg.ClosedMarker)) {
		return model.RetailClosed()
	}

	text, ok := page.selectText(s.cfg.PriceSelector)
	if !ok {
		s.log.Warn().Str("selector", s.cfg.PriceSelector).Msg("retail price element not found")
		return model.RetailNotAvailable()
	}
	sep := s.cfg.DecimalSeparator
	if sep == 0 {
		sep = '.'
	}
	price, ok := ParsePriceWith(text, sep)
	if !ok {
		s.log.Warn().Str("text", text).Msg("retail price not a number")
		return model.RetailNotAvailable()
	}
	return model.RetailPriceOf(price)
}

// ParsePrice extracts the first number from s with '.' as the decimal separator
// and ',' grouping thousands: "$4,150.00 /g" -> 4150.00.
func ParsePrice(s string) (decimal.Decimal, bool) {
	return ParsePriceWith(s, '.')
}

// ParsePriceWith is ParsePrice for a given decimal separator, '.' or ','. The
// other one is the group separator. Input that fits neither reading, such as
// "1.234,56" under '.', is rejected rather than guessed.
func ParsePriceWith(s string, decimalSep rune) (decimal.Decimal, bool) {
	groupSep := ','
	switch decimalSep {
	case '.':
	case ',':
		groupSep = '.'
	default:
		return decimal.Zero, false
	}

	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return decimal.Zero, false
	}
	token := s[start:]
	if end := strings.IndexFunc(token, func(r rune) bool {
		return (r < '0' || r > '9') && r != '.' && r != ','
	}); end >= 0 {
		token = token[:end]
	}
	token = strings.TrimRight(token, ".,")

	intPart, frac, hasFrac := strings.Cut(token, string(decimalSep))
	if hasFrac && strings.ContainsAny(frac, ".,") {
		return decimal.Zero, false
	}
	groups := strings.Split(intPart, string(groupSep))
	for i, g := range groups {
		if g == "" || (i == 0 && len(g) > 3 && len(groups) > 1) || (i > 0 && len(g) != 3) {
			return decimal.Zero, false
		}
	}

	num := strings.Join(groups, "")
	if hasFrac {
		num += "." + frac
	}
	price, err := decimal.NewFromString(num)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, false
	}
	return price, true
}
