package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

// ErrDataUnavailable is returned for every fetch failure.
var ErrDataUnavailable = model.ErrDataUnavailable

// MockSource returns controllable fixed data for development and testing.
type MockSource struct {
	Price   decimal.Decimal // USD per troy ounce
	History []model.PriceSample
	Rates   map[string]decimal.Decimal
	Err     error
}

func (m *MockSource) Name() string { return "mock" }

func (m *MockSource) FetchHistory(_ context.Context, _ string, days int) ([]model.PriceSample, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.History != nil {
		return m.History, nil
	}
	if days <= 0 {
		return nil, fmt.Errorf("mock: lookback must be positive, got %d", days)
	}
	return generateMockSamples(m.Price, days), nil
}

func (m *MockSource) FetchLatestRate(_ context.Context, pair string) (model.RateSnapshot, error) {
	if m.Err != nil {
		return model.RateSnapshot{}, m.Err
	}
	rate, ok := m.Rates[pair]
	if !ok {
		return model.RateSnapshot{}, fmt.Errorf("mock: no rate for %s", pair)
	}
	return model.RateSnapshot{Pair: pair, Rate: rate}, nil
}

func generateMockSamples(basePrice decimal.Decimal, count int) []model.PriceSample {
	samples := make([]model.PriceSample, count)
	step := decimal.RequireFromString("0.001")
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		factor := decimal.NewFromInt(1).Add(step.Mul(decimal.NewFromInt(int64(i - count/2))))
		samples[i] = model.PriceSample{
			Time:  now.AddDate(0, 0, -(count - i)),
			Close: basePrice.Mul(factor),
		}
	}
	return samples
}

// Collector fetches the gold history and both exchange rates for one run.
type Collector struct {
	Source        Source
	Symbol        string
	LookbackDays  int
	Pair          string // e.g. "USD/AUD"
	SecondaryPair string // e.g. "USD/CNY"
	Now           func() time.Time
}

// NewCollector creates a new Collector.
func NewCollector(source Source, symbol string, lookbackDays int, pair, secondaryPair string) *Collector {
	return &Collector{
		Source:        source,
		Symbol:        symbol,
		LookbackDays:  lookbackDays,
		Pair:          pair,
		SecondaryPair: secondaryPair,
		Now:           time.Now,
	}
}

// Collect fetches market data. Every failure is reported as ErrDataUnavailable.
func (c *Collector) Collect(ctx context.Context) (*model.MarketSnapshot, error) {
	if c.LookbackDays <= 0 {
		return nil, fmt.Errorf("%w: lookback must be positive, got %d", ErrDataUnavailable, c.LookbackDays)
	}
	history, err := c.Source.FetchHistory(ctx, c.Symbol, c.LookbackDays)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch history from %s: %w", ErrDataUnavailable, c.Source.Name(), err)
	}
	if len(history) == 0 {
		return nil, fmt.Errorf("%w: empty history for %s", ErrDataUnavailable, c.Symbol)
	}

	rate, err := c.fetchRate(ctx, c.Pair)
	if err != nil {
		return nil, err
	}
	secondary, err := c.fetchRate(ctx, c.SecondaryPair)
	if err != nil {
		return nil, err
	}

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return &model.MarketSnapshot{
		Symbol:        c.Symbol,
		History:       history,
		Rate:          rate,
		SecondaryRate: secondary,
		FetchedAt:     now(),
	}, nil
}

func (c *Collector) fetchRate(ctx context.Context, pair string) (model.RateSnapshot, error) {
	rate, err := c.Source.FetchLatestRate(ctx, pair)
	if err != nil {
		return model.RateSnapshot{}, fmt.Errorf("%w: fetch rate %s: %w", ErrDataUnavailable, pair, err)
	}
	if !rate.Rate.IsPositive() {
		return model.RateSnapshot{}, fmt.Errorf("%w: non-positive rate %s for %s", ErrDataUnavailable, rate.Rate, pair)
	}
	return rate, nil
}
