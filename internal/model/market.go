package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSample is a single daily close.
type PriceSample struct {
	Time  time.Time
	Close decimal.Decimal
}

// RateSnapshot is the most recent value of a currency pair, e.g. "USD/AUD".
type RateSnapshot struct {
	Pair string
	Rate decimal.Decimal
}

// MarketSnapshot holds everything fetched from the market data source for one run.
type MarketSnapshot struct {
	Symbol        string
	History       []PriceSample // oldest first
	Rate          RateSnapshot  // USD -> local currency
	SecondaryRate RateSnapshot  // USD -> secondary display currency
	FetchedAt     time.Time
}

// DerivedMetrics are computed once per run from a MarketSnapshot.
// All prices are per gram.
type DerivedMetrics struct {
	SpotLocal      decimal.Decimal
	SpotSecondary  decimal.Decimal
	MovingAvgShort decimal.NullDecimal
	MovingAvgLong  decimal.NullDecimal
	DipTargetLocal decimal.NullDecimal
}
