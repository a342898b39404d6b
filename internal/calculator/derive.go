package calculator

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

// ErrNoSpot is returned when no spot price can be derived from a snapshot.
var ErrNoSpot = errors.New("no spot price")

// Params configures Derive.
type Params struct {
	ShortWindow   int
	LongWindow    int
	DipPercentage decimal.Decimal // 0.05 means 5% below the short average
}

// Derive computes the per-gram metrics for a snapshot. Averages are taken over
// the USD per ounce closes and converted with the current rate.
func Derive(snap *model.MarketSnapshot, p Params) (model.DerivedMetrics, error) {
	if snap == nil || len(snap.History) == 0 {
		return model.DerivedMetrics{}, fmt.Errorf("%w: empty price history", ErrNoSpot)
	}
	if !snap.Rate.Rate.IsPositive() {
		return model.DerivedMetrics{}, fmt.Errorf("%w: invalid rate %s for %s", ErrNoSpot, snap.Rate.Rate, snap.Rate.Pair)
	}
	if !snap.SecondaryRate.Rate.IsPositive() {
		return model.DerivedMetrics{}, fmt.Errorf("%w: invalid rate %s for %s", ErrNoSpot, snap.SecondaryRate.Rate, snap.SecondaryRate.Pair)
	}

	spotUSD := snap.History[len(snap.History)-1].Close
	short := nullToLocalPerGram(MovingAverage(snap.History, p.ShortWindow), snap.Rate.Rate)

	return model.DerivedMetrics{
		SpotLocal:      ToLocalPerGram(spotUSD, snap.Rate.Rate),
		SpotSecondary:  ToLocalPerGram(spotUSD, snap.SecondaryRate.Rate),
		MovingAvgShort: short,
		MovingAvgLong:  nullToLocalPerGram(MovingAverage(snap.History, p.LongWindow), snap.Rate.Rate),
		DipTargetLocal: DipTarget(short, p.DipPercentage),
	}, nil
}
