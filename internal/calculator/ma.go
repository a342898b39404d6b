package calculator

import (
	"errors"

	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

// CalculateSMA computes the simple moving average of the given values over the specified period.
func CalculateSMA(values []decimal.Decimal, period int) (decimal.Decimal, error) {
	if period <= 0 {
		return decimal.Zero, errors.New("period must be positive")
	}
	if len(values) < period {
		return decimal.Zero, errors.New("not enough data for SMA calculation")
	}
	sum := decimal.Zero
	for i := len(values) - period; i < len(values); i++ {
		sum = sum.Add(values[i])
	}
	return sum.Div(decimal.NewFromInt(int64(period))), nil
}

// MovingAverage returns the SMA of the trailing window closes, or an invalid
// value when the series is shorter than the window.
func MovingAverage(samples []model.PriceSample, window int) decimal.NullDecimal {
	avg, err := CalculateSMA(extractCloses(samples), window)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(avg)
}

// DipTarget is avg * (1 - dip). Unavailable averages stay unavailable.
func DipTarget(avg decimal.NullDecimal, dip decimal.Decimal) decimal.NullDecimal {
	if !avg.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(avg.Decimal.Mul(decimal.NewFromInt(1).Sub(dip)))
}

func extractCloses(samples []model.PriceSample) []decimal.Decimal {
	closes := make([]decimal.Decimal, len(samples))
	for i, s := range samples {
		closes[i] = s.Close
	}
	return closes
}
