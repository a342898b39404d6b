package calculator

import (
	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

// OunceToGrams is the number of grams in one troy ounce.
var OunceToGrams = decimal.RequireFromString("31.1034768")

// ToLocalPerGram converts a USD per troy ounce price into local currency per gram.
func ToLocalPerGram(usdPerOunce, rate decimal.Decimal) decimal.Decimal {
	return usdPerOunce.Mul(rate).Div(OunceToGrams)
}

// nullToLocalPerGram converts an optional per-ounce value.
func nullToLocalPerGram(v decimal.NullDecimal, rate decimal.Decimal) decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(ToLocalPerGram(v.Decimal, rate))
}

// ConvertSamples returns a copy of samples with every close converted to local currency per gram.
func ConvertSamples(samples []model.PriceSample, rate decimal.Decimal) []model.PriceSample {
	out := make([]model.PriceSample, len(samples))
	for i, s := range samples {
		out[i] = model.PriceSample{Time: s.Time, Close: ToLocalPerGram(s.Close, rate)}
	}
	return out
}
