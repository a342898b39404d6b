package portfolio

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldSentinel/internal/calculator"
	"GoldSentinel/internal/model"
)

func lot(grams, price string) model.HoldingsLot {
	return model.HoldingsLot{
		Grams:          decimal.RequireFromString(grams),
		PricePaidLocal: decimal.RequireFromString(price),
	}
}

func TestSummarize_TwoLots(t *testing.T) {
	s := Summarize([]model.HoldingsLot{lot("10", "100"), lot("5", "110")}, decimal.NewFromInt(120))
	require.NotNil(t, s)

	assert.Equal(t, "15.00", calculator.FormatMoney(s.TotalGrams))
	assert.Equal(t, "1550.00", calculator.FormatMoney(s.TotalCost))
	assert.Equal(t, "103.33", calculator.FormatMoney(s.AvgCostLocal))
	assert.Equal(t, "1800.00", calculator.FormatMoney(s.CurrentValueLocal))
	assert.Equal(t, "+250.00", calculator.FormatSigned(s.ProfitLossLocal))
	assert.Equal(t, "+16.13", calculator.FormatSigned(s.ProfitLossPercent))
}

func TestSummarize_Loss(t *testing.T) {
	s := Summarize([]model.HoldingsLot{lot("10", "150")}, decimal.NewFromInt(120))
	require.NotNil(t, s)
	assert.Equal(t, "-300.00", calculator.FormatSigned(s.ProfitLossLocal))
	assert.Equal(t, "-20.00", calculator.FormatSigned(s.ProfitLossPercent))
}

func TestSummarize_Absent(t *testing.T) {
	spot := decimal.NewFromInt(120)
	assert.Nil(t, Summarize(nil, spot))
	assert.Nil(t, Summarize([]model.HoldingsLot{}, spot))
	assert.Nil(t, Summarize([]model.HoldingsLot{lot("0", "100")}, spot), "zero grams is malformed")
	assert.Nil(t, Summarize([]model.HoldingsLot{lot("5", "0")}, spot), "zero cost basis is meaningless")
	assert.Nil(t, Summarize([]model.HoldingsLot{lot("5", "100"), lot("-5", "100")}, spot))
}
