// Package portfolio reduces recorded holdings lots into a cost-basis and profit/loss summary.
package portfolio

import (
	"github.com/shopspring/decimal"

	"GoldSentinel/internal/model"
)

var hundred = decimal.NewFromInt(100)

// Summarize aggregates lots against the current spot price (local currency per gram).
// It returns nil when there is nothing meaningful to report: no lots, zero total
// grams or zero total cost.
func Summarize(lots []model.HoldingsLot, spotLocal decimal.Decimal) *model.PortfolioSummary {
	if len(lots) == 0 {
		return nil
	}

	totalGrams := decimal.Zero
	totalCost := decimal.Zero
	for _, lot := range lots {
		totalGrams = totalGrams.Add(lot.Grams)
		totalCost = totalCost.Add(lot.Grams.Mul(lot.PricePaidLocal))
	}
	if totalGrams.IsZero() || totalCost.IsZero() {
		return nil
	}

	currentValue := totalGrams.Mul(spotLocal)
	profitLoss := currentValue.Sub(totalCost)

	return &model.PortfolioSummary{
		TotalGrams:        totalGrams,
		TotalCost:         totalCost,
		AvgCostLocal:      totalCost.Div(totalGrams),
		CurrentValueLocal: currentValue,
		ProfitLossLocal:   profitLoss,
		ProfitLossPercent: profitLoss.Div(totalCost).Mul(hundred),
	}
}
