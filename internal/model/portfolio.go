package model

import "github.com/shopspring/decimal"

// HoldingsLot is a recorded purchase.
type HoldingsLot struct {
	Grams          decimal.Decimal
	PricePaidLocal decimal.Decimal // per gram
}

// PortfolioSummary aggregates all lots against the current spot price.
type PortfolioSummary struct {
	TotalGrams        decimal.Decimal
	TotalCost         decimal.Decimal
	AvgCostLocal      decimal.Decimal
	CurrentValueLocal decimal.Decimal
	ProfitLossLocal   decimal.Decimal
	ProfitLossPercent decimal.Decimal
}
