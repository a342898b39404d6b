package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is appended to the ledger once per run.
type LedgerRow struct {
	Time           time.Time
	SpotLocal      decimal.Decimal
	SpotSecondary  decimal.Decimal
	MovingAvgShort decimal.NullDecimal
	MovingAvgLong  decimal.NullDecimal
	Retail         RetailResult
}
