package calculator

import "github.com/shopspring/decimal"

// FormatMoney renders two decimal places, rounding half away from zero.
// Every rendered figure goes through this function.
func FormatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSigned renders two decimal places with an explicit sign.
func FormatSigned(d decimal.Decimal) string {
	r := d.Round(2)
	if r.Sign() < 0 {
		return "-" + r.Abs().StringFixed(2)
	}
	return "+" + r.StringFixed(2)
}
