package model

import "github.com/shopspring/decimal"

// StatusKind is the tag of a TradingStatus.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusOpen
	StatusClosedWeekly
	StatusClosedHoliday
)

func (k StatusKind) String() string {
	switch k {
	case StatusOpen:
		return "OPEN"
	case StatusClosedWeekly:
		return "CLOSED_WEEKLY"
	case StatusClosedHoliday:
		return "CLOSED_HOLIDAY"
	default:
		return "UNKNOWN"
	}
}

// TradingStatus is the store's trading state for a given day.
// Detail is the hours note for Open, the weekday name for ClosedWeekly
// and the holiday name for ClosedHoliday.
type TradingStatus struct {
	Kind   StatusKind
	Detail string
}

// Open returns an open status with an hours note.
func Open(note string) TradingStatus {
	return TradingStatus{Kind: StatusOpen, Detail: note}
}

// ClosedWeekly returns a closed status for a regular non-trading weekday.
func ClosedWeekly(day string) TradingStatus {
	return TradingStatus{Kind: StatusClosedWeekly, Detail: day}
}

// ClosedHoliday returns a closed status for a named holiday.
func ClosedHoliday(name string) TradingStatus {
	return TradingStatus{Kind: StatusClosedHoliday, Detail: name}
}

// UnknownStatus is returned when no calendar data covers the date.
func UnknownStatus() TradingStatus {
	return TradingStatus{Kind: StatusUnknown}
}

// IsClosed reports whether the status is one of the closed variants.
func (s TradingStatus) IsClosed() bool {
	return s.Kind == StatusClosedWeekly || s.Kind == StatusClosedHoliday
}

// RetailKind is the tag of a RetailResult.
type RetailKind int

const (
	RetailUnavailable RetailKind = iota
	RetailPrice
	RetailStoreClosed
)

func (k RetailKind) String() string {
	switch k {
	case RetailPrice:
		return "PRICE"
	case RetailStoreClosed:
		return "STORE_CLOSED"
	default:
		return "UNAVAILABLE"
	}
}

// RetailResult is the outcome of a retail page scrape.
type RetailResult struct {
	Kind  RetailKind
	Price decimal.Decimal
}

func RetailPriceOf(p decimal.Decimal) RetailResult { return RetailResult{Kind: RetailPrice, Price: p} }
func RetailNotAvailable() RetailResult             { return RetailResult{Kind: RetailUnavailable} }
func RetailClosed() RetailResult                   { return RetailResult{Kind: RetailStoreClosed} }
