package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one currency's quote in a rate snapshot.
type Rate struct {
	CurrencyCode string
	CurrencyName string
	BaseRate     decimal.Decimal
	BuyRate      decimal.Decimal
	SellRate     decimal.Decimal
}

// RateSnapshot is every currency quoted on one date. An empty Rates means
// the provider had no trading day for Date.
type RateSnapshot struct {
	Date  time.Time
	Rates []Rate
}

func (s RateSnapshot) Empty() bool {
	return len(s.Rates) == 0
}

// Find returns the rate for an exact currency unit such as "USD" or "JPY(100)".
func (s RateSnapshot) Find(code string) (Rate, bool) {
	for _, r := range s.Rates {
		if r.CurrencyCode == code {
			return r, true
		}
	}
	return Rate{}, false
}

type SeriesPoint struct {
	Date time.Time
	Rate decimal.Decimal
}

type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
	DirectionSame Direction = "same"
)

// Change is a day-over-day movement. Percent is rounded to 2 places.
type Change struct {
	Amount    decimal.Decimal
	Percent   decimal.Decimal
	Direction Direction
}
