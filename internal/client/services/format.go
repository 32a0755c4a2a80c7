package services

import (
	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// Placeholder is shown in place of a value that could not be loaded.
const Placeholder = "-"

// FormatPrice renders a price with thousands separators.
func FormatPrice(price int64, ok bool) string {
	if !ok {
		return Placeholder
	}
	return humanize.Comma(price)
}

// FormatPriceChange renders a signed price movement, e.g. "+1,200".
func FormatPriceChange(change int64, ok bool) string {
	if !ok {
		return Placeholder
	}
	if change > 0 {
		return "+" + humanize.Comma(change)
	}
	return humanize.Comma(change)
}

// FormatChangeRate renders a signed percentage with 2 decimals, e.g. "+1.25%".
func FormatChangeRate(rate decimal.Decimal, ok bool) string {
	if !ok {
		return Placeholder
	}
	s := rate.StringFixed(2) + "%"
	if rate.IsPositive() {
		return "+" + s
	}
	return s
}

// FormatRate renders a currency rate with separators and 2 decimals.
func FormatRate(rate decimal.Decimal) string {
	r := rate.Round(2)
	whole := r.Truncate(0)
	frac := r.Sub(whole).Abs().StringFixed(2)[1:]
	sign := ""
	if r.IsNegative() && whole.IsZero() {
		sign = "-"
	}
	return sign + humanize.Comma(whole.IntPart()) + frac
}
