package services

import (
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/providers"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CalculateChange compares two provider-formatted amounts such as
// "1,300.00". A missing or unparseable side yields a zero "same" change.
func CalculateChange(current, previous string) models.Change {
	if strings.TrimSpace(current) == "" || strings.TrimSpace(previous) == "" {
		return noChange()
	}
	cur, err := providers.ParseAmount(current)
	if err != nil {
		return noChange()
	}
	prev, err := providers.ParseAmount(previous)
	if err != nil {
		return noChange()
	}
	return ChangeBetween(cur, prev)
}

// ChangeBetween computes the movement from prev to cur. Amount and Percent
// are rounded to 2 places; Percent is zero when prev is zero.
func ChangeBetween(cur, prev decimal.Decimal) models.Change {
	amount := cur.Sub(prev)

	pct := decimal.Zero
	if !prev.IsZero() {
		pct = amount.Div(prev).Mul(hundred).Round(2)
	}

	dir := models.DirectionSame
	switch amount.Sign() {
	case 1:
		dir = models.DirectionUp
	case -1:
		dir = models.DirectionDown
	}

	return models.Change{Amount: amount.Round(2), Percent: pct, Direction: dir}
}

func noChange() models.Change {
	return models.Change{Amount: decimal.Zero, Percent: decimal.Zero, Direction: models.DirectionSame}
}
