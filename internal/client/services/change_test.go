package services

import (
	"testing"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateChange(t *testing.T) {
	tests := []struct {
		name    string
		cur     string
		prev    string
		amount  string
		percent string
		dir     models.Direction
	}{
		{"up", "1,310.00", "1,300.00", "10", "0.77", models.DirectionUp},
		{"down", "1,290.00", "1,300.00", "-10", "-0.77", models.DirectionDown},
		{"same", "1,300.00", "1,300.00", "0", "0", models.DirectionSame},
		{"missing current", "", "1,300.00", "0", "0", models.DirectionSame},
		{"missing previous", "1,300.00", "", "0", "0", models.DirectionSame},
		{"garbage", "n/a", "1,300.00", "0", "0", models.DirectionSame},
		{"zero previous", "5", "0", "5", "0", models.DirectionUp},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := CalculateChange(tt.cur, tt.prev)
			assert.True(t, c.Amount.Equal(decimal.RequireFromString(tt.amount)), c.Amount.String())
			assert.True(t, c.Percent.Equal(decimal.RequireFromString(tt.percent)), c.Percent.String())
			assert.Equal(t, tt.dir, c.Direction)
		})
	}
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "71,500", FormatPrice(71500, true))
	assert.Equal(t, "-", FormatPrice(71500, false))
	assert.Equal(t, "+1,200", FormatPriceChange(1200, true))
	assert.Equal(t, "-300", FormatPriceChange(-300, true))
	assert.Equal(t, "0", FormatPriceChange(0, true))
	assert.Equal(t, "-", FormatPriceChange(0, false))

	assert.Equal(t, "+1.25%", FormatChangeRate(decimal.RequireFromString("1.25"), true))
	assert.Equal(t, "-0.42%", FormatChangeRate(decimal.RequireFromString("-0.42"), true))
	assert.Equal(t, "0.00%", FormatChangeRate(decimal.Zero, true))
	assert.Equal(t, "-", FormatChangeRate(decimal.Zero, false))

	assert.Equal(t, "1,300.50", FormatRate(decimal.RequireFromString("1300.5")))
	assert.Equal(t, "912.35", FormatRate(decimal.RequireFromString("912.345")))
	assert.Equal(t, "-0.50", FormatRate(decimal.RequireFromString("-0.5")))
}
