package aggregate

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBuilder(now time.Time) *SeriesBuilder {
	return NewSeriesBuilder(1000, 100, timex.Fixed(now), nil)
}

func TestSeriesBuilder_AscendingWithGaps(t *testing.T) {
	b := newTestBuilder(day("20240110"))

	var order []string
	lookup := func(_ context.Context, d time.Time) (decimal.Decimal, bool, error) {
		s := timex.FormatDate(d)
		order = append(order, s)
		switch s {
		case "20240106", "20240107":
			return decimal.Decimal{}, false, nil
		case "20240108":
			return decimal.Decimal{}, false, errors.New("timeout")
		}
		return decimal.NewFromInt(int64(d.Day())), true, nil
	}

	points, err := b.Build(context.Background(), 7, lookup)
	require.NoError(t, err)

	assert.Equal(t, []string{"20240104", "20240105", "20240106", "20240107", "20240108", "20240109", "20240110"}, order)
	require.Len(t, points, 4)
	var dates []string
	for _, p := range points {
		dates = append(dates, timex.FormatDate(p.Date))
	}
	assert.Equal(t, []string{"20240104", "20240105", "20240109", "20240110"}, dates)
	assert.True(t, points[3].Rate.Equal(decimal.NewFromInt(10)))
}

func TestSeriesBuilder_AllFailYieldsEmpty(t *testing.T) {
	b := newTestBuilder(day("20240110"))
	var calls atomic.Int32
	lookup := func(context.Context, time.Time) (decimal.Decimal, bool, error) {
		calls.Add(1)
		return decimal.Decimal{}, false, errors.New("down")
	}

	points, err := b.Build(context.Background(), 30, lookup)
	require.NoError(t, err)
	assert.Empty(t, points)
	assert.Equal(t, int32(30), calls.Load())
}

func TestSeriesBuilder_NoDays(t *testing.T) {
	b := newTestBuilder(day("20240110"))
	points, err := b.Build(context.Background(), 0, nil)
	require.NoError(t, err)
	assert.Nil(t, points)
}

func TestSeriesBuilder_StopsOnCancel(t *testing.T) {
	b := newTestBuilder(day("20240110"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := 0
	lookup := func(context.Context, time.Time) (decimal.Decimal, bool, error) {
		calls++
		if calls == 3 {
			cancel()
		}
		return decimal.NewFromInt(1), true, nil
	}

	points, err := b.Build(ctx, 10, lookup)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, points, 2)
	assert.Equal(t, 3, calls)
}

func TestSeriesBuilder_IsSequential(t *testing.T) {
	b := newTestBuilder(day("20240110"))
	var inFlight, peak atomic.Int32
	lookup := func(context.Context, time.Time) (decimal.Decimal, bool, error) {
		n := inFlight.Add(1)
		if n > peak.Load() {
			peak.Store(n)
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		return decimal.NewFromInt(1), true, nil
	}

	_, err := b.Build(context.Background(), 5, lookup)
	require.NoError(t, err)
	assert.Equal(t, int32(1), peak.Load())
}
