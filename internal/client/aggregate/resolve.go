package aggregate

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
)

// ResolveByDate calls lookup for date, then for each previous calendar day,
// until it returns a non-empty value or lookback earlier days have also come
// back empty. At most lookback+1 calls are made. It returns the value and
// the date that produced it.
//
// Exhausting the budget yields an error wrapping common.ErrNotFound. A lookup
// error is a whole-request failure and is returned at once.
func ResolveByDate[T any](
	ctx context.Context,
	date time.Time,
	lookback int,
	lookup func(ctx context.Context, day time.Time) (T, error),
	empty func(T) bool,
) (T, time.Time, error) {
	var zero T
	day := timex.Day(date)

	for i := 0; i <= lookback; i++ {
		if err := ctx.Err(); err != nil {
			return zero, time.Time{}, err
		}

		v, err := lookup(ctx, day)
		if err != nil {
			return zero, time.Time{}, fmt.Errorf("lookup %s: %w", timex.FormatDate(day), err)
		}
		if !empty(v) {
			return v, day, nil
		}
		day = timex.AddDays(day, -1)
	}

	return zero, time.Time{}, fmt.Errorf("%w: no data from %s back %d days",
		common.ErrNotFound, timex.FormatDate(date), lookback)
}
