package aggregate

import (
	"context"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

// PointLookup returns the value for one day. ok=false means the upstream
// had nothing for that day.
type PointLookup func(ctx context.Context, day time.Time) (value decimal.Decimal, ok bool, err error)

// SeriesBuilder issues per-day lookups one at a time, each waiting on a
// shared token bucket so a rate-limited provider never sees a burst.
type SeriesBuilder struct {
	limiter *rate.Limiter
	clock   timex.Clock
	log     logging.Logger
}

// NewSeriesBuilder paces lookups at rps with the given burst. A nil clock
// means time.Now.
func NewSeriesBuilder(rps float64, burst int, clock timex.Clock, log logging.Logger) *SeriesBuilder {
	if log == nil {
		log = logging.Discard()
	}
	if burst < 1 {
		burst = 1
	}
	return &SeriesBuilder{
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		clock:   clock,
		log:     log.With("component", "series"),
	}
}

// Build looks up the last days days ending today, oldest first. Days that
// fail or come back empty are logged and left out; the result is ascending
// by date and at most days long. Only cancellation of ctx stops the walk
// early, in which case the points gathered so far are returned with the
// context's error.
func (b *SeriesBuilder) Build(ctx context.Context, days int, lookup PointLookup) ([]models.SeriesPoint, error) {
	if days <= 0 {
		return nil, nil
	}

	today := timex.Day(b.clock.Now())
	points := make([]models.SeriesPoint, 0, days)
	skipped := 0

	for i := days - 1; i >= 0; i-- {
		if err := b.limiter.Wait(ctx); err != nil {
			return points, err
		}

		day := timex.AddDays(today, -i)
		v, ok, err := lookup(ctx, day)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return points, ctxErr
		}
		switch {
		case err != nil:
			skipped++
			b.log.Warn(ctx, "series day failed, skipping", "date", timex.FormatDate(day), "err", err)
		case !ok:
			skipped++
			b.log.Debug(ctx, "series day empty, skipping", "date", timex.FormatDate(day))
		default:
			points = append(points, models.SeriesPoint{Date: day, Rate: v})
		}
	}

	b.log.Debug(ctx, "series built", "days", days, "points", len(points), "skipped", skipped)
	return points, nil
}
