package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/shopspring/decimal"
)

// MaxHistoryDays bounds History. Each day is one paced provider call.
const MaxHistoryDays = 90

// RateSource returns the snapshot for one date; an empty snapshot means no
// trading on that date.
type RateSource interface {
	Rates(ctx context.Context, date time.Time) (models.RateSnapshot, error)
}

// RateRow is one currency on the rate board. Compared is false when the
// previous snapshot could not be resolved or did not quote the currency.
type RateRow struct {
	Rate     models.Rate
	Change   models.Change
	Compared bool
}

// RateBoard is the latest snapshot with day-over-day changes.
type RateBoard struct {
	Date     time.Time
	Previous time.Time
	Rows     []RateRow
}

// ExchangeService exposes currency rates.
//
//   - Latest: the snapshot for date, falling back to earlier days.
//   - Board: Latest plus the change against the previous trading day.
//   - History: one base-rate point per day for a currency.
//   - SelectHistory: History for an interactive selection; a newer call
//     cancels and supersedes an older one, which then returns
//     aggregate.ErrStale.
type ExchangeService interface {
	Latest(ctx context.Context, date time.Time) (models.RateSnapshot, error)
	Board(ctx context.Context, date time.Time) (*RateBoard, error)
	History(ctx context.Context, currency string, days int) ([]models.SeriesPoint, error)
	SelectHistory(ctx context.Context, currency string, days int) ([]models.SeriesPoint, error)
}

type ExchangeOptions struct {
	Lookback    int
	HistoryDays int
	RPS         float64
	Burst       int
	Clock       timex.Clock
	Logger      logging.Logger
}

type exchangeService struct {
	src      RateSource
	lookback int
	days     int
	clock    timex.Clock
	series   *aggregate.SeriesBuilder
	log      logging.Logger
	selected selection
}

func NewExchangeService(src RateSource, opts ExchangeOptions) ExchangeService {
	log := opts.Logger
	if log == nil {
		log = logging.Discard()
	}
	if opts.HistoryDays <= 0 {
		opts.HistoryDays = 30
	}
	if opts.RPS <= 0 {
		opts.RPS = 5
	}
	return &exchangeService{
		src:      src,
		lookback: opts.Lookback,
		days:     opts.HistoryDays,
		clock:    opts.Clock,
		series:   aggregate.NewSeriesBuilder(opts.RPS, opts.Burst, opts.Clock, log),
		log:      log.With("service", "exchange"),
	}
}

// Latest resolves the snapshot for date, or for today when date is zero.
func (s *exchangeService) Latest(ctx context.Context, date time.Time) (models.RateSnapshot, error) {
	if date.IsZero() {
		date = s.clock.Now()
	}
	snap, _, err := aggregate.ResolveByDate(ctx, date, s.lookback, s.src.Rates, models.RateSnapshot.Empty)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	return snap, nil
}

func (s *exchangeService) Board(ctx context.Context, date time.Time) (*RateBoard, error) {
	cur, err := s.Latest(ctx, date)
	if err != nil {
		return nil, err
	}

	board := &RateBoard{Date: cur.Date, Rows: make([]RateRow, len(cur.Rates))}
	for i, r := range cur.Rates {
		board.Rows[i] = RateRow{Rate: r, Change: noChange()}
	}

	prev, err := s.Latest(ctx, timex.AddDays(cur.Date, -1))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		s.log.Warn(ctx, "previous rates unavailable, board shows no change", "date", timex.FormatDate(cur.Date), "err", err)
		return board, nil
	}

	board.Previous = prev.Date
	for i, r := range cur.Rates {
		p, ok := prev.Find(r.CurrencyCode)
		if !ok {
			continue
		}
		board.Rows[i].Change = ChangeBetween(r.BaseRate, p.BaseRate)
		board.Rows[i].Compared = true
	}
	return board, nil
}

// History returns up to days points for currency, oldest first. Days
// without a quote are left out. days <= 0 means the configured default;
// more than MaxHistoryDays is rejected.
func (s *exchangeService) History(ctx context.Context, currency string, days int) ([]models.SeriesPoint, error) {
	if currency == "" {
		return nil, validationError("currency is required")
	}
	if days <= 0 {
		days = s.days
	}
	if days > MaxHistoryDays {
		return nil, validationError(fmt.Sprintf("history is limited to %d days", MaxHistoryDays))
	}

	return s.series.Build(ctx, days, func(ctx context.Context, day time.Time) (decimal.Decimal, bool, error) {
		snap, err := s.src.Rates(ctx, day)
		if err != nil {
			return decimal.Decimal{}, false, err
		}
		r, ok := snap.Find(currency)
		if !ok {
			return decimal.Decimal{}, false, nil
		}
		return r.BaseRate, true, nil
	})
}

func (s *exchangeService) SelectHistory(ctx context.Context, currency string, days int) ([]models.SeriesPoint, error) {
	ctx, ticket, cancel := s.selected.start(ctx)
	defer cancel()

	points, err := s.History(ctx, currency, days)
	if !s.selected.current(ticket) {
		s.log.Debug(ctx, "history superseded", "currency", currency, "days", days)
		return nil, aggregate.ErrStale
	}
	return points, err
}
