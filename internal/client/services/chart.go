package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/providers"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/shopspring/decimal"
)

// DefaultChartPeriod is used for any period other than 30, 60 or 90 days.
const DefaultChartPeriod = 30

// ChartPeriods are the supported chart lengths in calendar days.
var ChartPeriods = []int{30, 60, 90}

// PriceSource returns daily prices for a stock code, newest first.
type PriceSource interface {
	Prices(ctx context.Context, code string, begin, end time.Time, rows int) ([]providers.StockPrice, error)
}

// StockChart is the daily closing series of one stock.
type StockChart struct {
	StockCode string
	Period    int
	Points    []models.Quote // oldest first
	Low       int64
	High      int64
	Change    models.Change // first close to last close
}

// ChartService draws price charts for favorites. SelectChart behaves like
// ExchangeService.SelectHistory: a newer call cancels an older one, which
// then returns aggregate.ErrStale.
type ChartService interface {
	Chart(ctx context.Context, stockCode string, period int) (*StockChart, error)
	SelectChart(ctx context.Context, stockCode string, period int) (*StockChart, error)
}

type chartService struct {
	src      PriceSource
	clock    timex.Clock
	log      logging.Logger
	selected selection
}

func NewChartService(src PriceSource, clock timex.Clock, log logging.Logger) ChartService {
	if log == nil {
		log = logging.Discard()
	}
	return &chartService{src: src, clock: clock, log: log.With("service", "chart")}
}

// NormalizePeriod maps period onto ChartPeriods.
func NormalizePeriod(period int) int {
	for _, p := range ChartPeriods {
		if p == period {
			return p
		}
	}
	return DefaultChartPeriod
}

func (s *chartService) Chart(ctx context.Context, stockCode string, period int) (*StockChart, error) {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return nil, validationError("stock code is required")
	}
	if p := NormalizePeriod(period); p != period {
		s.log.Debug(ctx, "unsupported chart period, using default", "period", period, "default", p)
		period = p
	}

	end := timex.Day(s.clock.Now())
	begin := timex.AddDays(end, -period)
	prices, err := s.src.Prices(ctx, stockCode, begin, end, period)
	if err != nil {
		return nil, err
	}

	chart := &StockChart{StockCode: stockCode, Period: period, Points: make([]models.Quote, 0, len(prices))}
	for i := len(prices) - 1; i >= 0; i-- {
		q, err := prices[i].Quote()
		if err != nil {
			s.log.Warn(ctx, "skipping price row", "stock_code", stockCode, "date", prices[i].BaseDate, "err", err)
			continue
		}
		chart.Points = append(chart.Points, q)
	}
	if len(chart.Points) == 0 {
		return nil, fmt.Errorf("%w: no prices for %s in the last %d days", common.ErrNotFound, stockCode, period)
	}

	first, last := chart.Points[0], chart.Points[len(chart.Points)-1]
	chart.Low, chart.High = first.CurrentPrice, first.CurrentPrice
	for _, q := range chart.Points[1:] {
		chart.Low = min(chart.Low, q.CurrentPrice)
		chart.High = max(chart.High, q.CurrentPrice)
	}
	chart.Change = ChangeBetween(decimal.NewFromInt(last.CurrentPrice), decimal.NewFromInt(first.CurrentPrice))
	return chart, nil
}

func (s *chartService) SelectChart(ctx context.Context, stockCode string, period int) (*StockChart, error) {
	ctx, ticket, cancel := s.selected.start(ctx)
	defer cancel()

	chart, err := s.Chart(ctx, stockCode, period)
	if !s.selected.current(ticket) {
		s.log.Debug(ctx, "chart superseded", "stock_code", stockCode, "period", period)
		return nil, aggregate.ErrStale
	}
	return chart, err
}
