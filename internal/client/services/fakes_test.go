package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/shopspring/decimal"
)

// ---- rates ----

type fakeRates struct {
	mu    sync.Mutex
	data  map[string][]models.Rate
	fail  map[string]error
	calls []string
	block chan struct{}
}

func (f *fakeRates) Rates(ctx context.Context, date time.Time) (models.RateSnapshot, error) {
	key := timex.FormatDate(date)
	f.mu.Lock()
	f.calls = append(f.calls, key)
	block := f.block
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return models.RateSnapshot{}, ctx.Err()
		}
	}
	if err := f.fail[key]; err != nil {
		return models.RateSnapshot{}, err
	}
	return models.RateSnapshot{Date: date, Rates: f.data[key]}, nil
}

func (f *fakeRates) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func usd(rate string) models.Rate {
	return models.Rate{CurrencyCode: "USD", CurrencyName: "US Dollar", BaseRate: decimal.RequireFromString(rate)}
}

func jpy(rate string) models.Rate {
	return models.Rate{CurrencyCode: "JPY(100)", BaseRate: decimal.RequireFromString(rate)}
}

// ---- favorites ----

type fakeFavorites struct {
	list    []models.Favorite
	listErr error

	added   []string
	removed []string
}

func (f *fakeFavorites) ListFavorites(context.Context) ([]models.Favorite, error) {
	return f.list, f.listErr
}

func (f *fakeFavorites) AddFavorite(_ context.Context, code, name string) (*models.Favorite, error) {
	f.added = append(f.added, code+"|"+name)
	return &models.Favorite{StockCode: code, CompanyName: name}, nil
}

func (f *fakeFavorites) RemoveFavorite(_ context.Context, code string) error {
	f.removed = append(f.removed, code)
	return nil
}

type fakeQuotes map[string]models.Quote

func (f fakeQuotes) Latest(_ context.Context, code string) (models.Quote, error) {
	q, ok := f[code]
	if !ok {
		return models.Quote{}, errors.New("timeout")
	}
	return q, nil
}

// ---- memo ----

type fakeMemo struct {
	saved map[string]string
}

func (f *fakeMemo) GetMemo(_ context.Context, code string) (*models.Memo, error) {
	return &models.Memo{Content: f.saved[code]}, nil
}

func (f *fakeMemo) SaveMemo(_ context.Context, code, content string) (*models.Memo, error) {
	if f.saved == nil {
		f.saved = map[string]string{}
	}
	f.saved[code] = content
	return &models.Memo{Content: content}, nil
}

// ---- news ----

type fakeNews struct {
	mu    sync.Mutex
	total int
	pages map[int][]models.NewsItem
	reqs  []client.NewsSearch
	err   error
}

func (f *fakeNews) SearchNews(_ context.Context, q client.NewsSearch) (*models.NewsPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reqs = append(f.reqs, q)
	if f.err != nil {
		return nil, f.err
	}
	page := (q.Start-1)/q.Display + 1
	items := f.pages[page]
	return &models.NewsPage{Total: f.total, Start: q.Start, Display: len(items), Items: items}, nil
}
