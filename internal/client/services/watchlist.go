package services

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

// FavoritesBackend is the part of the backend client the watchlist uses.
type FavoritesBackend interface {
	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, stockCode, companyName string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, stockCode string) error
}

// QuoteSource returns the latest quote for a stock code.
type QuoteSource interface {
	Latest(ctx context.Context, stockCode string) (models.Quote, error)
}

// FavoritesService manages the user's watchlist.
type FavoritesService interface {
	// Watchlist lists favorites with their latest quotes. Failing to list
	// favorites fails the call; a failed quote only marks its row
	// unavailable.
	Watchlist(ctx context.Context) ([]models.Watched, error)
	Add(ctx context.Context, stockCode, companyName string) (*models.Favorite, error)
	Remove(ctx context.Context, stockCode string) error
}

type favoritesService struct {
	backend FavoritesBackend
	quotes  QuoteSource
	limit   int
	log     logging.Logger
}

// NewFavoritesService builds the watchlist. limit caps concurrent quote
// lookups; zero means no cap.
func NewFavoritesService(backend FavoritesBackend, quotes QuoteSource, limit int, log logging.Logger) FavoritesService {
	if log == nil {
		log = logging.Discard()
	}
	return &favoritesService{backend: backend, quotes: quotes, limit: limit, log: log.With("service", "favorites")}
}

func (s *favoritesService) Watchlist(ctx context.Context) ([]models.Watched, error) {
	favs, err := s.backend.ListFavorites(ctx)
	if err != nil {
		return nil, err
	}
	if len(favs) == 0 {
		return []models.Watched{}, nil
	}

	enriched := aggregate.Enrich(ctx, favs, s.limit, func(ctx context.Context, f models.Favorite) (models.Quote, error) {
		return s.quotes.Latest(ctx, f.StockCode)
	})

	out := make([]models.Watched, len(enriched))
	failed := 0
	for i, e := range enriched {
		out[i] = models.Watched{Favorite: e.Item, Quote: e.Outcome.Value, Available: e.Outcome.Available}
		if !e.Outcome.Available {
			failed++
			s.log.Warn(ctx, "quote unavailable", "stock_code", e.Item.StockCode, "err", e.Outcome.Err)
		}
	}
	s.log.Debug(ctx, "watchlist loaded", "favorites", len(out), "unavailable", failed)
	return out, nil
}

func (s *favoritesService) Add(ctx context.Context, stockCode, companyName string) (*models.Favorite, error) {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return nil, validationError("stock code is required")
	}
	return s.backend.AddFavorite(ctx, stockCode, strings.TrimSpace(companyName))
}

func (s *favoritesService) Remove(ctx context.Context, stockCode string) error {
	stockCode = strings.TrimSpace(stockCode)
	if stockCode == "" {
		return validationError("stock code is required")
	}
	return s.backend.RemoveFavorite(ctx, stockCode)
}
