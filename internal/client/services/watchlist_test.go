package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavorites_Watchlist_PartialFailure(t *testing.T) {
	backend := &fakeFavorites{list: []models.Favorite{
		{StockCode: "A", CompanyName: "Alpha"},
		{StockCode: "B", CompanyName: "Beta"},
		{StockCode: "C", CompanyName: "Gamma"},
	}}
	quotes := fakeQuotes{
		"A": {CurrentPrice: 71500, PriceChange: -300, ChangeRate: decimal.RequireFromString("-0.42")},
		"C": {CurrentPrice: 1000},
	}
	svc := NewFavoritesService(backend, quotes, 8, nil)

	got, err := svc.Watchlist(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "A", got[0].Favorite.StockCode)
	assert.True(t, got[0].Available)
	assert.Equal(t, int64(71500), got[0].Quote.CurrentPrice)

	assert.Equal(t, "B", got[1].Favorite.StockCode)
	assert.False(t, got[1].Available)
	assert.Equal(t, models.Quote{}, got[1].Quote)

	assert.Equal(t, "C", got[2].Favorite.StockCode)
	assert.True(t, got[2].Available)
}

func TestFavorites_Watchlist_Empty(t *testing.T) {
	svc := NewFavoritesService(&fakeFavorites{}, fakeQuotes{}, 8, nil)

	got, err := svc.Watchlist(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFavorites_Watchlist_ListFails(t *testing.T) {
	boom := errors.New("backend down")
	svc := NewFavoritesService(&fakeFavorites{listErr: boom}, fakeQuotes{}, 8, nil)

	_, err := svc.Watchlist(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestFavorites_AddRemove(t *testing.T) {
	backend := &fakeFavorites{}
	svc := NewFavoritesService(backend, fakeQuotes{}, 0, nil)
	ctx := context.Background()

	fav, err := svc.Add(ctx, " 005930 ", "Samsung")
	require.NoError(t, err)
	assert.Equal(t, "005930", fav.StockCode)
	require.NoError(t, svc.Remove(ctx, "005930"))

	assert.Equal(t, []string{"005930|Samsung"}, backend.added)
	assert.Equal(t, []string{"005930"}, backend.removed)

	_, err = svc.Add(ctx, "  ", "x")
	assert.ErrorIs(t, err, common.ErrValidation)
	assert.ErrorIs(t, svc.Remove(ctx, ""), common.ErrValidation)
}
