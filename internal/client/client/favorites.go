package client

import (
	"context"
	"net/url"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
)

type addFavoriteRequest struct {
	StockCode   string `json:"stockCode"`
	CompanyName string `json:"companyName"`
}

type deleteFavoriteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type memoRequest struct {
	Content string `json:"content"`
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]models.Favorite, error) {
	var favs []models.Favorite
	if err := c.get(ctx, "/favorites", nil, &favs); err != nil {
		return nil, err
	}
	return favs, nil
}

func (c *HTTPClient) AddFavorite(ctx context.Context, stockCode, companyName string) (*models.Favorite, error) {
	var fav models.Favorite
	if err := c.post(ctx, "/favorites", addFavoriteRequest{StockCode: stockCode, CompanyName: companyName}, &fav); err != nil {
		return nil, err
	}
	return &fav, nil
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, stockCode string) error {
	var resp deleteFavoriteResponse
	if err := c.doDelete(ctx, "/favorites/"+url.PathEscape(stockCode), &resp); err != nil {
		return err
	}
	if !resp.Success && resp.Message != "" {
		return &Error{StatusCode: 200, Code: "NotRemoved", Message: resp.Message}
	}
	return nil
}

func (c *HTTPClient) GetMemo(ctx context.Context, stockCode string) (*models.Memo, error) {
	var m models.Memo
	if err := c.get(ctx, "/favorites/"+url.PathEscape(stockCode)+"/memo", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *HTTPClient) SaveMemo(ctx context.Context, stockCode, content string) (*models.Memo, error) {
	var m models.Memo
	if err := c.post(ctx, "/favorites/"+url.PathEscape(stockCode)+"/memo", memoRequest{Content: content}, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
