package client

import (
	"context"
	"net/url"
	"strconv"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
)

// NewsSearch is the raw news-search request. Start is the 1-based index of
// the first item.
type NewsSearch struct {
	Query   string
	Display int
	Start   int
	Sort    string
}

func (c *HTTPClient) SearchNews(ctx context.Context, q NewsSearch) (*models.NewsPage, error) {
	params := url.Values{}
	params.Set("query", q.Query)
	params.Set("display", strconv.Itoa(q.Display))
	params.Set("start", strconv.Itoa(q.Start))
	if q.Sort != "" {
		params.Set("sort", q.Sort)
	}

	var page models.NewsPage
	if err := c.get(ctx, "/news/search", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
