package client

import (
	"context"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
)

// Client is the backend contract used by the session store and services.
type Client interface {
	Login(ctx context.Context, email, password string) (*AuthResponse, error)
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error

	ListCompanies(ctx context.Context, q CompanyQuery) (*models.CompanyPage, error)
	GetCompany(ctx context.Context, corpCode string) (*models.Company, error)
	ListDisclosures(ctx context.Context, corpCode string, q DisclosureQuery) (*models.DisclosurePage, error)

	ListFavorites(ctx context.Context) ([]models.Favorite, error)
	AddFavorite(ctx context.Context, stockCode, companyName string) (*models.Favorite, error)
	RemoveFavorite(ctx context.Context, stockCode string) error

	GetMemo(ctx context.Context, stockCode string) (*models.Memo, error)
	SaveMemo(ctx context.Context, stockCode, content string) (*models.Memo, error)

	SearchNews(ctx context.Context, q NewsSearch) (*models.NewsPage, error)
}

var _ Client = (*HTTPClient)(nil)
