package mockapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// monday is a business day; the Saturday before it is not.
var monday = time.Date(2024, 1, 8, 10, 0, 0, 0, time.Local)

func newTestServer(t *testing.T, cfg *Config) (*Server, *httptest.Server) {
	t.Helper()
	if cfg == nil {
		cfg = &Config{}
		cfg.LoadDefaults()
	}
	s := NewServer(cfg, nil, WithClock(timex.Fixed(monday)), WithBcryptCost(bcrypt.MinCost))
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func newBackend(t *testing.T, ts *httptest.Server) (*client.HTTPClient, *string) {
	t.Helper()
	c, err := client.NewHTTPClient(client.Config{BaseURL: ts.URL + "/api", Timeout: 5 * time.Second})
	require.NoError(t, err)
	token := new(string)
	c.SetTokenSource(func() string { return *token })
	return c, token
}

func TestAuthFlow(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c, token := newBackend(t, ts)
	ctx := context.Background()

	resp, err := c.Signup(ctx, client.SignupRequest{Email: "a@b.com", Password: "secret1", Name: "Alice"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "1", string(resp.UserCode))

	login, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	*token = login.Token
	assert.Equal(t, "Alice", login.Name)

	require.NoError(t, c.Verify(ctx, login.Token))
	require.NoError(t, c.Logout(ctx, login.Token))

	err = c.Verify(ctx, login.Token)
	require.True(t, client.IsUnauthorized(err), "a logged out token is dead, got %v", err)
}

func TestLogin_WrongPassword(t *testing.T) {
	s, ts := newTestServer(t, nil)
	_, err := s.Register("a@b.com", "secret1", "Alice")
	require.NoError(t, err)
	c, _ := newBackend(t, ts)

	_, err = c.Login(context.Background(), "a@b.com", "nope")
	require.True(t, client.IsUnauthorized(err))
	assert.Equal(t, "Invalid email or password.", client.Message(err))
}

func TestSignup_Validation(t *testing.T) {
	s, ts := newTestServer(t, nil)
	_, err := s.Register("taken@b.com", "secret1", "T")
	require.NoError(t, err)
	c, _ := newBackend(t, ts)

	tests := []struct {
		name string
		req  client.SignupRequest
		want int
	}{
		{"bad email", client.SignupRequest{Email: "nope", Password: "secret1", Name: "N"}, http.StatusBadRequest},
		{"short password", client.SignupRequest{Email: "n@b.com", Password: "123", Name: "N"}, http.StatusBadRequest},
		{"no name", client.SignupRequest{Email: "n@b.com", Password: "secret1"}, http.StatusBadRequest},
		{"duplicate", client.SignupRequest{Email: "taken@b.com", Password: "secret1", Name: "N"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Signup(context.Background(), tt.req)
			var e *client.Error
			require.ErrorAs(t, err, &e)
			assert.Equal(t, tt.want, e.StatusCode)
			assert.NotEmpty(t, e.Message)
		})
	}
}

func TestFavorites_RequireToken(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/api/favorites")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFavoritesAndMemo(t *testing.T) {
	s, ts := newTestServer(t, nil)
	_, err := s.Register("a@b.com", "secret1", "Alice")
	require.NoError(t, err)
	c, token := newBackend(t, ts)
	ctx := context.Background()

	login, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	*token = login.Token

	fav, err := c.AddFavorite(ctx, "005930", "")
	require.NoError(t, err)
	assert.Equal(t, "Samsung Electronics", fav.CompanyName)
	assert.Equal(t, "00126380", fav.CorpCode)

	_, err = c.AddFavorite(ctx, "005930", "Samsung")
	var e *client.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, http.StatusConflict, e.StatusCode)

	_, err = c.AddFavorite(ctx, "000660", "SK hynix")
	require.NoError(t, err)

	favs, err := c.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 2)
	assert.Equal(t, "005930", favs[0].StockCode)

	m, err := c.GetMemo(ctx, "005930")
	require.NoError(t, err)
	assert.Empty(t, m.Content)

	_, err = c.SaveMemo(ctx, "005930", "buy the dip")
	require.NoError(t, err)
	m, err = c.GetMemo(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "buy the dip", m.Content)

	_, err = c.SaveMemo(ctx, "005930", strings.Repeat("가", 2001))
	require.ErrorIs(t, err, common.ErrValidation)

	_, err = c.GetMemo(ctx, "035720")
	require.True(t, client.IsNotFound(err))

	require.NoError(t, c.RemoveFavorite(ctx, "005930"))
	err = c.RemoveFavorite(ctx, "005930")
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Not in favorites.", e.Message)

	favs, err = c.ListFavorites(ctx)
	require.NoError(t, err)
	require.Len(t, favs, 1)
}

func TestFavorites_PerUser(t *testing.T) {
	s, ts := newTestServer(t, nil)
	ctx := context.Background()
	_, err := s.Register("a@b.com", "secret1", "A")
	require.NoError(t, err)
	_, err = s.Register("c@d.com", "secret1", "C")
	require.NoError(t, err)

	a, tokA := newBackend(t, ts)
	resp, err := a.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	*tokA = resp.Token
	_, err = a.AddFavorite(ctx, "035420", "NAVER")
	require.NoError(t, err)

	b, tokB := newBackend(t, ts)
	resp, err = b.Login(ctx, "c@d.com", "secret1")
	require.NoError(t, err)
	*tokB = resp.Token
	favs, err := b.ListFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, favs)
}

func TestExpireSessions(t *testing.T) {
	s, ts := newTestServer(t, nil)
	_, err := s.Register("a@b.com", "secret1", "A")
	require.NoError(t, err)
	c, token := newBackend(t, ts)
	ctx := context.Background()

	resp, err := c.Login(ctx, "a@b.com", "secret1")
	require.NoError(t, err)
	*token = resp.Token

	fired := 0
	c.OnUnauthorized(func(context.Context) { fired++ })

	s.ExpireSessions()
	_, err = c.ListFavorites(ctx)
	require.True(t, client.IsUnauthorized(err))
	assert.Equal(t, 1, fired)
}

func TestCompanies(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c, _ := newBackend(t, ts)
	ctx := context.Background()

	page, err := c.ListCompanies(ctx, client.CompanyQuery{Page: 1, Size: 4})
	require.NoError(t, err)
	assert.Len(t, page.Companies, 4)
	assert.Equal(t, int64(6), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 1, page.Page)

	page, err = c.ListCompanies(ctx, client.CompanyQuery{Page: 2, Size: 4})
	require.NoError(t, err)
	assert.Len(t, page.Companies, 2)

	page, err = c.ListCompanies(ctx, client.CompanyQuery{Keyword: "kakao"})
	require.NoError(t, err)
	require.Len(t, page.Companies, 1)
	assert.Equal(t, "035720", page.Companies[0].StockCode)

	co, err := c.GetCompany(ctx, "00126380")
	require.NoError(t, err)
	assert.Equal(t, "005930", co.StockCode)

	_, err = c.GetCompany(ctx, "99999999")
	require.True(t, client.IsNotFound(err))
}

func TestDisclosures(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c, _ := newBackend(t, ts)
	ctx := context.Background()

	page, err := c.ListDisclosures(ctx, "00126380", client.DisclosureQuery{PageNo: 3, PageCount: 10})
	require.NoError(t, err)
	assert.Equal(t, 23, page.TotalCount)
	assert.Equal(t, 3, page.TotalPage)
	assert.Len(t, page.Items, 3)

	first, err := c.ListDisclosures(ctx, "00126380", client.DisclosureQuery{})
	require.NoError(t, err)
	require.NotEmpty(t, first.Items)
	assert.Equal(t, "20240108", first.Items[0].RceptDt)

	empty, err := c.ListDisclosures(ctx, "99999999", client.DisclosureQuery{})
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
}

func TestNewsSearch(t *testing.T) {
	_, ts := newTestServer(t, nil)
	c, _ := newBackend(t, ts)
	ctx := context.Background()

	page, err := c.SearchNews(ctx, client.NewsSearch{Query: "Kakao", Display: 10, Start: 1, Sort: "date"})
	require.NoError(t, err)
	assert.Equal(t, 23, page.Total)
	require.Len(t, page.Items, 10)
	assert.Contains(t, page.Items[0].Title, "<b>Kakao</b>")
	assert.True(t, strings.HasSuffix(page.Items[0].Link, "-1"))

	last, err := c.SearchNews(ctx, client.NewsSearch{Query: "Kakao", Display: 10, Start: 21, Sort: "date"})
	require.NoError(t, err)
	assert.Len(t, last.Items, 3)

	sim, err := c.SearchNews(ctx, client.NewsSearch{Query: "Kakao", Display: 10, Start: 1, Sort: "sim"})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(sim.Items[0].Link, "-23"))
}
