package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	for pattern, handler := range handlers {
		mux.HandleFunc(pattern, handler)
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, serverURL string) *HTTPClient {
	t.Helper()
	c, err := NewHTTPClient(Config{BaseURL: serverURL + "/api/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func TestNewHTTPClient_RequiresBaseURL(t *testing.T) {
	_, err := NewHTTPClient(Config{})
	require.Error(t, err)
}

func TestLogin_DecodesNumericUserCode(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			assert.Empty(t, r.Header.Get("Authorization"), "login never carries a token")
			assert.NotEmpty(t, r.Header.Get(common.RequestIDHeaderName))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "a@b.com", body["email"])
			assert.Equal(t, "secret1", body["password"])

			writeJSON(w, http.StatusOK, map[string]any{"token": "t1", "userCode": 7, "email": "a@b.com", "name": "A"})
		},
	})

	c := newTestClient(t, srv.URL)
	c.SetTokenSource(func() string { return "stale" })

	resp, err := c.Login(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "t1", resp.Token)
	assert.Equal(t, models.User{UserCode: "7", Email: "a@b.com", Name: "A"}, resp.User())
}

func TestLogin_InvalidCredentials_DoesNotFireHook(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /api/auth/login": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"status": 401, "error": "Unauthorized", "message": "Invalid email or password"})
		},
	})

	c := newTestClient(t, srv.URL)
	var fired atomic.Int32
	c.OnUnauthorized(func(context.Context) { fired.Add(1) })

	_, err := c.Login(context.Background(), "a@b.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", Message(err))
	assert.Zero(t, fired.Load())
}

func TestAuthenticatedCall_AttachesBearerAndFiresHookOn401(t *testing.T) {
	token := "t1"
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/favorites": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") != "Bearer t1" {
				writeJSON(w, http.StatusUnauthorized, map[string]any{"message": "expired"})
				return
			}
			writeJSON(w, http.StatusOK, []models.Favorite{{ID: 1, StockCode: "005930", CompanyName: "Samsung"}})
		},
	})

	c := newTestClient(t, srv.URL)
	c.SetTokenSource(func() string { return token })
	var fired atomic.Int32
	c.OnUnauthorized(func(context.Context) { fired.Add(1) })

	favs, err := c.ListFavorites(context.Background())
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, "005930", favs[0].StockCode)
	assert.Zero(t, fired.Load())

	token = "revoked"
	_, err = c.ListFavorites(context.Background())
	require.ErrorIs(t, err, common.ErrUnauthorized)
	assert.EqualValues(t, 1, fired.Load())
}

func TestVerify_UsesExplicitToken(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/auth/verify": func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("Authorization") == "Bearer good" {
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
		},
	})

	c := newTestClient(t, srv.URL)
	var fired atomic.Int32
	c.OnUnauthorized(func(context.Context) { fired.Add(1) })

	require.NoError(t, c.Verify(context.Background(), "good"))
	err := c.Verify(context.Background(), "bad")
	require.True(t, IsUnauthorized(err))
	assert.Zero(t, fired.Load(), "verify leaves teardown to its caller")
}

func TestListCompanies_PagesFromZeroOnTheWire(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/companies": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "1", q.Get("page"))
			assert.Equal(t, "20", q.Get("size"))
			assert.Equal(t, "samsung", q.Get("keyword"))
			assert.False(t, q.Has("indutyCode"))
			writeJSON(w, http.StatusOK, map[string]any{
				"companies":     []map[string]any{{"corpCode": "00126380", "corpName": "Samsung Electronics", "stockCode": "005930"}},
				"currentPage":   1,
				"totalElements": 21,
				"totalPages":    2,
			})
		},
	})

	page, err := newTestClient(t, srv.URL).ListCompanies(context.Background(), CompanyQuery{Page: 2, Keyword: " samsung "})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.EqualValues(t, 21, page.Total)
	require.Len(t, page.Companies, 1)
	assert.Equal(t, "00126380", page.Companies[0].CorpCode)
}

func TestGetCompany_NotFound(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/companies/{code}": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "no such company", http.StatusNotFound)
		},
	})

	_, err := newTestClient(t, srv.URL).GetCompany(context.Background(), "99999999")
	require.ErrorIs(t, err, common.ErrNotFound)
	assert.True(t, IsNotFound(err))
	assert.Equal(t, "no such company", Message(err))
}

func TestListDisclosures_Status(t *testing.T) {
	status := "000"
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/companies/{code}/disclosures": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "00126380", r.PathValue("code"))
			assert.Equal(t, "A", r.URL.Query().Get("pblntfTy"))
			writeJSON(w, http.StatusOK, map[string]any{
				"status":      status,
				"message":     "status message",
				"page_no":     1,
				"page_count":  10,
				"total_count": 1,
				"total_page":  1,
				"list":        []map[string]any{{"rcept_no": "20250314000001", "report_nm": "Annual report"}},
			})
		},
	})
	c := newTestClient(t, srv.URL)
	q := DisclosureQuery{Type: "A"}

	page, err := c.ListDisclosures(context.Background(), "00126380", q)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "20250314000001", page.Items[0].RceptNo)

	status = "013"
	page, err = c.ListDisclosures(context.Background(), "00126380", q)
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	status = "020"
	_, err = c.ListDisclosures(context.Background(), "00126380", q)
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Contains(t, err.Error(), "status message")
}

func TestSearchNews_Params(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/news/search": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "Samsung #AI", q.Get("query"))
			assert.Equal(t, "10", q.Get("display"))
			assert.Equal(t, "11", q.Get("start"))
			assert.Equal(t, "sim", q.Get("sort"))
			writeJSON(w, http.StatusOK, models.NewsPage{Total: 42, Start: 11, Display: 1, Items: []models.NewsItem{{Title: "t"}}})
		},
	})

	page, err := newTestClient(t, srv.URL).SearchNews(context.Background(), NewsSearch{Query: "Samsung #AI", Display: 10, Start: 11, Sort: "sim"})
	require.NoError(t, err)
	assert.Equal(t, 42, page.Total)
	assert.Len(t, page.Items, 1)
}

func TestFavoritesAndMemo(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"POST /api/favorites": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusCreated, models.Favorite{ID: 3, StockCode: body["stockCode"], CompanyName: body["companyName"]})
		},
		"DELETE /api/favorites/{code}": func(w http.ResponseWriter, r *http.Request) {
			if r.PathValue("code") == "000660" {
				writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": "not in favorites"})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "removed"})
		},
		"POST /api/favorites/{code}/memo": func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			writeJSON(w, http.StatusOK, models.Memo{Content: body["content"], UpdatedAt: "2025-01-03T10:00:00"})
		},
		"GET /api/favorites/{code}/memo": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, models.Memo{Content: "buy the dip"})
		},
	})
	c := newTestClient(t, srv.URL)
	ctx := context.Background()

	fav, err := c.AddFavorite(ctx, "005930", "Samsung")
	require.NoError(t, err)
	assert.Equal(t, int64(3), fav.ID)

	require.NoError(t, c.RemoveFavorite(ctx, "005930"))
	err = c.RemoveFavorite(ctx, "000660")
	require.Error(t, err)
	assert.Equal(t, "not in favorites", Message(err))

	m, err := c.SaveMemo(ctx, "005930", "hold")
	require.NoError(t, err)
	assert.Equal(t, "hold", m.Content)
	assert.Equal(t, "2025-01-03T10:00:00", m.UpdatedAt)

	m, err = c.GetMemo(ctx, "005930")
	require.NoError(t, err)
	assert.Equal(t, "buy the dip", m.Content)
}

func TestTransportFailure_MapsToUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := newTestClient(t, url)
	_, err := c.ListFavorites(context.Background())
	require.ErrorIs(t, err, common.ErrUnavailable)
	assert.Equal(t, "The server is not reachable. Please try again.", Message(err))
}

func TestContextCancel_StillReachable(t *testing.T) {
	srv := mockServer(t, map[string]http.HandlerFunc{
		"GET /api/favorites": func(w http.ResponseWriter, r *http.Request) {
			<-r.Context().Done()
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newTestClient(t, srv.URL).ListFavorites(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestError_UnwrapTable(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{401, common.ErrUnauthorized},
		{403, common.ErrUnauthorized},
		{404, common.ErrNotFound},
		{400, common.ErrValidation},
		{422, common.ErrValidation},
		{503, common.ErrUnavailable},
	}
	for _, tt := range tests {
		err := error(&Error{StatusCode: tt.status})
		assert.ErrorIs(t, err, tt.want, "status %d", tt.status)
	}
	assert.NoError(t, (&Error{StatusCode: 418}).Unwrap())
}
