package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProtected(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/", false},
		{"/login", false},
		{"/companies", false},
		{"/exchange", false},
		{"/news", false},
		{"/favorites", true},
		{"/favorites/005930", true},
		{"/favorites/005930/chart", true},
		{"/favoritesx", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Protected(tt.path), tt.path)
	}
}

func TestFavoriteView(t *testing.T) {
	tests := []struct {
		path     string
		wantCode string
		wantTab  string
		wantOK   bool
	}{
		{FavoritePath("005930"), "005930", "", true},
		{ChartPath("005930"), "005930", "chart", true},
		{"/favorites/", "", "", false},
		{"/favorites/005930/news", "", "", false},
		{"/companies/005930", "", "", false},
	}
	for _, tt := range tests {
		code, tab, ok := favoriteView(tt.path)
		assert.Equal(t, tt.wantOK, ok, tt.path)
		assert.Equal(t, tt.wantCode, code, tt.path)
		assert.Equal(t, tt.wantTab, tab, tt.path)
	}
}

func TestRouter(t *testing.T) {
	r := NewRouter()
	assert.Equal(t, "/", r.Current())
	assert.False(t, r.Back(), "the first entry stays")

	r.Push("/companies")
	r.Push("/companies")
	assert.Equal(t, 2, r.Depth(), "pushing the current path is a no-op")

	r.Push("/favorites")
	r.Replace("/login")
	assert.Equal(t, "/login", r.Current())
	assert.Equal(t, 3, r.Depth())

	assert.True(t, r.Back())
	assert.Equal(t, "/companies", r.Current())
}
