package cli

import (
	"strings"
	"sync"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
)

// View paths.
const (
	PathCompanies = "/companies"
	PathExchange  = "/exchange"
	PathNews      = "/news"
	PathFavorites = "/favorites"
)

// Protected reports whether path needs an authenticated session: the
// favorites list and every favorite's detail view.
func Protected(path string) bool {
	return path == PathFavorites || strings.HasPrefix(path, PathFavorites+"/")
}

// FavoritePath is the detail view of one favorite.
func FavoritePath(stockCode string) string {
	return PathFavorites + "/" + stockCode
}

// ChartPath is the price chart tab of one favorite.
func ChartPath(stockCode string) string {
	return FavoritePath(stockCode) + "/" + tabChart
}

const tabChart = "chart"

// favoriteView splits a favorite detail path into the stock code and the
// tab, which is empty for the memo tab.
func favoriteView(path string) (code, tab string, ok bool) {
	rest, ok := strings.CutPrefix(path, PathFavorites+"/")
	if !ok {
		return "", "", false
	}
	code, tab, _ = strings.Cut(rest, "/")
	if code == "" || (tab != "" && tab != tabChart) {
		return "", "", false
	}
	return code, tab, true
}

// Router is a navigation history. The last entry is the current view.
// It starts at the root.
type Router struct {
	mu    sync.Mutex
	stack []string
}

func NewRouter() *Router {
	return &Router{stack: []string{common.RootPath}}
}

func (r *Router) Push(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stack[len(r.stack)-1] == path {
		return
	}
	r.stack = append(r.stack, path)
}

// Replace swaps the current entry for path.
func (r *Router) Replace(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stack[len(r.stack)-1] = path
}

// Back drops the current entry. It reports false at the first entry.
func (r *Router) Back() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.stack) == 1 {
		return false
	}
	r.stack = r.stack[:len(r.stack)-1]
	return true
}

func (r *Router) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stack[len(r.stack)-1]
}

func (r *Router) Depth() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}
