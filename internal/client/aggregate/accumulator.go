package aggregate

import (
	"context"
	"errors"
	"sync"
)

// ErrLoadInProgress is returned by LoadMore while another LoadMore for the
// same query is still running.
var ErrLoadInProgress = errors.New("a page is already loading")

// ErrNoQuery is returned by LoadMore before any NewSearch succeeded.
var ErrNoQuery = errors.New("no active search")

// Page is one page of results for a query. Total is the upstream's count of
// all matching items, as of this page.
type Page[T any] struct {
	Items []T
	Total int
}

// PageFetcher fetches page (1-based) of q.
type PageFetcher[Q, T any] func(ctx context.Context, q Q, page int) (Page[T], error)

// Accumulator merges successive pages of one query into a single list that
// only grows by appending.
//
// By default items are appended as received. With WithDedupe, an item whose
// key has already been seen in this query is dropped.
type Accumulator[Q, T any] struct {
	fetch PageFetcher[Q, T]
	key   func(T) string

	gen Generation

	mu         sync.Mutex
	active     bool
	query      Q
	items      []T
	total      int
	page       int
	received   int
	exhausted  bool
	loading    bool
	loadTicket uint64
	seen       map[string]struct{}
}

type AccumulatorOption[Q, T any] func(*Accumulator[Q, T])

// WithDedupe drops items whose key repeats within a query.
func WithDedupe[Q, T any](key func(T) string) AccumulatorOption[Q, T] {
	return func(a *Accumulator[Q, T]) { a.key = key }
}

func NewAccumulator[Q, T any](fetch PageFetcher[Q, T], opts ...AccumulatorOption[Q, T]) *Accumulator[Q, T] {
	a := &Accumulator[Q, T]{fetch: fetch}
	for _, o := range opts {
		o(a)
	}
	return a
}

// NewSearch fetches page 1 of q and replaces the state with it. Responses
// for searches started earlier are discarded from then on. On error the
// previous state is kept.
func (a *Accumulator[Q, T]) NewSearch(ctx context.Context, q Q) error {
	ticket := a.gen.Next()

	p, err := a.fetch(ctx, q, 1)
	if err != nil {
		return err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.IsCurrent(ticket) {
		return ErrStale
	}

	a.active = true
	a.query = q
	a.items = nil
	a.seen = nil
	a.received = 0
	a.page = 1
	a.loading = false
	a.apply(p)
	return nil
}

// LoadMore fetches the next page of the current query with the same
// parameters and appends it. total is taken from this latest page.
func (a *Accumulator[Q, T]) LoadMore(ctx context.Context) error {
	a.mu.Lock()
	if !a.active {
		a.mu.Unlock()
		return ErrNoQuery
	}
	if a.loading {
		a.mu.Unlock()
		return ErrLoadInProgress
	}
	a.loading = true
	q, next := a.query, a.page+1
	ticket := a.gen.Current()
	a.loadTicket = ticket
	a.mu.Unlock()

	p, err := a.fetch(ctx, q, next)

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.loadTicket == ticket {
		a.loading = false
	}
	if !a.gen.IsCurrent(ticket) {
		return ErrStale
	}
	if err != nil {
		return err
	}

	a.page = next
	a.apply(p)
	return nil
}

// apply appends a page. Callers hold mu.
func (a *Accumulator[Q, T]) apply(p Page[T]) {
	a.total = p.Total
	a.received += len(p.Items)
	a.exhausted = len(p.Items) == 0

	if a.key == nil {
		a.items = append(a.items, p.Items...)
		return
	}
	if a.seen == nil {
		a.seen = make(map[string]struct{})
	}
	for _, it := range p.Items {
		k := a.key(it)
		if _, dup := a.seen[k]; dup {
			continue
		}
		a.seen[k] = struct{}{}
		a.items = append(a.items, it)
	}
}

// HasMore reports whether the upstream claims more items than have been
// received. An empty page ends the query regardless of total.
func (a *Accumulator[Q, T]) HasMore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.active && !a.exhausted && a.received < a.total
}

// Items returns a copy of the accumulated items.
func (a *Accumulator[Q, T]) Items() []T {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]T(nil), a.items...)
}

func (a *Accumulator[Q, T]) Total() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total
}

// PageIndex is the 1-based index of the last page applied, 0 before any.
func (a *Accumulator[Q, T]) PageIndex() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

// Query returns the active query.
func (a *Accumulator[Q, T]) Query() (Q, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.query, a.active
}
