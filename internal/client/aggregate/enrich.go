package aggregate

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Outcome is the result of one enrichment lookup. When Available is false,
// Value is the zero value and Err says why.
type Outcome[E any] struct {
	Value     E
	Available bool
	Err       error
}

// Enriched pairs a primary record with its outcome.
type Enriched[P, E any] struct {
	Item    P
	Outcome Outcome[E]
}

// Enrich runs lookup for every item concurrently, at most limit at a time
// (limit <= 0 means no cap). A lookup that errors or panics marks only its
// own item unavailable. The result has the same length and order as items
// regardless of completion order.
func Enrich[P, E any](ctx context.Context, items []P, limit int, lookup func(ctx context.Context, item P) (E, error)) []Enriched[P, E] {
	out := make([]Enriched[P, E], len(items))

	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, item := range items {
		out[i].Item = item
		g.Go(func() error {
			out[i].Outcome = runLookup(ctx, item, lookup)
			return nil
		})
	}
	_ = g.Wait()

	return out
}

func runLookup[P, E any](ctx context.Context, item P, lookup func(context.Context, P) (E, error)) (o Outcome[E]) {
	defer func() {
		if r := recover(); r != nil {
			o = Outcome[E]{Err: fmt.Errorf("lookup panicked: %v", r)}
		}
	}()

	v, err := lookup(ctx, item)
	if err != nil {
		return Outcome[E]{Err: err}
	}
	return Outcome[E]{Value: v, Available: true}
}
