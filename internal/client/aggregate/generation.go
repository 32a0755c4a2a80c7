package aggregate

import (
	"errors"
	"sync/atomic"
)

// ErrStale is returned when a response arrived after a newer request
// superseded it; the response has been discarded.
var ErrStale = errors.New("stale response discarded")

// Generation is a monotonically increasing request counter. Take a ticket
// with Next before issuing a request and check IsCurrent before applying
// the response. The zero value is ready to use.
type Generation struct {
	n atomic.Uint64
}

func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

func (g *Generation) Current() uint64 {
	return g.n.Load()
}

func (g *Generation) IsCurrent(ticket uint64) bool {
	return g.n.Load() == ticket
}
