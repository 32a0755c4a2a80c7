package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/aggregate"
)

// selection tracks the latest interactive load. Starting one cancels the
// previous load, and only the latest may report a result.
type selection struct {
	gen    aggregate.Generation
	mu     sync.Mutex
	cancel context.CancelFunc
}

// start takes a ticket and returns a context that the next start cancels.
// Callers must call the returned CancelFunc when done.
func (s *selection) start(ctx context.Context) (context.Context, uint64, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	ticket := s.gen.Next()
	if s.cancel != nil {
		s.cancel()
	}
	s.cancel = cancel
	s.mu.Unlock()

	return ctx, ticket, cancel
}

func (s *selection) current(ticket uint64) bool {
	return s.gen.IsCurrent(ticket)
}
