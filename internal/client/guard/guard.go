// Package guard decides whether a protected view may run for the current
// session, and remembers where a denied user was headed so the login flow
// can send them back.
package guard

import (
	"context"
	"strings"
	"sync"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
)

type State int

const (
	StateLoading State = iota
	StateAllowed
	StateDenied
)

func (s State) String() string {
	switch s {
	case StateAllowed:
		return "allowed"
	case StateDenied:
		return "denied"
	default:
		return "loading"
	}
}

// PendingRedirect records a denied navigation.
type PendingRedirect struct {
	TargetPath string
	Message    string
}

// Redirects holds at most one PendingRedirect. It lives in memory only.
type Redirects struct {
	mu      sync.Mutex
	pending *PendingRedirect
}

func (r *Redirects) Capture(p PendingRedirect) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pending = &p
}

// Peek returns the pending redirect without consuming it.
func (r *Redirects) Peek() (PendingRedirect, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingRedirect{}, false
	}
	return *r.pending, true
}

// Consume returns the pending redirect and forgets it.
func (r *Redirects) Consume() (PendingRedirect, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return PendingRedirect{}, false
	}
	p := *r.pending
	r.pending = nil
	return p, true
}

// Navigator moves between views. Replace swaps the current history entry,
// Push adds one.
type Navigator interface {
	Replace(path string)
	Push(path string)
}

// Session is what the guard needs from the session store.
type Session interface {
	Ready() <-chan struct{}
	IsAuthenticated(ctx context.Context) bool
}

type Guard struct {
	session   Session
	redirects *Redirects
	nav       Navigator
	log       logging.Logger

	// OnLoading, when set, runs once per Resolve that has to wait for the
	// session to finish loading.
	OnLoading func()
}

func New(session Session, redirects *Redirects, nav Navigator, log logging.Logger) *Guard {
	if log == nil {
		log = logging.Discard()
	}
	return &Guard{
		session:   session,
		redirects: redirects,
		nav:       nav,
		log:       log.With("component", "guard"),
	}
}

// Check reports the state without waiting. It never navigates.
func (g *Guard) Check(ctx context.Context) State {
	select {
	case <-g.session.Ready():
	default:
		return StateLoading
	}
	if g.session.IsAuthenticated(ctx) {
		return StateAllowed
	}
	return StateDenied
}

// Resolve waits for the session to load and decides. On denial it captures
// path and message (the default message when empty) and replaces the
// current history entry with the login view. If ctx ends while loading,
// it returns StateLoading and ctx.Err() without navigating.
func (g *Guard) Resolve(ctx context.Context, path, message string) (State, error) {
	select {
	case <-g.session.Ready():
	default:
		if g.OnLoading != nil {
			g.OnLoading()
		}
		select {
		case <-g.session.Ready():
		case <-ctx.Done():
			return StateLoading, ctx.Err()
		}
	}

	if g.session.IsAuthenticated(ctx) {
		return StateAllowed, nil
	}
	if ctx.Err() != nil {
		return StateLoading, ctx.Err()
	}

	if strings.TrimSpace(message) == "" {
		message = common.DefaultRedirectMessage
	}
	g.redirects.Capture(PendingRedirect{TargetPath: path, Message: message})
	g.log.Info(ctx, "access denied, redirecting to login", "target", path)
	g.nav.Replace(common.LoginPath)
	return StateDenied, nil
}

// CompleteLogin sends the user where they were headed before the guard
// stopped them, or to the root, replacing the login entry. It returns the
// destination.
func (g *Guard) CompleteLogin() string {
	dest := common.RootPath
	if p, ok := g.redirects.Consume(); ok && p.TargetPath != "" {
		dest = p.TargetPath
	}
	g.nav.Replace(dest)
	return dest
}
