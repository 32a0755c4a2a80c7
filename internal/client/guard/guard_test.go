package guard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSession struct {
	ready chan struct{}
	auth  bool
	calls int
}

func newFakeSession(loaded, auth bool) *fakeSession {
	s := &fakeSession{ready: make(chan struct{}), auth: auth}
	if loaded {
		close(s.ready)
	}
	return s
}

func (s *fakeSession) Ready() <-chan struct{} { return s.ready }

func (s *fakeSession) IsAuthenticated(context.Context) bool {
	s.calls++
	return s.auth
}

type recNav struct {
	mu    sync.Mutex
	calls []string
}

func (n *recNav) Replace(p string) { n.record("replace " + p) }
func (n *recNav) Push(p string)    { n.record("push " + p) }

func (n *recNav) record(s string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, s)
}

func (n *recNav) Calls() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.calls...)
}

func TestResolve_Allowed(t *testing.T) {
	nav := &recNav{}
	r := &Redirects{}
	g := New(newFakeSession(true, true), r, nav, nil)

	st, err := g.Resolve(context.Background(), "/favorites", "")
	require.NoError(t, err)
	assert.Equal(t, StateAllowed, st)
	assert.Empty(t, nav.Calls())
	_, ok := r.Peek()
	assert.False(t, ok)
}

func TestResolve_DeniedCapturesTargetAndReplaces(t *testing.T) {
	nav := &recNav{}
	r := &Redirects{}
	g := New(newFakeSession(true, false), r, nav, nil)

	st, err := g.Resolve(context.Background(), "/favorites/005930", "")
	require.NoError(t, err)
	assert.Equal(t, StateDenied, st)
	assert.Equal(t, []string{"replace /login"}, nav.Calls())

	p, ok := r.Peek()
	require.True(t, ok)
	assert.Equal(t, PendingRedirect{TargetPath: "/favorites/005930", Message: common.DefaultRedirectMessage}, p)
}

func TestResolve_CustomMessage(t *testing.T) {
	r := &Redirects{}
	g := New(newFakeSession(true, false), r, &recNav{}, nil)

	_, err := g.Resolve(context.Background(), "/favorites", "Sign in to see your watchlist.")
	require.NoError(t, err)
	p, _ := r.Peek()
	assert.Equal(t, "Sign in to see your watchlist.", p.Message)
}

func TestResolve_WaitsWhileLoading(t *testing.T) {
	sess := newFakeSession(false, true)
	nav := &recNav{}
	g := New(sess, &Redirects{}, nav, nil)

	loading := make(chan struct{})
	g.OnLoading = func() { close(loading) }

	assert.Equal(t, StateLoading, g.Check(context.Background()))

	done := make(chan State)
	go func() {
		st, _ := g.Resolve(context.Background(), "/favorites", "")
		done <- st
	}()

	<-loading
	select {
	case <-done:
		t.Fatal("must not decide before the session has loaded")
	case <-time.After(20 * time.Millisecond):
	}
	assert.Empty(t, nav.Calls(), "no redirect while loading")

	close(sess.ready)
	assert.Equal(t, StateAllowed, <-done)
}

func TestResolve_ContextEndsWhileLoading(t *testing.T) {
	nav := &recNav{}
	g := New(newFakeSession(false, false), &Redirects{}, nav, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	st, err := g.Resolve(ctx, "/favorites", "")
	assert.Equal(t, StateLoading, st)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, nav.Calls())
}

func TestCompleteLogin(t *testing.T) {
	t.Run("returns to captured target", func(t *testing.T) {
		nav := &recNav{}
		r := &Redirects{}
		g := New(newFakeSession(true, false), r, nav, nil)

		_, _ = g.Resolve(context.Background(), "/favorites", "")
		assert.Equal(t, "/favorites", g.CompleteLogin())
		assert.Equal(t, []string{"replace /login", "replace /favorites"}, nav.Calls())

		_, ok := r.Peek()
		assert.False(t, ok, "consumed exactly once")
		assert.Equal(t, "/", g.CompleteLogin())
	})

	t.Run("defaults to root", func(t *testing.T) {
		nav := &recNav{}
		g := New(newFakeSession(true, true), &Redirects{}, nav, nil)
		assert.Equal(t, "/", g.CompleteLogin())
		assert.Equal(t, []string{"replace /"}, nav.Calls())
	})
}

func TestRedirects_ConsumeOnce(t *testing.T) {
	var r Redirects
	r.Capture(PendingRedirect{TargetPath: "/a"})
	r.Capture(PendingRedirect{TargetPath: "/b"})

	p, ok := r.Consume()
	require.True(t, ok)
	assert.Equal(t, "/b", p.TargetPath, "latest denial wins")

	_, ok = r.Consume()
	assert.False(t, ok)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "allowed", StateAllowed.String())
	assert.Equal(t, "denied", StateDenied.String())
}
