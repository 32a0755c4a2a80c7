// Package session owns the client's authentication state: the bearer token
// and the user it belongs to. Store is the only writer of the persisted
// session keys.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/companyanalyzer/internal/client/client"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/models"
	"github.com/dmitrijs2005/companyanalyzer/internal/client/storage"
	"github.com/dmitrijs2005/companyanalyzer/internal/common"
	"github.com/dmitrijs2005/companyanalyzer/internal/logging"
	"golang.org/x/sync/singleflight"
)

// Authenticator is the part of the backend the session needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*client.AuthResponse, error)
	Signup(ctx context.Context, req client.SignupRequest) (*client.AuthResponse, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, token string) error
}

// Result is what login, signup and logout report. Message is safe to show
// to the user; Err carries the cause for logging.
type Result struct {
	Success bool
	Message string
	Err     error
}

type SignupFields struct {
	Email    string
	Password string
	Name     string
}

// Store holds the session of record. Create it once at the application root
// and pass it to whoever needs it.
type Store struct {
	auth Authenticator
	kv   storage.KV
	log  logging.Logger

	mu      sync.RWMutex
	token   string
	user    *models.User
	loading bool

	initOnce sync.Once
	ready    chan struct{}

	verify singleflight.Group
}

func NewStore(auth Authenticator, kv storage.KV, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		auth:    auth,
		kv:      kv,
		log:     log.With("component", "session"),
		loading: true,
		ready:   make(chan struct{}),
	}
}

// Initialize loads the persisted session. A missing key or a user record
// that fails to decode leaves the session empty and erases both keys.
// Only the first call does any work; Ready is closed when it finishes.
func (s *Store) Initialize(ctx context.Context) {
	s.initOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
			close(s.ready)
		}()

		token, user, err := s.load(ctx)
		if err != nil {
			s.log.Warn(ctx, "discarding persisted session", "err", err)
			if derr := s.kv.DeleteAll(ctx, common.AuthTokenKey, common.UserKey); derr != nil {
				s.log.Error(ctx, "failed to erase persisted session", "err", derr)
			}
			return
		}
		if token == "" {
			return
		}

		s.mu.Lock()
		s.token = token
		s.user = &user
		s.mu.Unlock()
		s.log.Info(ctx, "session restored", "user", user.Email)
	})
}

var errPartialSession = errors.New("persisted session is incomplete")

func (s *Store) load(ctx context.Context) (string, models.User, error) {
	token, hasToken, err := s.kv.Get(ctx, common.AuthTokenKey)
	if err != nil {
		return "", models.User{}, err
	}
	rawUser, hasUser, err := s.kv.Get(ctx, common.UserKey)
	if err != nil {
		return "", models.User{}, err
	}

	hasToken = hasToken && strings.TrimSpace(token) != ""
	switch {
	case !hasToken && !hasUser:
		return "", models.User{}, nil
	case hasToken != hasUser:
		return "", models.User{}, errPartialSession
	}

	user, err := models.DecodeUser(rawUser)
	if err != nil {
		return "", models.User{}, err
	}
	return token, user, nil
}

// Ready is closed once Initialize has finished.
func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Token returns the current bearer token or "".
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns the signed-in user, if any.
func (s *Store) User() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *Store) Login(ctx context.Context, email, password string) Result {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return Result{Message: "Email and password are required.", Err: common.ErrValidation}
	}

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.log.Warn(ctx, "login failed", "email", email, "err", err)
		return Result{Message: client.Message(err), Err: err}
	}
	return s.establish(ctx, resp)
}

func (s *Store) Signup(ctx context.Context, f SignupFields) Result {
	f.Email = strings.TrimSpace(f.Email)
	f.Name = strings.TrimSpace(f.Name)
	if f.Email == "" || f.Password == "" || f.Name == "" {
		return Result{Message: "Email, password and name are required.", Err: common.ErrValidation}
	}

	resp, err := s.auth.Signup(ctx, client.SignupRequest{Email: f.Email, Password: f.Password, Name: f.Name})
	if err != nil {
		s.log.Warn(ctx, "signup failed", "email", f.Email, "err", err)
		return Result{Message: client.Message(err), Err: err}
	}
	return s.establish(ctx, resp)
}

// establish persists and installs a fresh session. Nothing changes unless
// the response is complete and both keys were written.
func (s *Store) establish(ctx context.Context, resp *client.AuthResponse) Result {
	if resp == nil || resp.Token == "" {
		return Result{Message: "The server returned an incomplete response.", Err: common.ErrInvalidSession}
	}
	user := resp.User()
	if err := user.Validate(); err != nil {
		return Result{Message: "The server returned an incomplete response.", Err: err}
	}

	raw, err := models.EncodeUser(user)
	if err != nil {
		return Result{Message: "Could not save the session.", Err: err}
	}
	if err := s.kv.SetAll(ctx, map[string]string{common.AuthTokenKey: resp.Token, common.UserKey: raw}); err != nil {
		s.log.Error(ctx, "failed to persist session", "err", err)
		return Result{Message: "Could not save the session.", Err: err}
	}

	s.mu.Lock()
	s.token = resp.Token
	s.user = &user
	s.mu.Unlock()

	s.log.Info(ctx, "signed in", "user", user.Email)
	return Result{Success: true}
}

// Validate asks the backend whether the current token is still good. Any
// failure ends the session. Concurrent calls for the same token share one
// request, and only the first teardown has side effects.
func (s *Store) Validate(ctx context.Context) bool {
	token := s.Token()
	if token == "" {
		return false
	}

	// One caller giving up must not fail the shared verification for the
	// others, so the request runs detached from ctx.
	ch := s.verify.DoChan(token, func() (any, error) {
		return nil, s.auth.Verify(context.WithoutCancel(ctx), token)
	})

	select {
	case <-ctx.Done():
		return false
	case res := <-ch:
		if res.Err == nil {
			return true
		}
		if s.clear(ctx, token) {
			s.log.Warn(ctx, "token rejected, session ended", "err", res.Err)
		}
		return false
	}
}

// IsAuthenticated needs a stored token and user, then asks the backend
// through Validate, so it blocks on the network.
func (s *Store) IsAuthenticated(ctx context.Context) bool {
	s.mu.RLock()
	ok := s.token != "" && s.user != nil
	s.mu.RUnlock()
	return ok && s.Validate(ctx)
}

// Logout ends the session locally and then tells the backend. The backend
// call is best effort.
func (s *Store) Logout(ctx context.Context) Result {
	token := s.Token()
	s.clear(ctx, "")

	if token != "" {
		if err := s.auth.Logout(ctx, token); err != nil {
			s.log.Warn(ctx, "server logout failed", "err", err)
		}
	}
	return Result{Success: true, Message: "Signed out."}
}

// Invalidate drops the session without contacting the backend. It is the
// hook for 401 responses.
func (s *Store) Invalidate(ctx context.Context) {
	if s.clear(ctx, "") {
		s.log.Info(ctx, "session invalidated by backend")
	}
}

// clear empties memory and storage. When only is set, it clears only
// while that token is still current, so a stale verdict cannot end a newer
// session. It reports whether there was anything to clear.
func (s *Store) clear(ctx context.Context, only string) bool {
	s.mu.Lock()
	if only != "" && s.token != only {
		s.mu.Unlock()
		return false
	}
	had := s.token != "" || s.user != nil
	s.token = ""
	s.user = nil
	s.mu.Unlock()

	if err := s.kv.DeleteAll(ctx, common.AuthTokenKey, common.UserKey); err != nil {
		s.log.Error(ctx, "failed to erase persisted session", "err", err)
	}
	return had
}
