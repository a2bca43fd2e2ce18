// Package session owns the client's authentication state: the bearer token
// and the profile of the user it belongs to. The state is rehydrated from a
// Persister at startup and written through on every change.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/models"
)

// LoginRoute is the route logout and expiry navigate to
const LoginRoute = "Login"

// ErrNotBound is returned when a network action runs before Bind
var ErrNotBound = errors.New("session store has no API bound")

// Session is the client-side authentication state. Token is set iff the
// user is authenticated.
type Session struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user,omitempty"`
}

// Authenticated reports whether a token is held
func (s Session) Authenticated() bool {
	return s.Token != ""
}

func (s Session) clone() Session {
	if s.User != nil {
		user := *s.User
		s.User = &user
	}
	return s
}

// AuthAPI is the part of the REST client the store calls
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.AuthResult, error)
	Register(ctx context.Context, email, password string) (*models.AuthResult, error)
	Me(ctx context.Context) (*models.User, error)
}

// Redirector forces navigation to a named route
type Redirector interface {
	ReplaceRoute(name string) error
}

// Store holds the current session. Field access is synchronized, network
// calls are not: two racing logins resolve to whichever response lands last.
type Store struct {
	mu         sync.RWMutex
	session    Session
	persister  Persister
	api        AuthAPI
	redirector Redirector
	log        zerolog.Logger
}

// Option configures a Store
type Option func(*Store)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) {
		s.log = log
	}
}

// New rehydrates a store from p. An unreadable or partial record (token
// without user, or user without token) starts an empty session.
func New(p Persister, opts ...Option) *Store {
	s := &Store{
		persister: p,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	loaded, err := p.Load()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to load persisted session, starting signed out")
		loaded = Session{}
	}
	if !loaded.Authenticated() || loaded.User == nil {
		loaded = Session{}
	}
	s.session = loaded

	return s
}

// Bind connects the store to the REST client and the navigator. The HTTP
// client in turn reads Token and reports 401s to Expire, so the three are
// wired after construction.
func (s *Store) Bind(api AuthAPI, redirector Redirector) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
	s.redirector = redirector
}

// Login authenticates against /auth/login and replaces the session.
// Rejections are returned unchanged.
func (s *Store) Login(ctx context.Context, email, password string) (*models.User, error) {
	api, err := s.boundAPI()
	if err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "login", api.Login, email, password)
}

// Register creates an account against /auth/register and replaces the session
func (s *Store) Register(ctx context.Context, email, password string) (*models.User, error) {
	api, err := s.boundAPI()
	if err != nil {
		return nil, err
	}
	return s.authenticate(ctx, "register", api.Register, email, password)
}

type authCall func(ctx context.Context, email, password string) (*models.AuthResult, error)

func (s *Store) authenticate(ctx context.Context, action string, call authCall, email, password string) (*models.User, error) {
	result, err := call(ctx, email, password)
	if err != nil {
		return nil, err
	}

	user := result.User
	next := Session{Token: result.Token, User: &user}

	if err := s.persister.Save(next); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	s.mu.Lock()
	s.session = next.clone()
	s.mu.Unlock()

	s.log.Info().Str("action", action).Int64("user_id", user.ID).Bool("admin", user.IsAdmin).Msg("Session started")

	return &user, nil
}

// Logout clears the session, persists the cleared state and navigates to
// the login route. It never fails; persistence problems are logged.
func (s *Store) Logout() {
	s.clear()
	s.log.Info().Msg("Logged out")
}

// Expire is the 401 handler for the HTTP client. It has the same effect as Logout.
func (s *Store) Expire(cause error) {
	s.log.Warn().Err(cause).Msg("Session rejected by the server, signing out")
	s.clear()
}

func (s *Store) clear() {
	s.mu.Lock()
	s.session = Session{}
	redirector := s.redirector
	s.mu.Unlock()

	if err := s.persister.Clear(); err != nil {
		s.log.Error().Err(err).Msg("Failed to clear persisted session")
	}

	if redirector != nil {
		if err := redirector.ReplaceRoute(LoginRoute); err != nil {
			s.log.Error().Err(err).Msg("Failed to navigate to login")
		}
	}
}

// RefreshProfile reloads the user from /auth/me. Without a token it does
// nothing. On failure the previous profile is kept and a warning is logged.
func (s *Store) RefreshProfile(ctx context.Context) {
	token := s.Token()
	if token == "" {
		return
	}

	api, err := s.boundAPI()
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to refresh profile")
		return
	}

	user, err := api.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to refresh profile")
		return
	}

	s.mu.Lock()
	if s.session.Token != token {
		// Signed out or signed in as someone else while the request was in flight
		s.mu.Unlock()
		return
	}
	s.session.User = user
	snapshot := s.session.clone()
	s.mu.Unlock()

	if err := s.persister.Save(snapshot); err != nil {
		s.log.Warn().Err(err).Msg("Failed to save refreshed profile")
	}
}

func (s *Store) boundAPI() (AuthAPI, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.api == nil {
		return nil, ErrNotBound
	}
	return s.api, nil
}

// Token returns the bearer token, or empty string
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Token
}

// User returns a copy of the profile, or nil
func (s *Store) User() *models.User {
	return s.Snapshot().User
}

// Authenticated reports whether a token is held
func (s *Store) Authenticated() bool {
	return s.Token() != ""
}

// IsAdmin reports whether the held profile has the admin flag
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.User != nil && s.session.User.IsAdmin
}

// Snapshot returns a copy of the session
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.clone()
}

// TokenExpiry reads the exp claim of the held token without verifying the
// signature. It is informational only; the server remains the authority.
func (s *Store) TokenExpiry() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}

	return exp.Time, true
}
