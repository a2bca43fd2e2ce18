// Package app wires the storefront client together: session, router, HTTP
// client, stores and views, built from the loaded configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/rs/zerolog"

	"github.com/shopfront-dev/shopfront/internal/cli/client"
	"github.com/shopfront-dev/shopfront/internal/cli/router"
	"github.com/shopfront-dev/shopfront/internal/cli/session"
	"github.com/shopfront-dev/shopfront/internal/cli/store"
	"github.com/shopfront-dev/shopfront/internal/cli/views"
	"github.com/shopfront-dev/shopfront/internal/config"
	"github.com/shopfront-dev/shopfront/internal/logger"
)

var (
	ErrSignInRequired = errors.New("sign in required, run 'shopfront login'")
	ErrAdminRequired  = errors.New("admin access required")
)

// App is one client instance
type App struct {
	Config    *config.Config
	Log       zerolog.Logger
	Session   *session.Store
	Navigator *router.Navigator
	Client    *client.Client
	Stores    *store.Stores
	Views     *views.Renderer
	Out       io.Writer

	closer io.Closer
}

type options struct {
	persister  session.Persister
	httpClient *http.Client
	out        io.Writer
	log        *zerolog.Logger
	routes     []router.Route
}

// Option configures an App
type Option func(*options)

// WithPersister replaces the persister the config selects
func WithPersister(p session.Persister) Option {
	return func(o *options) {
		o.persister = p
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(o *options) {
		o.httpClient = hc
	}
}

// WithOutput sets where views are written (default stdout)
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLogger sets the logger (default: a stderr logger from the config)
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = &log
	}
}

// WithRoutes replaces the default route table
func WithRoutes(routes []router.Route) Option {
	return func(o *options) {
		o.routes = routes
	}
}

// New builds an App. The session is rehydrated from the persister; no
// network call is made.
func New(cfg *config.Config, opts ...Option) (*App, error) {
	o := &options{
		out:    os.Stdout,
		routes: router.DefaultRoutes(),
	}
	for _, opt := range opts {
		opt(o)
	}

	var log zerolog.Logger
	if o.log != nil {
		log = *o.log
	} else {
		log = logger.New(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	}

	table, err := router.NewTable(o.routes)
	if err != nil {
		return nil, fmt.Errorf("invalid route table: %w", err)
	}

	a := &App{Config: cfg, Log: log, Out: o.out}

	persister := o.persister
	if persister == nil {
		persister, a.closer, err = NewPersister(cfg)
		if err != nil {
			return nil, err
		}
	}

	a.Session = session.New(persister, session.WithLogger(log.With().Str("component", "session").Logger()))
	a.Navigator = router.NewNavigator(table, a.Session, router.WithNavigatorLogger(log.With().Str("component", "router").Logger()))

	clientOpts := []client.Option{
		client.WithTokenSource(a.Session),
		client.WithUnauthorizedHandler(a.Session.Expire),
		client.WithLogger(log.With().Str("component", "client").Logger()),
	}
	if o.httpClient != nil {
		clientOpts = append(clientOpts, client.WithHTTPClient(o.httpClient))
	}
	clientOpts = append(clientOpts, client.WithTimeout(cfg.API.Timeout))
	a.Client = client.New(cfg.API.BaseURL, clientOpts...)

	a.Session.Bind(a.Client, a.Navigator)

	a.Stores = store.New(a.Client, log)
	a.Views = views.New(a.Out, a.Stores, a.Session)

	return a, nil
}

// NewPersister builds the persister the config selects. The returned closer
// is non-nil when the persister holds a resource.
func NewPersister(cfg *config.Config) (session.Persister, io.Closer, error) {
	switch cfg.Session.Backend {
	case config.BackendMemory:
		return session.NewMemoryPersister(session.Session{}), nil, nil
	case config.BackendKeyring:
		return session.NewKeyringPersister(cfg.API.BaseURL), nil, nil
	}

	path, err := cfg.SessionPath()
	if err != nil {
		return nil, nil, err
	}

	switch cfg.Session.Backend {
	case config.BackendFile:
		return session.NewFilePersister(path, cfg.API.BaseURL), nil, nil
	case config.BackendSQLite:
		p, err := session.NewSQLitePersister(path, cfg.API.BaseURL)
		if err != nil {
			return nil, nil, err
		}
		return p, p, nil
	default:
		return nil, nil, fmt.Errorf("invalid session backend '%s'", cfg.Session.Backend)
	}
}

// Open navigates to path through the guard and renders wherever navigation
// lands. If the session expires while the view loads, the login view is
// rendered after it.
func (a *App) Open(ctx context.Context, path string) (router.Decision, error) {
	decision, err := a.Navigator.Push(path)
	if err != nil {
		return decision, err
	}

	switch decision.Outcome {
	case router.RedirectedToLogin:
		fmt.Fprintf(a.Out, "Sign in required for %s\n\n", decision.Target.Query.Get("redirect"))
	case router.RedirectedHome:
		fmt.Fprintln(a.Out, "Admin access required")
		fmt.Fprintln(a.Out)
	}

	return decision, a.Render(ctx)
}

// Require navigates to path without rendering and fails unless the guard
// allows it. Commands call it before acting on a page.
func (a *App) Require(path string) error {
	decision, err := a.Navigator.Push(path)
	if err != nil {
		return err
	}

	switch decision.Outcome {
	case router.RedirectedToLogin:
		return ErrSignInRequired
	case router.RedirectedHome:
		return ErrAdminRequired
	}
	return nil
}

// Render draws the current location
func (a *App) Render(ctx context.Context) error {
	loc := a.Navigator.Current()
	if err := a.Views.Render(ctx, loc); err != nil {
		return err
	}

	if now := a.Navigator.Current(); now.Name == router.LoginRoute && loc.Name != router.LoginRoute {
		fmt.Fprintln(a.Out, "\nYour session has expired. Please sign in again.")
		fmt.Fprintln(a.Out)
		return a.Views.Render(ctx, now)
	}
	return nil
}

// Close releases the persister
func (a *App) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}
