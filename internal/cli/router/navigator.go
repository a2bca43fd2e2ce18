package router

import (
	"sync"

	"github.com/rs/zerolog"
)

// Navigator tracks the current location and its history. Every move goes
// through the guard.
type Navigator struct {
	mu      sync.Mutex
	table   *Table
	session SessionReader
	current Location
	history []Location
	log     zerolog.Logger
}

// NavigatorOption configures a Navigator
type NavigatorOption func(*Navigator)

// WithNavigatorLogger sets the logger
func WithNavigatorLogger(log zerolog.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.log = log
	}
}

// NewNavigator starts at the home route
func NewNavigator(table *Table, session SessionReader, opts ...NavigatorOption) *Navigator {
	n := &Navigator{
		table:   table,
		session: session,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(n)
	}

	home, err := table.Lookup(HomeRoute, nil, nil)
	if err != nil {
		home, _ = table.Resolve("/")
	}
	n.current = home

	return n
}

// Table returns the route table
func (n *Navigator) Table() *Table {
	return n.table
}

// Push navigates to path, keeping the current location in history
func (n *Navigator) Push(path string) (Decision, error) {
	return n.navigate(path, true)
}

// Replace navigates to path without adding a history entry
func (n *Navigator) Replace(path string) (Decision, error) {
	return n.navigate(path, false)
}

// ReplaceRoute navigates to a named route without adding a history entry
func (n *Navigator) ReplaceRoute(name string) error {
	loc, err := n.table.Lookup(name, nil, nil)
	if err != nil {
		return err
	}
	n.apply(loc, false)
	return nil
}

func (n *Navigator) navigate(path string, push bool) (Decision, error) {
	to, err := n.table.Resolve(path)
	if err != nil {
		return Decision{}, err
	}

	decision := n.table.Evaluate(Intent{To: to, From: n.Current()}, n.session)
	if decision.Outcome != Allowed {
		n.log.Debug().
			Str("path", to.FullPath()).
			Str("outcome", decision.Outcome.String()).
			Str("target", decision.Target.FullPath()).
			Msg("Navigation redirected")
	}

	n.apply(decision.Target, push)
	return decision, nil
}

func (n *Navigator) apply(loc Location, push bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if push {
		n.history = append(n.history, n.current)
	}
	n.current = loc
}

// Back returns to the previous location. The guard runs again, since the
// session may have changed since the location was visited.
func (n *Navigator) Back() (Decision, bool) {
	n.mu.Lock()
	if len(n.history) == 0 {
		n.mu.Unlock()
		return Decision{}, false
	}
	prev := n.history[len(n.history)-1]
	n.history = n.history[:len(n.history)-1]
	from := n.current
	n.mu.Unlock()

	decision := n.table.Evaluate(Intent{To: prev, From: from}, n.session)
	n.apply(decision.Target, false)
	return decision, true
}

// Current returns the current location
func (n *Navigator) Current() Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// PendingRedirect returns where to go after a successful login: the
// redirect query of the current login location, or empty.
func (n *Navigator) PendingRedirect() string {
	current := n.Current()
	if current.Name != LoginRoute {
		return ""
	}
	return current.Query.Get("redirect")
}
