package router

import (
	"net/url"
)

// SessionReader is the view of the session the guard decides on
type SessionReader interface {
	Authenticated() bool
	IsAdmin() bool
}

// Outcome is the result of evaluating one navigation attempt
type Outcome int

const (
	Allowed Outcome = iota
	RedirectedToLogin
	RedirectedHome
)

func (o Outcome) String() string {
	switch o {
	case Allowed:
		return "allowed"
	case RedirectedToLogin:
		return "redirected to login"
	case RedirectedHome:
		return "redirected home"
	default:
		return "unknown"
	}
}

// Intent is a single navigation attempt
type Intent struct {
	To   Location
	From Location
}

// Decision carries the outcome and the location navigation ends up at
type Decision struct {
	Outcome Outcome
	Target  Location
}

// Evaluate applies the guard rules in order:
//  1. auth required and no token: login, remembering the intended path
//  2. admin required and the user is not an admin: home
//  3. otherwise the target is allowed
//
// It reads the session and never changes it.
func (t *Table) Evaluate(intent Intent, s SessionReader) Decision {
	meta := intent.To.Meta

	if meta.RequiresAuth && !s.Authenticated() {
		query := url.Values{}
		query.Set("redirect", intent.To.FullPath())
		login, err := t.Lookup(LoginRoute, nil, query)
		if err != nil {
			login = Location{Name: LoginRoute, Path: "/login", Query: query}
		}
		return Decision{Outcome: RedirectedToLogin, Target: login}
	}

	if meta.RequiresAdmin && !s.IsAdmin() {
		home, err := t.Lookup(HomeRoute, nil, nil)
		if err != nil {
			home = Location{Name: HomeRoute, Path: "/", Query: url.Values{}}
		}
		return Decision{Outcome: RedirectedHome, Target: home}
	}

	return Decision{Outcome: Allowed, Target: intent.To}
}
