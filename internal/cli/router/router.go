// Package router maps client paths to named routes and decides, per
// navigation attempt, whether the held session may reach the target.
package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const (
	HomeRoute  = "Home"
	LoginRoute = "Login"
)

var (
	ErrEmptyPath       = errors.New("route path is empty")
	ErrDuplicateName   = errors.New("duplicate route name")
	ErrDuplicatePath   = errors.New("duplicate route path")
	ErrConflictingMeta = errors.New("public route cannot require auth or admin")
	ErrUnknownRedirect = errors.New("redirect target matches no route")
	ErrMissingRoute    = errors.New("required route is missing")
	ErrGuardedFallback = errors.New("fallback route must not be guarded")
	ErrNoRoute         = errors.New("no route matches path")
	ErrUnknownRoute    = errors.New("unknown route name")
	ErrMissingParam    = errors.New("missing route parameter")
)

// Meta holds the flags a route is guarded by
type Meta struct {
	RequiresAuth  bool
	RequiresAdmin bool
	// Public marks pages meant for signed-out visitors (login, register).
	// It is a declaration only and cannot be combined with the guards.
	Public     bool
	HideFooter bool
}

// Route describes one entry in the route table. A route with Redirect set
// has no page of its own and forwards to the route matching Redirect.
type Route struct {
	Name     string
	Path     string
	Meta     Meta
	Redirect string
}

type segment struct {
	literal  string
	param    string
	optional bool
	catchAll bool
}

type compiledRoute struct {
	Route
	segments []segment
}

// Table is an immutable, validated set of routes
type Table struct {
	routes []*compiledRoute
	byName map[string]*compiledRoute
}

// NewTable validates routes and compiles their patterns. Routes are matched
// in the order given.
func NewTable(routes []Route) (*Table, error) {
	t := &Table{byName: make(map[string]*compiledRoute)}
	paths := make(map[string]bool)

	for _, r := range routes {
		if strings.TrimSpace(r.Path) == "" {
			return nil, fmt.Errorf("%w (route %q)", ErrEmptyPath, r.Name)
		}
		if r.Meta.Public && (r.Meta.RequiresAuth || r.Meta.RequiresAdmin) {
			return nil, fmt.Errorf("%w: %s", ErrConflictingMeta, r.Path)
		}
		if paths[r.Path] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePath, r.Path)
		}
		paths[r.Path] = true

		compiled := &compiledRoute{Route: r, segments: compile(r.Path)}
		if r.Name != "" {
			if _, exists := t.byName[r.Name]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateName, r.Name)
			}
			t.byName[r.Name] = compiled
		}
		t.routes = append(t.routes, compiled)
	}

	for _, r := range t.routes {
		if r.Redirect == "" {
			continue
		}
		if _, ok := t.matchPage(splitPath(r.Redirect)); !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownRedirect, r.Path, r.Redirect)
		}
	}

	if err := t.checkFallback(HomeRoute, func(m Meta) bool { return m.RequiresAdmin }); err != nil {
		return nil, err
	}
	if err := t.checkFallback(LoginRoute, func(m Meta) bool { return m.RequiresAuth }); err != nil {
		return nil, err
	}

	return t, nil
}

// checkFallback makes sure the route guarded redirects land on exists and
// is reachable without a session, so a redirect cannot loop.
func (t *Table) checkFallback(name string, needed func(Meta) bool) error {
	fallback, ok := t.byName[name]
	if !ok {
		for _, r := range t.routes {
			if needed(r.Meta) {
				return fmt.Errorf("%w: %s (needed by %s)", ErrMissingRoute, name, r.Path)
			}
		}
		return nil
	}
	if fallback.Meta.RequiresAuth || fallback.Meta.RequiresAdmin {
		return fmt.Errorf("%w: %s", ErrGuardedFallback, name)
	}
	return nil
}

func compile(pattern string) []segment {
	parts := splitPath(pattern)
	segments := make([]segment, 0, len(parts))
	for _, part := range parts {
		if !strings.HasPrefix(part, ":") {
			segments = append(segments, segment{literal: part})
			continue
		}
		name := strings.TrimPrefix(part, ":")
		if strings.HasSuffix(name, "(.*)") {
			segments = append(segments, segment{param: strings.TrimSuffix(name, "(.*)"), catchAll: true})
			continue
		}
		optional := strings.HasSuffix(name, "?")
		segments = append(segments, segment{param: strings.TrimSuffix(name, "?"), optional: optional})
	}
	return segments
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// match reports the params captured when parts fit the route's pattern
func (r *compiledRoute) match(parts []string) (map[string]string, bool) {
	params := make(map[string]string)
	for i, seg := range r.segments {
		if seg.catchAll {
			params[seg.param] = strings.Join(parts[min(i, len(parts)):], "/")
			return params, true
		}
		if i >= len(parts) {
			if !seg.optional {
				return nil, false
			}
			continue
		}
		if seg.param != "" {
			params[seg.param] = parts[i]
			continue
		}
		if seg.literal != parts[i] {
			return nil, false
		}
	}
	if len(parts) > len(r.segments) {
		return nil, false
	}
	return params, true
}

func (t *Table) matchPage(parts []string) (*compiledRoute, bool) {
	for _, r := range t.routes {
		if r.Redirect != "" {
			continue
		}
		if _, ok := r.match(parts); ok {
			return r, true
		}
	}
	return nil, false
}

// Routes returns the routes in match order
func (t *Table) Routes() []Route {
	routes := make([]Route, len(t.routes))
	for i, r := range t.routes {
		routes[i] = r.Route
	}
	return routes
}

// Route returns the route registered under name
func (t *Table) Route(name string) (Route, bool) {
	r, ok := t.byName[name]
	if !ok {
		return Route{}, false
	}
	return r.Route, true
}

// Resolve turns a client path such as "/product/3?tab=reviews" into a
// location, following at most one redirect.
func (t *Table) Resolve(target string) (Location, error) {
	u, err := url.Parse(target)
	if err != nil {
		return Location{}, fmt.Errorf("invalid path %q: %w", target, err)
	}

	for _, r := range t.routes {
		if _, ok := r.match(splitPath(u.Path)); !ok {
			continue
		}
		if r.Redirect == "" {
			return t.locate(u)
		}
		redirect, err := url.Parse(r.Redirect)
		if err != nil {
			return Location{}, fmt.Errorf("invalid redirect %q: %w", r.Redirect, err)
		}
		return t.locate(redirect)
	}

	return Location{}, fmt.Errorf("%w: %s", ErrNoRoute, u.Path)
}

// locate resolves u against page routes only
func (t *Table) locate(u *url.URL) (Location, error) {
	parts := splitPath(u.Path)
	r, ok := t.matchPage(parts)
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrNoRoute, u.Path)
	}
	params, _ := r.match(parts)

	return Location{
		Name:   r.Name,
		Path:   normalize(u.Path),
		Params: params,
		Query:  u.Query(),
		Meta:   r.Meta,
	}, nil
}

// Lookup builds the location of the named route from params and query
func (t *Table) Lookup(name string, params map[string]string, query url.Values) (Location, error) {
	r, ok := t.byName[name]
	if !ok {
		return Location{}, fmt.Errorf("%w: %s", ErrUnknownRoute, name)
	}

	var b strings.Builder
	captured := make(map[string]string)
	for _, seg := range r.segments {
		value := seg.literal
		if seg.param != "" {
			value = params[seg.param]
			if value == "" {
				if seg.optional || seg.catchAll {
					continue
				}
				return Location{}, fmt.Errorf("%w: %s needs %q", ErrMissingParam, name, seg.param)
			}
			captured[seg.param] = value
			value = url.PathEscape(value)
		}
		b.WriteString("/")
		b.WriteString(value)
	}

	path := b.String()
	if path == "" {
		path = "/"
	}
	if query == nil {
		query = url.Values{}
	}

	return Location{Name: name, Path: path, Params: captured, Query: query, Meta: r.Meta}, nil
}

func normalize(path string) string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return "/"
	}
	return "/" + trimmed
}

// Location is a resolved navigation target
type Location struct {
	Name   string
	Path   string
	Params map[string]string
	Query  url.Values
	Meta   Meta
}

// FullPath is the path with its encoded query, as used in redirect links
func (l Location) FullPath() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// Param returns a captured path parameter
func (l Location) Param(name string) string {
	return l.Params[name]
}
