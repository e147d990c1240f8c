package haka

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dqx0.com/go/haka/internal/obs"
)

// normalizePath produces the canonical form of a path segment: it
// always starts with "/" and never ends with "/" unless it is exactly
// "/". It is total and idempotent, and is the single source of truth
// for path equality in the route table.
func normalizePath(p string) string {
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	return p
}

// joinPrefix combines an already-normalized prefix with a path
// segment. Concatenation is textual, not filesystem-aware.
func joinPrefix(prefix, p string) string {
	return normalizePath(prefix + normalizePath(p))
}

type staticMount struct {
	prefix string // normalized URL prefix
	fsRoot string // filesystem root, stored as given
}

// Router maps (method, normalized path) pairs to handlers and keeps
// an ordered list of static-file mounts. It is mutated only during
// setup, before the server starts accepting, and is then shared
// read-only across connections.
type Router struct {
	log    obs.Logger
	routes map[string]Handler
	static []staticMount
}

// NewRouter returns an empty router. A nil logger disables logging.
func NewRouter(log obs.Logger) *Router {
	if log == nil {
		log = obs.NopLogger{}
	}
	return &Router{
		log:    log,
		routes: make(map[string]Handler),
	}
}

// Handle registers a handler under method and the normalized path. A
// later registration with the same method and path silently replaces
// the earlier one.
func (r *Router) Handle(method, path string, h Handler) {
	r.addRoute(method, normalizePath(path), h)
}

// Get registers a handler for GET requests at path.
func (r *Router) Get(path string, h HandlerFunc) {
	r.Handle("GET", path, h)
}

// Post registers a handler for POST requests at path.
func (r *Router) Post(path string, h HandlerFunc) {
	r.Handle("POST", path, h)
}

// ServeStatic mounts a filesystem directory under a URL prefix.
// Mount order is match order: the first mount whose prefix matches
// and whose resolved file exists wins. fsRoot is not validated here.
func (r *Router) ServeStatic(prefix, fsRoot string) {
	clean := normalizePath(prefix)
	r.static = append(r.static, staticMount{prefix: clean, fsRoot: fsRoot})
	r.log.Logf(obs.Info, "serving static files from %q at URL prefix %q", fsRoot, clean)
}

// Group runs fn with a builder that prefixes every route registered
// through it. The builder is transient: it exists only for the
// duration of fn and the router itself carries no registration state.
func (r *Router) Group(prefix string, fn func(*Group)) {
	g := &Group{r: r, prefix: normalizePath(prefix)}
	r.log.Logf(obs.Info, "entering route group with prefix %q", g.prefix)
	fn(g)
	r.log.Logf(obs.Info, "exiting route group %q", g.prefix)
}

// Group scopes route registration under an accumulated URL prefix.
// Groups nest without limit; values are only valid inside the
// callback that received them.
type Group struct {
	r      *Router
	prefix string
}

// Handle registers a handler under method and the group-prefixed path.
func (g *Group) Handle(method, path string, h Handler) {
	g.r.addRoute(method, joinPrefix(g.prefix, path), h)
}

// Get registers a handler for GET requests at the group-prefixed path.
func (g *Group) Get(path string, h HandlerFunc) {
	g.Handle("GET", path, h)
}

// Post registers a handler for POST requests at the group-prefixed path.
func (g *Group) Post(path string, h HandlerFunc) {
	g.Handle("POST", path, h)
}

// ServeStatic mounts a directory under the group-prefixed URL prefix.
func (g *Group) ServeStatic(prefix, fsRoot string) {
	g.r.ServeStatic(joinPrefix(g.prefix, prefix), fsRoot)
}

// Group creates a nested group whose prefix extends this one.
func (g *Group) Group(prefix string, fn func(*Group)) {
	fn(&Group{r: g.r, prefix: joinPrefix(g.prefix, prefix)})
}

// Mount copies every explicit route and static mount of sub into r,
// re-prefixed under prefix. The copy is one-time and eager: later
// changes to sub are not reflected, and sub remains independently
// usable.
func (r *Router) Mount(prefix string, sub *Router) {
	mp := normalizePath(prefix)
	r.log.Logf(obs.Info, "mounting router at prefix %q", mp)

	for key, h := range sub.routes {
		method, path, ok := strings.Cut(key, " ")
		if !ok {
			continue
		}
		full := joinPrefix(mp, path)
		r.routes[method+" "+full] = h
		r.log.Logf(obs.Info, "mounted route: %s %s", method, full)
	}

	for _, m := range sub.static {
		full := joinPrefix(mp, m.prefix)
		r.static = append(r.static, staticMount{prefix: full, fsRoot: m.fsRoot})
		r.log.Logf(obs.Info, "mounted static path %q at URL prefix %q", m.fsRoot, full)
	}
}

func (r *Router) addRoute(method, path string, h Handler) {
	r.routes[method+" "+path] = h
	r.log.Logf(obs.Info, "registered route: %s %s", method, path)
}

// Match resolves a request to a handler. Static mounts are checked
// first in insertion order, then explicit routes by exact key; if
// nothing matches, the returned handler produces a 404.
func (r *Router) Match(req *Request) Handler {
	r.log.Logf(obs.Debug, "matching request: %s %s", req.Method, req.Path)

	for _, m := range r.static {
		if h := r.matchStatic(req, m); h != nil {
			return h
		}
	}

	key := req.Method + " " + normalizePath(req.Path)
	if h, ok := r.routes[key]; ok {
		r.log.Logf(obs.Info, "matched explicit route: %s %s", req.Method, req.Path)
		return h
	}
	r.log.Logf(obs.Debug, "no explicit route for key %q", key)

	r.log.Logf(obs.Info, "route not found: %s %s", req.Method, req.Path)
	notFound := fmt.Sprintf("Not found: %s", req.Path)
	return HandlerFunc(func(_ *Request, res *Response) {
		res.StatusCode = 404
		res.Text(notFound)
	})
}

// matchStatic resolves the request against one static mount. It
// returns nil when the mount does not apply and the search should
// move on, which covers both a non-matching prefix and a resolved
// file that is missing or not regular. A path that canonicalizes
// outside the mount root short-circuits with a 400 handler and never
// falls through to later mounts or explicit routes.
func (r *Router) matchStatic(req *Request, m staticMount) Handler {
	matches := req.Path == m.prefix ||
		(m.prefix != "/" && req.PathStartsWith(m.prefix+"/")) ||
		(m.prefix == "/" && req.PathStartsWith("/"))
	if !matches {
		r.log.Logf(obs.Debug, "path %q does not match static prefix %q", req.Path, m.prefix)
		return nil
	}

	var sub string
	if m.prefix == "/" {
		sub = req.Path
	} else {
		sub = req.PathAfterPrefix(m.prefix)
	}
	if sub == "" || sub == "/" {
		sub = "/index.html"
	}

	rootAbs, err := filepath.Abs(m.fsRoot)
	if err != nil {
		r.log.Logf(obs.Debug, "cannot resolve static root %q: %v", m.fsRoot, err)
		return nil
	}
	full := filepath.Join(rootAbs, strings.TrimPrefix(sub, "/"))
	r.log.Logf(obs.Debug, "attempting to serve file: %s", full)

	// Canonicalize both sides to resolve symlinks and "..". If either
	// side cannot be canonicalized (typically: the target does not
	// exist) the existence check below decides instead.
	canonRoot, rootErr := filepath.EvalSymlinks(rootAbs)
	canonFull, fullErr := filepath.EvalSymlinks(full)
	if rootErr == nil && fullErr == nil {
		if !strings.HasPrefix(canonFull, canonRoot) {
			r.log.Logf(obs.Warn, "attempted directory traversal: %s", req.Path)
			return HandlerFunc(func(_ *Request, res *Response) {
				res.StatusCode = 400
				res.Text("Invalid path.")
			})
		}
	} else if fullErr != nil {
		r.log.Logf(obs.Debug, "canonical path check for %q: %v", req.Path, fullErr)
	}

	info, err := os.Stat(full)
	if err != nil || !info.Mode().IsRegular() {
		r.log.Logf(obs.Debug, "static file missing or not regular: %s", full)
		return nil
	}

	r.log.Logf(obs.Info, "serving static file: %s", full)
	return HandlerFunc(func(_ *Request, res *Response) {
		res.SendFile(full)
	})
}
