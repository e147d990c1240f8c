package haka

import "strings"

// Request represents the one incoming HTTP request a connection
// serves. It is immutable once parsing completes and is owned by its
// connection for the request/response cycle; bodies are never read.
type Request struct {
	Method string
	Path   string
	Proto  string // read from the request line and otherwise unused
	Header Header
}

// PathStartsWith reports whether the request path starts with prefix.
func (r *Request) PathStartsWith(prefix string) bool {
	return strings.HasPrefix(r.Path, prefix)
}

// PathAfterPrefix returns the part of the path after prefix: "/" when
// the path equals the prefix exactly, and the path unchanged when the
// prefix does not match.
func (r *Request) PathAfterPrefix(prefix string) string {
	if !r.PathStartsWith(prefix) {
		return r.Path
	}
	if len(r.Path) == len(prefix) {
		return "/"
	}
	return r.Path[len(prefix):]
}
