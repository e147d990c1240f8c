package haka

import (
	"errors"
	"io"
	"net"
	"sync"

	"dqx0.com/go/haka/internal/obs"
)

// Server accepts TCP connections and serves one HTTP request per
// connection through its router. The zero value is usable; configure
// Addr, Log, and Meter before the first registration or Serve call.
type Server struct {
	Addr  string     // listen address, ":8080" if empty
	Log   obs.Logger // nil disables logging
	Meter obs.Meter  // nil disables metrics

	mu  sync.Mutex
	mux *Router
	ln  net.Listener
}

// Router returns the server's router, creating it on first use.
func (s *Server) Router() *Router {
	if s.mux == nil {
		s.mux = NewRouter(s.logger())
	}
	return s.mux
}

// Get registers a handler for GET requests at path.
func (s *Server) Get(path string, h HandlerFunc) { s.Router().Get(path, h) }

// Post registers a handler for POST requests at path.
func (s *Server) Post(path string, h HandlerFunc) { s.Router().Post(path, h) }

// ServeStatic mounts a filesystem directory under a URL prefix.
func (s *Server) ServeStatic(prefix, fsRoot string) { s.Router().ServeStatic(prefix, fsRoot) }

// Group runs fn with a route-group builder for prefix.
func (s *Server) Group(prefix string, fn func(*Group)) { s.Router().Group(prefix, fn) }

// Mount merges a sub-router into the server's router under prefix.
func (s *Server) Mount(prefix string, sub *Router) { s.Router().Mount(prefix, sub) }

// ListenAndServe listens on the configured address and serves until
// the listener fails or Close is called.
func (s *Server) ListenAndServe() error {
	addr := s.Addr
	if addr == "" {
		addr = ":8080"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on l until it is closed, spawning one
// goroutine per accepted connection. There is no connection cap or
// backpressure; a failed accept is logged and the loop continues.
func (s *Server) Serve(l net.Listener) error {
	s.mu.Lock()
	s.ln = l
	s.mu.Unlock()
	defer l.Close()

	// Materialize the router before the first connection goroutine
	// exists; from here on it is read-only.
	s.Router()

	s.logf(obs.Info, "haka server accepting on %s", l.Addr())
	for {
		c, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				s.logf(obs.Info, "haka server stopped")
				return nil
			}
			s.logf(obs.Error, "accept error: %v", err)
			continue
		}
		s.meter().Counter("haka_connections_accepted", 1)
		s.logf(obs.Info, "new connection from %s", c.RemoteAddr())
		go newConn(c, s).serve()
	}
}

// Close closes the listener, unblocking Serve. In-flight connections
// finish on their own.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return nil
	}
	return s.ln.Close()
}

func (s *Server) logger() obs.Logger {
	if s.Log == nil {
		return obs.NopLogger{}
	}
	return s.Log
}

func (s *Server) meter() obs.Meter {
	if s.Meter == nil {
		return obs.NopMeter{}
	}
	return s.Meter
}

func (s *Server) logf(level obs.Level, format string, args ...interface{}) {
	s.logger().Logf(level, format, args...)
}

// benignErr reports errors that mean the peer or this side went away
// normally. They end a connection without an error log.
func benignErr(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}
