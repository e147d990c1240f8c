package haka

import (
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dqx0.com/go/haka/internal/obs"
)

func startServer(t *testing.T, cfg func(*Server)) (*Server, string) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &Server{}
	if cfg != nil {
		cfg(s)
	}
	go func() { _ = s.Serve(ln) }()
	t.Cleanup(func() { _ = s.Close() })
	return s, ln.Addr().String()
}

// roundTrip writes one raw request and reads the connection to EOF.
func roundTrip(t *testing.T, addr, raw string) string {
	t.Helper()
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if _, err := c.Write([]byte(raw)); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	return string(b)
}

func splitResponse(t *testing.T, raw string) (statusLine string, headers []string, body string) {
	t.Helper()
	head, body, ok := strings.Cut(raw, "\r\n\r\n")
	if !ok {
		t.Fatalf("no header terminator in response: %q", raw)
	}
	lines := strings.Split(head, "\r\n")
	return lines[0], lines[1:], body
}

func TestServerServesRoute(t *testing.T) {
	_, addr := startServer(t, func(s *Server) {
		s.Get("/greet", func(req *Request, res *Response) {
			res.Text("hello there")
		})
	})

	raw := roundTrip(t, addr, "GET /greet HTTP/1.1\r\nHost: test\r\n\r\n")
	status, headers, body := splitResponse(t, raw)
	if status != "HTTP/1.1 200 OK" {
		t.Fatalf("status line = %q", status)
	}
	if body != "hello there" {
		t.Fatalf("body = %q", body)
	}
	found := false
	for _, h := range headers {
		if h == "Content-Length: 11" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Content-Length missing or wrong: %v", headers)
	}
}

func TestServerNotFound(t *testing.T) {
	_, addr := startServer(t, nil)

	raw := roundTrip(t, addr, "GET /missing HTTP/1.1\r\n\r\n")
	status, _, body := splitResponse(t, raw)
	if status != "HTTP/1.1 404 Not Found" {
		t.Fatalf("status line = %q", status)
	}
	if body != "Not found: /missing" {
		t.Fatalf("body = %q", body)
	}
}

func TestServerMalformedRequestLine(t *testing.T) {
	_, addr := startServer(t, nil)

	raw := roundTrip(t, addr, "\r\n\r\n")
	status, _, body := splitResponse(t, raw)
	if status != "HTTP/1.1 400 Bad Request" {
		t.Fatalf("status line = %q", status)
	}
	if body != "Bad Request" {
		t.Fatalf("body = %q", body)
	}
}

func TestServerRequestHeadersReachHandler(t *testing.T) {
	_, addr := startServer(t, func(s *Server) {
		s.Get("/echo", func(req *Request, res *Response) {
			res.Text(req.Header.Get("X-Token"))
		})
	})

	// The head arrives in two writes; the server keeps reading until
	// the terminator shows up.
	c, err := net.Dial("tcp", addr)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()
	if _, err := c.Write([]byte("GET /echo HTTP/1.1\r\nX-Tok")); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := c.Write([]byte("en: s3cret\r\n\r\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	b, err := io.ReadAll(c)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	_, _, body := splitResponse(t, string(b))
	if body != "s3cret" {
		t.Fatalf("body = %q", body)
	}
}

func TestServerHandlerPanicIsIsolated(t *testing.T) {
	_, addr := startServer(t, func(s *Server) {
		s.Get("/boom", func(req *Request, res *Response) {
			panic("kaboom")
		})
		s.Get("/ok", func(req *Request, res *Response) {
			res.Text("still alive")
		})
	})

	raw := roundTrip(t, addr, "GET /boom HTTP/1.1\r\n\r\n")
	status, _, body := splitResponse(t, raw)
	if status != "HTTP/1.1 500 Internal Server Error" {
		t.Fatalf("status line = %q", status)
	}
	if body != "Internal Server Error" {
		t.Fatalf("body = %q", body)
	}

	// The accept loop survived the panic.
	raw = roundTrip(t, addr, "GET /ok HTTP/1.1\r\n\r\n")
	if _, _, body := splitResponse(t, raw); body != "still alive" {
		t.Fatalf("follow-up body = %q", body)
	}
}

func TestServerStaticFileOverWire(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "hello.json"), []byte(`{"hi":1}`), 0o644); err != nil {
		t.Fatal(err)
	}
	_, addr := startServer(t, func(s *Server) {
		s.ServeStatic("/static", root)
	})

	raw := roundTrip(t, addr, "GET /static/hello.json HTTP/1.1\r\n\r\n")
	status, headers, body := splitResponse(t, raw)
	if status != "HTTP/1.1 200 OK" {
		t.Fatalf("status line = %q", status)
	}
	if body != `{"hi":1}` {
		t.Fatalf("body = %q", body)
	}
	found := false
	for _, h := range headers {
		if h == "Content-Type: application/json" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Content-Type missing: %v", headers)
	}
}

func TestServerMountedRouterOverWire(t *testing.T) {
	sub := NewRouter(nil)
	sub.Get("/list", func(req *Request, res *Response) {
		res.Text("users")
	})
	_, addr := startServer(t, func(s *Server) {
		s.Mount("/api/users", sub)
	})

	raw := roundTrip(t, addr, "GET /api/users/list HTTP/1.1\r\n\r\n")
	if _, _, body := splitResponse(t, raw); body != "users" {
		t.Fatalf("body = %q", body)
	}
}

func TestServerMetrics(t *testing.T) {
	meter := &obs.MemMeter{}
	_, addr := startServer(t, func(s *Server) {
		s.Meter = meter
		s.Get("/m", func(req *Request, res *Response) {
			res.Text("ok")
		})
	})

	roundTrip(t, addr, "GET /m HTTP/1.1\r\n\r\n")

	if got := meter.Count("haka_connections_accepted"); got != 1 {
		t.Fatalf("connections accepted = %v, want 1", got)
	}
	if got := meter.Count("haka_responses_total", obs.Label{Key: "status", Value: "200"}); got != 1 {
		t.Fatalf("responses status=200 = %v, want 1", got)
	}
	if obsv := meter.Observations("haka_request_duration_seconds"); len(obsv) != 1 {
		t.Fatalf("duration samples = %v, want one", obsv)
	}
}

func TestServerCloseUnblocksServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	s := &Server{}
	done := make(chan error, 1)
	go func() { done <- s.Serve(ln) }()

	// One request proves the loop is up before closing.
	roundTrip(t, ln.Addr().String(), "GET / HTTP/1.1\r\n\r\n")

	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("Serve returned %v after Close, want nil", err)
	}
}
