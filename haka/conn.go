package haka

import (
	"bytes"
	"net"
	"runtime/debug"
	"strconv"
	"time"

	"dqx0.com/go/haka/haka/internal/http1"
	"dqx0.com/go/haka/internal/obs"
)

// connPhase is the next step of a connection's read → dispatch →
// write → close cycle after reading completes.
type connPhase int

const (
	phaseDispatch connPhase = iota // head parsed, run the handler
	phaseWrite                     // response already prepared, skip dispatch
	phaseClosed                    // transport failed, abandon the connection
)

// conn serves exactly one request on one socket and then closes it.
// The request/response pair is owned by the connection's goroutine
// for its whole lifetime.
type conn struct {
	sock net.Conn
	srv  *Server
	req  Request
	res  *Response
	buf  [8192]byte
	head []byte
}

func newConn(sock net.Conn, srv *Server) *conn {
	return &conn{sock: sock, srv: srv, res: NewResponse()}
}

func (c *conn) serve() {
	start := time.Now()
	defer c.shutdown()

	switch c.read() {
	case phaseDispatch:
		c.dispatch()
	case phaseClosed:
		return
	}
	c.write()

	c.srv.meter().Counter("haka_responses_total", 1,
		obs.Label{Key: "status", Value: strconv.Itoa(c.res.StatusCode)})
	c.srv.meter().Histogram("haka_request_duration_seconds", time.Since(start).Seconds())
}

// read accumulates socket data until the header terminator arrives,
// then parses the request line and headers. Request bodies are never
// read, whatever Content-Length says.
func (c *conn) read() connPhase {
	for {
		n, err := c.sock.Read(c.buf[:])
		if n > 0 {
			c.head = append(c.head, c.buf[:n]...)
			if end := http1.HeadEnd(c.head); end >= 0 {
				return c.parse(c.head[:end])
			}
		}
		if err != nil {
			if !benignErr(err) {
				c.srv.logf(obs.Error, "read error: %v", err)
			}
			return phaseClosed
		}
	}
}

func (c *conn) parse(head []byte) connPhase {
	h, err := http1.ParseHead(head)
	if err != nil {
		line, _, _ := bytes.Cut(head, []byte("\r\n"))
		c.srv.logf(obs.Warn, "malformed request line: %q", line)
		c.res.StatusCode = 400
		c.res.Text("Bad Request")
		return phaseWrite
	}

	c.req.Method = h.Method
	c.req.Path = h.Path
	c.req.Proto = h.Proto
	for _, f := range h.Fields {
		c.req.Header.Set(f.Name, f.Value)
	}
	for _, line := range h.BadLines {
		c.srv.logf(obs.Warn, "malformed header line: %q", line)
	}
	c.srv.logf(obs.Info, "request: %s %s", c.req.Method, c.req.Path)
	return phaseDispatch
}

// dispatch resolves the handler and runs it. A panicking handler is
// caught here and converted to a 500; it never reaches the accept
// loop or takes the process down.
func (c *conn) dispatch() {
	h := c.srv.Router().Match(&c.req)
	defer func() {
		if v := recover(); v != nil {
			c.srv.logf(obs.Error, "handler panic for %s %s: %v", c.req.Method, c.req.Path, v)
			c.srv.logf(obs.Debug, "handler panic stack:\n%s", debug.Stack())
			c.res.StatusCode = 500
			c.res.Text("Internal Server Error")
		}
	}()
	h.Serve(&c.req, c.res)
}

func (c *conn) write() {
	n, err := c.sock.Write(c.res.Encode())
	if err != nil {
		if !benignErr(err) {
			c.srv.logf(obs.Error, "write error for %s %s: %v", c.req.Method, c.req.Path, err)
		}
		return
	}
	c.srv.logf(obs.Info, "sent response (%d bytes) for %s %s with status %d",
		n, c.req.Method, c.req.Path, c.res.StatusCode)
}

// shutdown stops writes and closes the socket. Errors here are logged
// and otherwise ignored; the connection is done either way.
func (c *conn) shutdown() {
	if tc, ok := c.sock.(*net.TCPConn); ok {
		if err := tc.CloseWrite(); err != nil && !benignErr(err) {
			c.srv.logf(obs.Warn, "socket shutdown error: %v", err)
		}
	}
	if err := c.sock.Close(); err != nil && !benignErr(err) {
		c.srv.logf(obs.Warn, "socket close error: %v", err)
	}
}
