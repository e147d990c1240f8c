package haka

import (
	"encoding/json"
	"fmt"
	"os"

	"dqx0.com/go/haka/haka/internal/http1"
)

// Response represents the outgoing HTTP response a connection builds.
// It is mutated in place by exactly one handler invocation and owned
// by its connection.
type Response struct {
	StatusCode int
	Header     Header
	Body       []byte
}

// NewResponse returns a response with the defaults every handler
// starts from: status 200 and Content-Type: text/plain.
func NewResponse() *Response {
	res := &Response{StatusCode: 200}
	res.Header.Set("Content-Type", "text/plain")
	return res
}

// Text sets a plain-text body.
func (r *Response) Text(s string) {
	r.Header.Set("Content-Type", "text/plain")
	r.Body = []byte(s)
}

// HTML sets an HTML body.
func (r *Response) HTML(s string) {
	r.Header.Set("Content-Type", "text/html")
	r.Body = []byte(s)
}

// JSON marshals v into the body with Content-Type application/json.
// On marshal failure the response degrades to a 500 with a plain-text
// body and the error is returned.
func (r *Response) JSON(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		r.StatusCode = 500
		r.Text("Internal Server Error")
		return err
	}
	r.Header.Set("Content-Type", "application/json")
	r.Body = b
	return nil
}

// SendFile sets the body to the file's contents with a MIME type
// guessed from its extension and reports whether it was served. A
// missing file produces a 404 and a read failure a 500, mirroring the
// in-place error handling of the other content helpers.
func (r *Response) SendFile(path string) bool {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			r.StatusCode = 404
			r.Text(fmt.Sprintf("File not found: %s", path))
		} else {
			r.StatusCode = 500
			r.Text("Internal Server Error")
		}
		return false
	}
	r.StatusCode = 200
	r.Header.Set("Content-Type", GuessMIMEType(path))
	r.Body = b
	return true
}

// Encode renders the response in wire format: status line, headers in
// insertion order, a computed Content-Length, and the body.
func (r *Response) Encode() []byte {
	fields := make([]http1.Field, 0, r.Header.Len())
	for _, f := range r.Header.Fields() {
		fields = append(fields, http1.Field{Name: f.Name, Value: f.Value})
	}
	return http1.EncodeResponse(r.StatusCode, fields, r.Body)
}
