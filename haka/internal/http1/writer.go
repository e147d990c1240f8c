package http1

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// StatusText returns the reason phrase for the status codes this
// server emits, or "Unknown Status" for anything else.
func StatusText(code int) string {
	switch code {
	case 100:
		return "Continue"
	case 101:
		return "Switching Protocols"
	case 200:
		return "OK"
	case 201:
		return "Created"
	case 202:
		return "Accepted"
	case 204:
		return "No Content"
	case 301:
		return "Moved Permanently"
	case 302:
		return "Found"
	case 304:
		return "Not Modified"
	case 400:
		return "Bad Request"
	case 401:
		return "Unauthorized"
	case 403:
		return "Forbidden"
	case 404:
		return "Not Found"
	case 405:
		return "Method Not Allowed"
	case 500:
		return "Internal Server Error"
	case 501:
		return "Not Implemented"
	case 503:
		return "Service Unavailable"
	default:
		return "Unknown Status"
	}
}

// EncodeResponse renders a full HTTP/1.1 response: status line, the
// given fields in order, a computed Content-Length, a blank line, and
// the body.
func EncodeResponse(status int, fields []Field, body []byte) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, "HTTP/1.1 %d %s\r\n", status, StatusText(status))
	for _, f := range fields {
		fmt.Fprintf(&b, "%s: %s\r\n", f.Name, sanitizeFieldValue(f.Value))
	}
	fmt.Fprintf(&b, "Content-Length: %d\r\n\r\n", len(body))
	b.Write(body)
	return b.Bytes()
}

// WriteResponse encodes the response and writes it to w in a single
// write call.
func WriteResponse(w io.Writer, status int, fields []Field, body []byte) error {
	_, err := w.Write(EncodeResponse(status, fields, body))
	return err
}

func sanitizeFieldValue(v string) string {
	clean := true
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f || (c < 0x20 && c != '\t') {
			clean = false
			break
		}
	}
	if clean {
		return v
	}
	// Remove CR/LF and other control chars except HTAB.
	var b strings.Builder
	b.Grow(len(v))
	for i := 0; i < len(v); i++ {
		c := v[i]
		if c == '\r' || c == '\n' || c == 0x7f {
			continue
		}
		if c < 0x20 && c != '\t' {
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}
