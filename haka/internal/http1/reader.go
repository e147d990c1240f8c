package http1

import (
	"bytes"
	"errors"
	"strings"
)

var headTerminator = []byte("\r\n\r\n")

// ErrMalformedRequestLine reports a request line with a missing method
// or path.
var ErrMalformedRequestLine = errors.New("http1: malformed request line")

// Field is one header line as it appeared on the wire. Name case is
// preserved; the value has leading whitespace and the trailing CR
// trimmed.
type Field struct {
	Name  string
	Value string
}

// Head is the parsed request line and header block of one request.
type Head struct {
	Method string
	Path   string
	Proto  string
	Fields []Field
	// BadLines holds header lines with no colon. They carry no field
	// and are returned so the caller can log and skip them.
	BadLines []string
}

// HeadEnd returns the index just past the CRLFCRLF terminator in buf,
// or -1 if the terminator has not arrived yet.
func HeadEnd(buf []byte) int {
	i := bytes.Index(buf, headTerminator)
	if i < 0 {
		return -1
	}
	return i + len(headTerminator)
}

// ParseHead parses a fully buffered request head. Duplicate field
// names are kept in order; the caller decides the overwrite policy.
// The HTTP version is captured but never validated.
func ParseHead(head []byte) (*Head, error) {
	lines := strings.Split(string(head), "\n")
	if len(lines) == 0 {
		return nil, ErrMalformedRequestLine
	}

	// Request line: METHOD SP PATH SP VERSION. Fields split on runs of
	// whitespace; a missing version is tolerated, a missing method or
	// path is not.
	parts := strings.Fields(strings.TrimRight(lines[0], "\r"))
	h := &Head{}
	if len(parts) > 0 {
		h.Method = parts[0]
	}
	if len(parts) > 1 {
		h.Path = parts[1]
	}
	if len(parts) > 2 {
		h.Proto = parts[2]
	}
	if h.Method == "" || h.Path == "" {
		return nil, ErrMalformedRequestLine
	}

	for _, line := range lines[1:] {
		if line == "\r" || line == "" {
			break
		}
		i := strings.IndexByte(line, ':')
		if i < 0 {
			h.BadLines = append(h.BadLines, strings.TrimRight(line, "\r"))
			continue
		}
		name := line[:i]
		value := strings.TrimLeft(line[i+1:], " \t")
		value = strings.TrimSuffix(value, "\r")
		h.Fields = append(h.Fields, Field{Name: name, Value: value})
	}
	return h, nil
}
