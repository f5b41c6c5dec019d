// Package httpheader adapts raw header lines, as passed to a plugin's
// SetHeader, onto an http.ResponseWriter.
package httpheader

import (
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

// ResponseSink applies raw header lines to a response. Lines follow the
// usual conventions: "Name: value" replaces the header, a status line such
// as "HTTP/1.1 404 Not Found" sets the status, and a Location header implies
// 302 Found unless a status was already chosen.
type ResponseSink struct {
	w      http.ResponseWriter
	status int
}

// NewResponseSink creates a sink writing to w
func NewResponseSink(w http.ResponseWriter) *ResponseSink {
	return &ResponseSink{w: w}
}

// SetHeader applies a single header line. Malformed lines are ignored.
func (s *ResponseSink) SetHeader(value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}

	if strings.HasPrefix(strings.ToUpper(value), "HTTP/") {
		s.setStatusLine(value)
		return
	}

	name, val, ok := strings.Cut(value, ":")
	if !ok {
		return
	}
	name = textproto.CanonicalMIMEHeaderKey(strings.TrimSpace(name))
	if name == "" || strings.ContainsAny(name, " \t") {
		return
	}
	val = strings.TrimSpace(val)

	s.w.Header().Set(name, val)
	if name == "Location" && s.status == 0 {
		s.status = http.StatusFound
	}
}

func (s *ResponseSink) setStatusLine(line string) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return
	}
	code, err := strconv.Atoi(fields[1])
	if err != nil || code < 100 || code > 999 {
		return
	}
	s.status = code
}

// Status returns the pending status code, or 0 when none was set
func (s *ResponseSink) Status() int {
	return s.status
}

// Commit writes the pending status, if any. Headers set after Commit are
// not sent.
func (s *ResponseSink) Commit() {
	if s.status != 0 {
		s.w.WriteHeader(s.status)
	}
}
