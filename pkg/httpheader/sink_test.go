package httpheader

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/platinummonkey/turtle/pkg/bootstrap"
)

var _ bootstrap.HeaderSink = (*ResponseSink)(nil)

func TestResponseSink_SetHeader(t *testing.T) {
	tests := []struct {
		name       string
		lines      []string
		wantHeader map[string]string
		wantStatus int
	}{
		{
			name:       "simple header",
			lines:      []string{"Content-Type: text/javascript; charset=utf-8"},
			wantHeader: map[string]string{"Content-Type": "text/javascript; charset=utf-8"},
		},
		{
			name:       "replaces earlier value",
			lines:      []string{"X-Frame-Options: SAMEORIGIN", "x-frame-options:DENY"},
			wantHeader: map[string]string{"X-Frame-Options": "DENY"},
		},
		{
			name:       "status line",
			lines:      []string{"HTTP/1.1 404 Not Found"},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "location implies found",
			lines:      []string{"Location: /login"},
			wantHeader: map[string]string{"Location": "/login"},
			wantStatus: http.StatusFound,
		},
		{
			name:       "location keeps explicit status",
			lines:      []string{"HTTP/1.1 301 Moved Permanently", "Location: /new"},
			wantHeader: map[string]string{"Location": "/new"},
			wantStatus: http.StatusMovedPermanently,
		},
		{
			name:  "malformed lines ignored",
			lines: []string{"", "no colon here", "Bad Name: x", "HTTP/1.1 abc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			sink := NewResponseSink(rec)
			for _, line := range tt.lines {
				bootstrap.SetHeader(sink, line)
			}

			for k, v := range tt.wantHeader {
				assert.Equal(t, v, rec.Header().Get(k))
			}
			if tt.wantHeader == nil {
				assert.Empty(t, rec.Header())
			}
			assert.Equal(t, tt.wantStatus, sink.Status())
		})
	}
}

func TestResponseSink_Commit(t *testing.T) {
	rec := httptest.NewRecorder()
	sink := NewResponseSink(rec)

	sink.SetHeader("HTTP/1.0 503 Service Unavailable")
	sink.Commit()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	NewResponseSink(rec).Commit()
	assert.Equal(t, http.StatusOK, rec.Code)
}
