package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestSecurityHeaders_StaticHeaders(t *testing.T) {
	handler := SecurityHeaders(okHandler())

	tests := []struct {
		header   string
		expected string
	}{
		{header: "X-Content-Type-Options", expected: "nosniff"},
		{header: "X-Frame-Options", expected: "DENY"},
		{header: "Referrer-Policy", expected: "no-referrer"},
		{header: "Content-Security-Policy", expected: "default-src 'none'; frame-ancestors 'none'"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Header().Get(tt.header))
		})
	}
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	tests := []struct {
		name      string
		tls       bool
		forwarded string
		wantHSTS  bool
	}{
		{name: "plain http", wantHSTS: false},
		{name: "forwarded http", forwarded: "http", wantHSTS: false},
		{name: "forwarded https", forwarded: "https", wantHSTS: true},
		{name: "direct tls", tls: true, wantHSTS: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()

			SecurityHeaders(okHandler()).ServeHTTP(rec, req)

			hsts := rec.Header().Get("Strict-Transport-Security")
			if tt.wantHSTS {
				assert.Contains(t, hsts, "max-age=")
				assert.Contains(t, hsts, "includeSubDomains")
			} else {
				assert.Empty(t, hsts)
			}
		})
	}
}

func TestSecurityHeaders_PreservesResponse(t *testing.T) {
	handler := SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte("test response"))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/upload", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "test response", rec.Body.String())
}
