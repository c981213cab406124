package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/OwenK944/discompress/internal/infrastructure/logger"
)

// CORSPolicy admits requests without an Origin header, the configured origin
// and loopback origins. Everything else is refused.
type CORSPolicy struct {
	allowed string
}

func NewCORSPolicy(allowedOrigin string) (CORSPolicy, error) {
	normalized, err := normalizeOrigin(allowedOrigin)
	if err != nil {
		return CORSPolicy{}, fmt.Errorf("parse origin %q: %w", allowedOrigin, err)
	}
	return CORSPolicy{allowed: normalized}, nil
}

func normalizeOrigin(origin string) (string, error) {
	origin = strings.TrimSpace(origin)
	if origin == "" {
		return "", nil
	}
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", err
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("origin must include scheme and host")
	}
	return fmt.Sprintf("%s://%s", strings.ToLower(parsed.Scheme), strings.ToLower(parsed.Host)), nil
}

// Allows reports whether a request carrying origin may receive a response.
func (p CORSPolicy) Allows(origin string) bool {
	normalized, err := normalizeOrigin(origin)
	if err != nil || normalized == "" {
		return false
	}
	if p.allowed != "" && normalized == p.allowed {
		return true
	}
	return isLoopback(normalized)
}

func isLoopback(origin string) bool {
	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}
	host := parsed.Hostname()
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// CORS enforces policy. Preflight requests from an allowed origin are
// answered here with 204 and never reach next.
func CORS(policy CORSPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := strings.TrimSpace(r.Header.Get("Origin"))
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !policy.Allows(origin) {
				logger.Warn.Printf("blocked CORS origin %s on %s", logger.SanitizeForLog(origin), r.URL.Path)
				http.Error(w, "origin not allowed", http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				requestedHeaders := r.Header.Get("Access-Control-Request-Headers")
				if requestedHeaders != "" {
					w.Header().Set("Access-Control-Allow-Headers", requestedHeaders)
				} else {
					w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
