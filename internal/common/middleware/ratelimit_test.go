// internal/common/middleware/ratelimit_test.go

package middleware

import (
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"direct with port", "203.0.113.7:51234", "", "203.0.113.7"},
		{"direct without port", "203.0.113.7", "", "203.0.113.7"},
		{"single forwarded", "10.0.0.1:80", "198.51.100.4", "198.51.100.4"},
		{"forwarded chain takes first", "10.0.0.1:80", "198.51.100.4,10.0.0.2,10.0.0.1", "198.51.100.4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/api/v1/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}

			if got := clientIP(r); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
