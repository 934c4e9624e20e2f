package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// TestIPRateLimiterAllow tests budget exhaustion per IP
func TestIPRateLimiterAllow(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             3,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		if !rl.Allow("10.0.0.1") {
			t.Fatalf("Request %d should be within the burst", i)
		}
	}
	if rl.Allow("10.0.0.1") {
		t.Error("Expected request past the burst rejected")
	}

	// Each IP has its own budget
	if !rl.Allow("10.0.0.2") {
		t.Error("A fresh IP must not share a budget")
	}
}

// TestRateLimitMiddleware tests the 429 response shape
func TestRateLimitMiddleware(t *testing.T) {
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: 1,
		Burst:             1,
		CleanupInterval:   time.Minute,
	})
	defer rl.Stop()

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/rooms", nil)
	req.RemoteAddr = "10.0.0.1:12345"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected first request allowed, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected 429, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "1" {
		t.Error("Expected Retry-After header")
	}
}

// TestGetClientIP tests proxy header precedence
func TestGetClientIP(t *testing.T) {
	cases := []struct {
		name       string
		xff        string
		realIP     string
		remoteAddr string
		want       string
	}{
		{"forwarded single", "203.0.113.9", "", "10.0.0.1:80", "203.0.113.9"},
		{"forwarded chain", "203.0.113.9, 10.0.0.2", "", "10.0.0.1:80", "203.0.113.9"},
		{"real ip fallback", "", "203.0.113.7", "10.0.0.1:80", "203.0.113.7"},
		{"remote addr", "", "", "10.0.0.1:80", "10.0.0.1"},
		{"remote addr no port", "", "", "10.0.0.1", "10.0.0.1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = c.remoteAddr
			if c.xff != "" {
				req.Header.Set("X-Forwarded-For", c.xff)
			}
			if c.realIP != "" {
				req.Header.Set("X-Real-IP", c.realIP)
			}
			if got := GetClientIP(req); got != c.want {
				t.Errorf("Expected %q, got %q", c.want, got)
			}
		})
	}
}
