package oauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllowBurst(t *testing.T) {
	rl := NewRateLimiter(1, 3, false)

	for i := 0; i < 3; i++ {
		if !rl.Allow("192.0.2.1") {
			t.Fatalf("Allow() request %d within burst should be admitted", i+1)
		}
	}
	if rl.Allow("192.0.2.1") {
		t.Error("Allow() beyond burst should be rejected")
	}

	// A different IP gets its own bucket
	if !rl.Allow("192.0.2.2") {
		t.Error("Allow() for a fresh IP should be admitted")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.0.2.1:54321",
			want:       "192.0.2.1",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:54321",
			want:       "[2001:db8::1]",
		},
		{
			name:       "forwarded header ignored without trust",
			remoteAddr: "192.0.2.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			want:       "192.0.2.1",
		},
		{
			name:       "forwarded header honored with trust",
			remoteAddr: "192.0.2.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9"},
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "first of several forwarded IPs",
			remoteAddr: "192.0.2.1:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.9, 198.51.100.2"},
			trustProxy: true,
			want:       "203.0.113.9",
		},
		{
			name:       "real ip header with trust",
			remoteAddr: "192.0.2.1:54321",
			headers:    map[string]string{"X-Real-IP": "203.0.113.7"},
			trustProxy: true,
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}

			if got := clientIP(r, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	handler, err := NewHandler(&Config{
		Resource:      "http://localhost:8080",
		RateLimitRate: 1,
		// Burst defaults to 2x rate
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	wrapped := handler.RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		r.RemoteAddr = "192.0.2.5:1000"
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, r)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("third request status = %d, want %d", lastCode, http.StatusTooManyRequests)
	}
}

func TestRateLimitMiddlewareDisabled(t *testing.T) {
	handler, err := NewHandler(&Config{Resource: "http://localhost:8080"})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	wrapped := handler.RateLimitMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 50; i++ {
		r := httptest.NewRequest(http.MethodGet, "/mcp", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, w.Code, http.StatusOK)
		}
	}
}
