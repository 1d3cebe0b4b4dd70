package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestValidateHTTPSRequirement(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr bool
	}{
		{"https host", "https://mcp.example.com", false},
		{"https with path", "https://mcp.example.com/api", false},
		{"https with port", "https://mcp.example.com:8443", false},
		{"http localhost", "http://localhost:8080", false},
		{"http loopback v4", "http://127.0.0.1:8080", false},
		{"http loopback v6", "http://[::1]:8080", false},
		{"http public host", "http://mcp.example.com", true},
		// The loopback exemption is a host match, not a substring match,
		// or "localhost.evil.com" would slip through.
		{"localhost as subdomain", "http://localhost.example.com", true},
		{"loopback as subdomain", "http://127.0.0.1.example.com", true},
		{"empty", "", true},
		{"garbage", "not a url", true},
		{"ftp scheme", "ftp://example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateHTTPSRequirement(tt.baseURL)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPSRequirement(%q) error = %v, wantErr %v", tt.baseURL, err, tt.wantErr)
			}
		})
	}
}

func TestNewOAuthHTTPServerRejectsPlainHTTP(t *testing.T) {
	if _, err := NewOAuthHTTPServer(nil, "streamable-http", "http://mcp.example.com"); err == nil {
		t.Error("plain HTTP on a routable host must be rejected")
	}
}

func TestStartRejectsUnknownTransport(t *testing.T) {
	srv, err := NewOAuthHTTPServer(nil, "carrier-pigeon", "http://localhost:8080")
	if err != nil {
		t.Fatalf("NewOAuthHTTPServer() error = %v", err)
	}
	if err := srv.Start("127.0.0.1:0"); err == nil {
		t.Error("Start() accepted an unknown transport type")
	}
}

func TestResponseWriterStatusCapture(t *testing.T) {
	tests := []struct {
		name  string
		write func(*responseWriter)
		want  int
	}{
		{"explicit status", func(rw *responseWriter) { rw.WriteHeader(http.StatusNotFound) }, http.StatusNotFound},
		{"implicit 200", func(*responseWriter) {}, http.StatusOK},
		{"created", func(rw *responseWriter) { rw.WriteHeader(http.StatusCreated) }, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			rw := newResponseWriter(recorder)
			tt.write(rw)

			if rw.statusCode != tt.want {
				t.Errorf("statusCode = %d, want %d", rw.statusCode, tt.want)
			}
			if tt.want != http.StatusOK && recorder.Code != tt.want {
				t.Errorf("underlying writer code = %d, want %d", recorder.Code, tt.want)
			}
		})
	}
}

func TestMiddlewarePassThroughWithoutMetrics(t *testing.T) {
	// With no metrics recorder configured both middlewares must be inert.
	srv := &OAuthHTTPServer{}

	for _, tt := range []struct {
		name string
		wrap func(http.Handler) http.Handler
	}{
		{"instrumentation", srv.instrumentationMiddleware},
		{"oauth instrumentation", srv.oauthInstrumentationWrapper},
	} {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := tt.wrap(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
				called = true
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/mcp", nil))
			if !called {
				t.Error("wrapped handler was not called")
			}
		})
	}
}
