package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLivenessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Status != healthStatusOK {
		t.Errorf("status field = %q, want %q", body.Status, healthStatusOK)
	}
}

func TestLivenessIgnoresReadiness(t *testing.T) {
	// Liveness answers whether to restart the pod; draining is not a
	// reason to restart.
	h := NewHealthChecker(nil)
	h.SetReady(false)

	rec := httptest.NewRecorder()
	h.LivenessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadinessHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	h.SetReady(false)
	if h.IsReady() {
		t.Error("IsReady() = true after SetReady(false)")
	}

	rec = httptest.NewRecorder()
	h.ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d after SetReady(false), want %d", rec.Code, http.StatusServiceUnavailable)
	}
	var body HealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Checks["ready"] != healthStatusNotReady {
		t.Errorf("ready check = %q, want %q", body.Checks["ready"], healthStatusNotReady)
	}
}

func TestDetailedHealthHandler(t *testing.T) {
	h := NewHealthChecker(nil)

	rec := httptest.NewRecorder()
	h.DetailedHealthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz/detailed", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var body DetailedHealthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body.Uptime == "" {
		t.Error("uptime missing from detailed response")
	}
}

func TestRegisterHealthEndpoints(t *testing.T) {
	h := NewHealthChecker(nil)
	mux := http.NewServeMux()
	h.RegisterHealthEndpoints(mux)

	for _, path := range []string{"/healthz", "/readyz", "/healthz/detailed"} {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}
}
