package oauth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// newTestHandler builds a handler whose userinfo lookups hit a local stub
// instead of Google.
func newTestHandler(t *testing.T, userinfo http.HandlerFunc) *Handler {
	t.Helper()

	stub := httptest.NewServer(userinfo)
	t.Cleanup(stub.Close)

	handler, err := NewHandler(&Config{Resource: "http://localhost:8080"})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	handler.userinfoURL = stub.URL
	return handler
}

func TestValidateGoogleTokenMissingHeader(t *testing.T) {
	handler := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("userinfo endpoint should not be called without a token")
	})

	wrapped := handler.ValidateGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}
	challenge := w.Header().Get("WWW-Authenticate")
	if !strings.Contains(challenge, "resource_metadata=") {
		t.Errorf("WWW-Authenticate = %q, want resource_metadata pointer", challenge)
	}
}

func TestValidateGoogleTokenBadFormat(t *testing.T) {
	handler := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("userinfo endpoint should not be called for a malformed header")
	})

	wrapped := handler.ValidateGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called")
	}))

	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if errResp.Error != "invalid_token" {
		t.Errorf("error code = %q, want %q", errResp.Error, "invalid_token")
	}
}

func TestValidateGoogleTokenSuccess(t *testing.T) {
	handler := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer ya29.valid" {
			t.Errorf("userinfo Authorization = %q, want %q", auth, "Bearer ya29.valid")
		}
		json.NewEncoder(w).Encode(GoogleUserInfo{
			Sub:   "105398",
			Email: "user@example.com",
			Name:  "Test User",
		})
	})

	var sawUser bool
	wrapped := handler.ValidateGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userInfo, ok := GetUserFromContext(r.Context())
		if !ok || userInfo.Email != "user@example.com" {
			t.Errorf("GetUserFromContext() = %+v, %v", userInfo, ok)
		}
		token, ok := GetGoogleTokenFromContext(r.Context())
		if !ok || token.AccessToken != "ya29.valid" {
			t.Errorf("GetGoogleTokenFromContext() = %+v, %v", token, ok)
		}
		sawUser = true
		w.WriteHeader(http.StatusOK)
	}))

	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer ya29.valid")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if !sawUser {
		t.Fatal("next handler was not called")
	}

	// Token should now be cached for Google API clients
	token, err := handler.GetStore().GetToken("user@example.com")
	if err != nil {
		t.Fatalf("GetToken() after validation: %v", err)
	}
	if token.AccessToken != "ya29.valid" {
		t.Errorf("cached AccessToken = %q, want %q", token.AccessToken, "ya29.valid")
	}
}

func TestValidateGoogleTokenRejected(t *testing.T) {
	handler := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	wrapped := handler.ValidateGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("next handler should not be called for a rejected token")
	}))

	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer ya29.revoked")
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, r)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var errResp ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&errResp); err != nil {
		t.Fatalf("decoding error response: %v", err)
	}
	if !strings.Contains(errResp.ErrorDescription, "re-authenticate") {
		t.Errorf("error description %q should tell the user to re-authenticate", errResp.ErrorDescription)
	}
}

func TestTokenProvider(t *testing.T) {
	store := NewStore()
	provider := NewTokenProvider(store)

	if provider.HasTokenForAccount("user@example.com") {
		t.Error("HasTokenForAccount() should be false for an empty store")
	}

	handler := newTestHandler(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(GoogleUserInfo{Email: "user@example.com"})
	})
	provider = NewTokenProvider(handler.GetStore())

	wrapped := handler.ValidateGoogleToken(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	r := httptest.NewRequest(http.MethodPost, "/mcp", nil)
	r.Header.Set("Authorization", "Bearer ya29.provider")
	wrapped.ServeHTTP(httptest.NewRecorder(), r)

	if !provider.HasTokenForAccount("user@example.com") {
		t.Fatal("HasTokenForAccount() should be true after validation")
	}
	token, err := provider.GetTokenForAccount(r.Context(), "user@example.com")
	if err != nil {
		t.Fatalf("GetTokenForAccount() error = %v", err)
	}
	if token.AccessToken != "ya29.provider" {
		t.Errorf("GetTokenForAccount() AccessToken = %q, want %q", token.AccessToken, "ya29.provider")
	}
}
