package oauth

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestStoreSaveAndGetToken(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	token := &oauth2.Token{
		AccessToken: "ya29.test",
		TokenType:   "Bearer",
		Expiry:      time.Now().Add(time.Hour),
	}

	if err := store.SaveToken("user@example.com", token); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	got, err := store.GetToken("user@example.com")
	if err != nil {
		t.Fatalf("GetToken() error = %v", err)
	}
	if got.AccessToken != "ya29.test" {
		t.Errorf("GetToken() AccessToken = %q, want %q", got.AccessToken, "ya29.test")
	}
}

func TestStoreSaveTokenValidation(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	if err := store.SaveToken("", &oauth2.Token{AccessToken: "x"}); err == nil {
		t.Error("SaveToken() with empty account should fail")
	}
	if err := store.SaveToken("user@example.com", nil); err == nil {
		t.Error("SaveToken() with nil token should fail")
	}
}

func TestStoreGetTokenMissing(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	if _, err := store.GetToken("unknown@example.com"); err == nil {
		t.Error("GetToken() for unknown account should fail")
	}
}

func TestStoreExpiredToken(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	token := &oauth2.Token{
		AccessToken: "ya29.expired",
		Expiry:      time.Now().Add(-time.Minute),
	}
	if err := store.SaveToken("user@example.com", token); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}

	if _, err := store.GetToken("user@example.com"); err == nil {
		t.Error("GetToken() should fail for an expired token")
	}
}

func TestStoreZeroExpiryNeverExpires(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	if err := store.SaveToken("user@example.com", &oauth2.Token{AccessToken: "ya29.static"}); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if _, err := store.GetToken("user@example.com"); err != nil {
		t.Errorf("GetToken() error = %v, want nil for token without expiry", err)
	}
}

func TestStoreDeleteToken(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	if err := store.SaveToken("user@example.com", &oauth2.Token{AccessToken: "x"}); err != nil {
		t.Fatalf("SaveToken() error = %v", err)
	}
	if err := store.SaveUserInfo("user@example.com", &GoogleUserInfo{Email: "user@example.com"}); err != nil {
		t.Fatalf("SaveUserInfo() error = %v", err)
	}

	if err := store.DeleteToken("user@example.com"); err != nil {
		t.Fatalf("DeleteToken() error = %v", err)
	}

	if _, err := store.GetToken("user@example.com"); err == nil {
		t.Error("GetToken() should fail after delete")
	}
	if _, err := store.GetUserInfo("user@example.com"); err == nil {
		t.Error("GetUserInfo() should fail after delete")
	}
}

func TestStoreStats(t *testing.T) {
	store := NewStoreWithInterval(time.Hour)

	store.SaveToken("a@example.com", &oauth2.Token{AccessToken: "x"})
	store.SaveToken("b@example.com", &oauth2.Token{AccessToken: "y"})
	store.SaveUserInfo("a@example.com", &GoogleUserInfo{Email: "a@example.com"})

	stats := store.Stats()
	if stats["tokens"] != 2 {
		t.Errorf("Stats() tokens = %d, want 2", stats["tokens"])
	}
	if stats["user_info"] != 1 {
		t.Errorf("Stats() user_info = %d, want 1", stats["user_info"])
	}
}
