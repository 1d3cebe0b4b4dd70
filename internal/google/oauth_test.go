package google

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateAccountName(t *testing.T) {
	tests := []struct {
		name    string
		account string
		wantErr bool
	}{
		{"default", "default", false},
		{"plain word", "work", false},
		{"hyphenated", "work-email", false},
		{"underscored", "personal_email", false},
		{"alphanumeric", "account123", false},
		{"empty", "", true},
		{"space", "my account", true},
		{"at sign", "account@work", true},
		{"path separator", "work/personal", true},
		{"dot", "work.email", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAccountName(tt.account)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAccountName(%q) error = %v, wantErr %v", tt.account, err, tt.wantErr)
			}
		})
	}
}

func TestGetTokenFilePath(t *testing.T) {
	for account, want := range map[string]string{
		"default":  "google-default.token",
		"work":     "google-work.token",
		"personal": "google-personal.token",
	} {
		if got := filepath.Base(getTokenFilePath(account)); got != want {
			t.Errorf("getTokenFilePath(%q) base = %q, want %q", account, got, want)
		}
	}
}

func TestHasTokenForAccountRejectsBadNames(t *testing.T) {
	// Invalid names must never be turned into file lookups.
	if HasTokenForAccount("invalid account") {
		t.Error("HasTokenForAccount() accepted a name with a space")
	}
	if HasTokenForAccount("") {
		t.Error("HasTokenForAccount() accepted an empty name")
	}
}

func TestHasTokenMatchesDefaultAccount(t *testing.T) {
	if HasToken() != HasTokenForAccount("default") {
		t.Error("HasToken() disagrees with HasTokenForAccount(\"default\")")
	}
}

func TestMigrateDefaultToken(t *testing.T) {
	cacheDir := filepath.Join(userCacheDir(), "workspacemcp")
	if err := os.MkdirAll(cacheDir, 0700); err != nil {
		t.Fatal(err)
	}

	oldTokenFile := filepath.Join(cacheDir, "google.token")
	newTokenFile := filepath.Join(cacheDir, "google-default.token")
	defer func() {
		os.Remove(oldTokenFile)
		os.Remove(newTokenFile)
	}()

	tokenData := []byte("test_access_token test_refresh_token")
	if err := os.WriteFile(oldTokenFile, tokenData, 0600); err != nil {
		t.Fatal(err)
	}

	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("MigrateDefaultToken() error = %v", err)
	}

	got, err := os.ReadFile(newTokenFile)
	if err != nil {
		t.Fatalf("migrated token file: %v", err)
	}
	if string(got) != string(tokenData) {
		t.Errorf("migrated token = %q, want %q", got, tokenData)
	}
	if _, err := os.Stat(oldTokenFile); !os.IsNotExist(err) {
		t.Error("legacy token file still present after migration")
	}

	// Running again with nothing to migrate must be a no-op.
	if err := MigrateDefaultToken(); err != nil {
		t.Fatalf("repeat MigrateDefaultToken() error = %v", err)
	}
}

func TestGetAuthenticationErrorMessage(t *testing.T) {
	for _, account := range []string{"default", "work", "personal"} {
		msg := GetAuthenticationErrorMessage(account)
		if !strings.Contains(msg, account) {
			t.Errorf("message for %q does not name the account", account)
		}
		if !strings.Contains(msg, "google_save_auth_code") {
			t.Errorf("message for %q does not point at the auth-code tool", account)
		}
	}
}
