package google

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// cacheDirName is the directory under the user cache dir where tokens are stored.
const cacheDirName = "workspacemcp"

// accountNameRe restricts account names to filesystem-safe identifiers.
var accountNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// tokenProvider, when set, takes precedence over file-based token storage.
// It is injected by the HTTP transport so Google API clients use tokens
// obtained through the OAuth middleware instead of local token files.
var tokenProvider TokenProvider

// SetTokenProvider installs a token provider that overrides file-based lookup.
func SetTokenProvider(p TokenProvider) {
	tokenProvider = p
}

// validateAccountName checks that an account name is safe to embed in a file name.
func validateAccountName(account string) error {
	if account == "" {
		return fmt.Errorf("account name cannot be empty")
	}
	if !accountNameRe.MatchString(account) {
		return fmt.Errorf("account name %q contains invalid characters (allowed: letters, digits, '-', '_')", account)
	}
	return nil
}

// getTokenFilePath returns the token file path for the given account.
func getTokenFilePath(account string) string {
	return filepath.Join(userCacheDir(), cacheDirName, fmt.Sprintf("google-%s.token", account))
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	if tokenProvider != nil {
		return tokenProvider.HasTokenForAccount(account)
	}
	if err := validateAccountName(account); err != nil {
		return false
	}
	_, err := os.ReadFile(getTokenFilePath(account))
	return err == nil
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// GetAuthURLForAccount returns the OAuth URL for user authorization of the given account
func GetAuthURLForAccount(account string) string {
	conf := getOAuthConfig()
	return conf.AuthCodeURL("state-" + account)
}

// GetAuthURL returns the OAuth URL for user authorization of the default account
func GetAuthURL() string {
	return GetAuthURLForAccount("default")
}

// SaveTokenForAccount exchanges an authorization code for tokens and saves them
// under the specified account name.
func SaveTokenForAccount(ctx context.Context, account, authCode string) error {
	if err := validateAccountName(account); err != nil {
		return err
	}

	conf := getOAuthConfig()
	t, err := conf.Exchange(ctx, authCode)
	if err != nil {
		return fmt.Errorf("failed to exchange auth code: %w", err)
	}

	tokenFile := getTokenFilePath(account)
	if err := os.MkdirAll(filepath.Dir(tokenFile), 0700); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	tokenData := t.AccessToken + " " + t.RefreshToken
	if err := os.WriteFile(tokenFile, []byte(tokenData), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}

	return nil
}

// SaveToken exchanges an authorization code for tokens and saves them for the
// default account.
func SaveToken(ctx context.Context, authCode string) error {
	return SaveTokenForAccount(ctx, "default", authCode)
}

// MigrateDefaultToken moves a legacy single-account token file (google.token)
// to the per-account layout (google-default.token). It is a no-op when no
// legacy file exists.
func MigrateDefaultToken() error {
	cacheDir := filepath.Join(userCacheDir(), cacheDirName)
	oldFile := filepath.Join(cacheDir, "google.token")
	newFile := filepath.Join(cacheDir, "google-default.token")

	if _, err := os.Stat(oldFile); os.IsNotExist(err) {
		return nil
	}
	if _, err := os.Stat(newFile); err == nil {
		// Both exist; keep the per-account file and drop the legacy one.
		return os.Remove(oldFile)
	}

	data, err := os.ReadFile(oldFile)
	if err != nil {
		return fmt.Errorf("failed to read legacy token file: %w", err)
	}
	if err := os.WriteFile(newFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write migrated token file: %w", err)
	}
	return os.Remove(oldFile)
}

// getOAuthConfig returns the OAuth2 configuration for all Google services
func getOAuthConfig() *oauth2.Config {
	const OOB = "urn:ietf:wg:oauth:2.0:oob"
	return &oauth2.Config{
		ClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
		ClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		RedirectURL:  OOB,
		Scopes:       DefaultOAuthScopes,
	}
}

// GetTokenSourceForAccount returns an OAuth2 token source for the stored token
// of the given account.
func GetTokenSourceForAccount(ctx context.Context, account string) (oauth2.TokenSource, error) {
	if err := validateAccountName(account); err != nil {
		return nil, err
	}

	conf := getOAuthConfig()

	slurp, err := os.ReadFile(getTokenFilePath(account))
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s", account)
	}

	f := strings.Fields(strings.TrimSpace(string(slurp)))
	if len(f) != 2 {
		return nil, fmt.Errorf("invalid token format for account %s", account)
	}

	ts := conf.TokenSource(ctx, &oauth2.Token{
		AccessToken:  f[0],
		TokenType:    "Bearer",
		RefreshToken: f[1],
		Expiry:       time.Unix(1, 0),
	})

	// Validate the token
	if _, err := ts.Token(); err != nil {
		return nil, fmt.Errorf("cached token for account %s is invalid: %w", account, err)
	}

	return ts, nil
}

// GetTokenSource returns an OAuth2 token source for the default account
func GetTokenSource(ctx context.Context) (oauth2.TokenSource, error) {
	return GetTokenSourceForAccount(ctx, "default")
}

// GetHTTPClientForAccount returns an HTTP client configured with OAuth2
// authentication for the specified account. When a token provider has been
// installed (HTTP transport), tokens come from there; otherwise from the
// per-account token file.
// The client is configured to use HTTP/1.1 to avoid HTTP/2 protocol errors
func GetHTTPClientForAccount(ctx context.Context, account string) (*http.Client, error) {
	var ts oauth2.TokenSource

	if tokenProvider != nil {
		token, err := tokenProvider.GetTokenForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("no OAuth token available for account %s: %w", account, err)
		}
		ts = oauth2.StaticTokenSource(token)
	} else {
		var err error
		ts, err = GetTokenSourceForAccount(ctx, account)
		if err != nil {
			return nil, err
		}
	}

	client := oauth2.NewClient(ctx, ts)

	// Force HTTP/1.1 by disabling HTTP/2
	if transport, ok := client.Transport.(*oauth2.Transport); ok {
		transport.Base = &http.Transport{
			ForceAttemptHTTP2: false,
		}
	}

	return client, nil
}

// GetHTTPClient returns an HTTP client with OAuth2 authentication for the
// default account.
func GetHTTPClient(ctx context.Context) (*http.Client, error) {
	return GetHTTPClientForAccount(ctx, "default")
}

// GetAuthenticationErrorMessage returns an actionable message guiding the user
// through the authorization flow for the given account.
func GetAuthenticationErrorMessage(account string) string {
	return fmt.Sprintf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google services (Chat, Forms, Drive)
4. Copy the authorization code

5. Provide the authorization code to your AI agent
   The agent will use the google_save_auth_code tool with account="%s" to complete authentication.

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, GetAuthURLForAccount(account), account)
}

func userCacheDir() string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir(), "Library", "Caches")
	case "windows":
		for _, ev := range []string{"TEMP", "TMP"} {
			if v := os.Getenv(ev); v != "" {
				return v
			}
		}
		panic("No Windows TEMP or TMP environment variables found")
	}
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return xdg
	}
	return filepath.Join(homeDir(), ".cache")
}

func homeDir() string {
	if runtime.GOOS == "windows" {
		return os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
	}
	return os.Getenv("HOME")
}
