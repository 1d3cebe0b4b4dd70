package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"

	"github.com/workspacemcp/workspacemcp/internal/logging"
)

// contextKey is the type for context keys set by the middleware.
type contextKey string

const (
	// userContextKey stores the validated Google user info in the request context
	userContextKey contextKey = "oauth_user"

	// tokenContextKey stores the Google token in the request context
	tokenContextKey contextKey = "google_token"
)

// ValidateGoogleToken is middleware that requires a valid Google Bearer token.
// The token is validated against Google's userinfo endpoint; on success the
// user info and token are stored in the request context and the token is
// cached for this account so Google API clients can use it.
func (h *Handler) ValidateGoogleToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			// 401 with a WWW-Authenticate header pointing at the resource metadata
			w.Header().Set("WWW-Authenticate", fmt.Sprintf(
				`Bearer realm="%s", resource_metadata="/.well-known/oauth-protected-resource"`,
				h.config.Resource,
			))
			h.writeError(w, "missing_token", "Missing Authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			w.Header().Set("WWW-Authenticate", fmt.Sprintf(
				`Bearer realm="%s", resource_metadata="/.well-known/oauth-protected-resource", error="invalid_token", error_description="Invalid Authorization header format"`,
				h.config.Resource,
			))
			h.writeError(w, "invalid_token", "Invalid Authorization header format", http.StatusUnauthorized)
			return
		}

		token := &oauth2.Token{
			AccessToken: parts[1],
			TokenType:   "Bearer",
		}

		userInfo, err := h.getUserInfoFromGoogle(r.Context(), token)
		if err != nil {
			errorDesc := actionableErrorMessage(err)
			w.Header().Set("WWW-Authenticate", fmt.Sprintf(
				`Bearer realm="%s", resource_metadata="/.well-known/oauth-protected-resource", error="invalid_token", error_description="%s"`,
				h.config.Resource,
				errorDesc,
			))
			h.writeError(w, "invalid_token", errorDesc, http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, userInfo)
		ctx = context.WithValue(ctx, tokenContextKey, token)

		// Cache the token keyed by email so API clients for this account
		// can be created without another round trip to Google.
		if err := h.store.SaveToken(userInfo.Email, token); err != nil {
			h.logger.Warn("Failed to cache Google token",
				logging.UserHash(userInfo.Email),
				logging.Err(err))
		}
		if err := h.store.SaveUserInfo(userInfo.Email, userInfo); err != nil {
			h.logger.Warn("Failed to cache Google user info",
				logging.UserHash(userInfo.Email),
				logging.Err(err))
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getUserInfoFromGoogle validates a token by calling Google's userinfo endpoint.
func (h *Handler) getUserInfoFromGoogle(ctx context.Context, token *oauth2.Token) (*GoogleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get(h.userinfoURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo request failed with status %d", resp.StatusCode)
	}

	var userInfo GoogleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&userInfo); err != nil {
		return nil, fmt.Errorf("failed to decode user info: %w", err)
	}
	if userInfo.Email == "" {
		return nil, fmt.Errorf("userinfo response missing email")
	}

	return &userInfo, nil
}

// ContextWithUserInfo returns a context carrying the given user info. It is
// used by tests and by transports that authenticate outside this middleware.
func ContextWithUserInfo(ctx context.Context, userInfo *GoogleUserInfo) context.Context {
	return context.WithValue(ctx, userContextKey, userInfo)
}

// GetUserFromContext retrieves the validated Google user info from the
// request context.
func GetUserFromContext(ctx context.Context) (*GoogleUserInfo, bool) {
	userInfo, ok := ctx.Value(userContextKey).(*GoogleUserInfo)
	return userInfo, ok
}

// GetGoogleTokenFromContext retrieves the Google token from the request context.
func GetGoogleTokenFromContext(ctx context.Context) (*oauth2.Token, bool) {
	token, ok := ctx.Value(tokenContextKey).(*oauth2.Token)
	return token, ok
}

// actionableErrorMessage converts token validation failures into guidance the
// MCP client can surface to the user.
func actionableErrorMessage(err error) string {
	errStr := err.Error()

	switch {
	case strings.Contains(errStr, "401") || strings.Contains(errStr, "Unauthorized"):
		return "Google token is invalid or expired. Please re-authenticate through your MCP client to continue."
	case strings.Contains(errStr, "403") || strings.Contains(errStr, "Forbidden"):
		return "Access denied by Google. Please ensure your token has the required scopes and re-authenticate through your MCP client."
	case strings.Contains(errStr, "429") || strings.Contains(errStr, "rate limit"):
		return "Google API rate limit exceeded. Please wait a moment and try again."
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "connection") || strings.Contains(errStr, "dial"):
		return "Unable to verify token with Google due to network issues. Please try again in a moment."
	}

	return fmt.Sprintf("Token validation failed: %v. Please re-authenticate through your MCP client.", err)
}
