package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
)

// Canonical attribute keys. Every log line in the server uses these so logs
// can be filtered by account, adapter, or error across packages.
const (
	KeyAccount  = "account"
	KeyAdapter  = "adapter"
	KeyUserHash = "user_hash"
	KeyError    = "error"
)

// Account returns a slog attribute for the Google account name.
func Account(account string) slog.Attr {
	return slog.String(KeyAccount, account)
}

// Adapter returns a slog attribute for the adapter name.
func Adapter(name string) slog.Attr {
	return slog.String(KeyAdapter, name)
}

// Err returns a slog attribute for an error. A nil err yields an empty
// group, which slog omits, so Err(maybeNil) is always safe to pass.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail hashes an email so log entries can be correlated per user
// without recording the address itself.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(email))
	return "user:" + hex.EncodeToString(sum[:8])
}

// UserHash returns a slog attribute carrying the anonymized email.
func UserHash(email string) slog.Attr {
	return slog.String(KeyUserHash, AnonymizeEmail(email))
}
