// Package logging defines the canonical slog attributes used across the
// server: account, adapter, error, and the anonymized user hash. Emails are
// hashed before logging so entries stay correlatable without recording PII.
package logging
