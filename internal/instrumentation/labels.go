package instrumentation

import "strings"

// ExtractUserDomain reduces an email address to its domain so per-user
// values never become metric labels. Each distinct label value is a distinct
// time series in Prometheus, and a deployment has far fewer domains than
// users. Anything that does not look like an email maps to "unknown".
func ExtractUserDomain(email string) string {
	at := strings.LastIndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "unknown"
	}
	return email[at+1:]
}
