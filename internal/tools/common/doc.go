// Package common holds the helpers every tool package shares: account
// resolution from request arguments and the instrumentation wrappers that
// record metrics and audit entries around tool handlers.
package common
