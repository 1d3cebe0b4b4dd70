// Package batch supports tool operations that fan out over several targets,
// such as sending one Chat message to a list of spaces. It parses
// string-or-array target parameters, runs the delivery per target while
// tolerating partial failures, and renders an aggregated summary for tool
// output.
package batch
