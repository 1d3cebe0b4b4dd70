// Package resources registers MCP resources describing the server's
// capabilities: the adapter manifest (workspace://adapters) and the card
// type catalog (workspace://cards/types). Both are derived from in-process
// state and need no Google credentials to read.
package resources
