// Package cards builds Google Chat cardsV2 payloads.
//
// All builders produce typed *chat.GoogleAppsCardV1Card values and the
// cardsV2 message envelope the Chat API expects. Section and widget
// configurations accept the same shapes the MCP tools take as JSON
// arguments, so tool handlers can pass arguments straight through.
package cards
