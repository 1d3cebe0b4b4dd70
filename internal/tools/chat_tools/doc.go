// Package chat_tools exposes Google Chat operations as MCP tools: listing
// spaces, reading and searching messages, sending plain text to one or many
// spaces, and sending Cards v2 messages built by the cards package.
//
// Card messages can be delivered two ways: through the Chat API into a space
// (requires an authorized account) or through an incoming webhook URL (no
// account needed). Every tool takes an optional account parameter for
// multi-account setups.
package chat_tools
