// Package chat provides a client for interacting with the Google Chat API.
//
// The client wraps the Google Chat v1 service and exposes space listing,
// message retrieval, message sending (plain text and cardsV2 payloads), and
// text search across spaces. Cards can also be delivered through an incoming
// webhook URL, which bypasses the Chat API restriction on sending cards with
// human credentials.
package chat
