package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chat "google.golang.org/api/chat/v1"
)

// webhookHTTPClient is a configured HTTP client with proper timeouts and security settings
var webhookHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:          10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		DisableKeepAlives:     false,
	},
}

// ValidateWebhookURL checks that a webhook URL points at the Chat incoming
// webhook endpoint. Card messages sent through arbitrary URLs would leak
// workspace content.
func ValidateWebhookURL(webhookURL string) error {
	u, err := url.Parse(webhookURL)
	if err != nil {
		return fmt.Errorf("invalid webhook URL: %w", err)
	}
	if u.Scheme != "https" {
		return fmt.Errorf("webhook URL must use https, got %q", u.Scheme)
	}
	if u.Host != "chat.googleapis.com" {
		return fmt.Errorf("webhook URL host must be chat.googleapis.com, got %q", u.Host)
	}
	if !strings.HasPrefix(u.Path, "/v1/spaces/") {
		return fmt.Errorf("webhook URL path must start with /v1/spaces/")
	}
	return nil
}

// SendWebhookMessage posts a message to a Chat incoming webhook. Incoming
// webhooks accept cardsV2 payloads that the user-scoped REST API rejects,
// so card sends route through here when a webhook URL is configured.
func SendWebhookMessage(webhookURL string, body *chat.Message, threadKey string) error {
	if err := ValidateWebhookURL(webhookURL); err != nil {
		return err
	}

	target := webhookURL
	if threadKey != "" {
		u, err := url.Parse(webhookURL)
		if err != nil {
			return fmt.Errorf("invalid webhook URL: %w", err)
		}
		q := u.Query()
		q.Set("threadKey", threadKey)
		q.Set("messageReplyOption", "REPLY_MESSAGE_FALLBACK_TO_NEW_THREAD")
		u.RawQuery = q.Encode()
		target = u.String()
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode webhook message: %w", err)
	}

	req, err := http.NewRequest("POST", target, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	res, err := webhookHTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return fmt.Errorf("webhook returned %s: %s", res.Status, string(snippet))
	}
	return nil
}
