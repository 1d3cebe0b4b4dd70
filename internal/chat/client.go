package chat

import (
	"context"
	"fmt"
	"strings"

	chat "google.golang.org/api/chat/v1"
	"google.golang.org/api/option"

	"github.com/workspacemcp/workspacemcp/internal/google"
)

// Client wraps the Google Chat service
type Client struct {
	svc     *chat.Service
	account string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	return google.HasTokenForAccount(account)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return google.HasToken()
}

// GetAuthURLForAccount returns the OAuth URL for authorizing the given account
func GetAuthURLForAccount(account string) string {
	return google.GetAuthURLForAccount(account)
}

// NewClientForAccount creates a new Chat client with OAuth2 authentication for a specific account
// The OAuth token must be provided by the MCP client through the OAuth middleware
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Please authenticate with Google through your MCP client", account, err)
	}

	svc, err := chat.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Chat service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Chat client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// NormalizeSpaceID ensures a space identifier carries the "spaces/" resource prefix
func NormalizeSpaceID(spaceID string) string {
	if strings.HasPrefix(spaceID, "spaces/") {
		return spaceID
	}
	return "spaces/" + spaceID
}

// SpaceTypeFilter maps a user-facing space type ("all", "room", "dm") to the
// Chat API list filter. An empty string means no filter.
func SpaceTypeFilter(spaceType string) (string, error) {
	switch spaceType {
	case "", "all":
		return "", nil
	case "room":
		return `spaceType = "SPACE"`, nil
	case "dm":
		return `spaceType = "DIRECT_MESSAGE"`, nil
	default:
		return "", fmt.Errorf("invalid space type %q (supported: all, room, dm)", spaceType)
	}
}

// ListSpaces lists the Chat spaces accessible to the user.
// spaceType is one of "all", "room" or "dm".
func (c *Client) ListSpaces(pageSize int64, spaceType string) ([]Space, error) {
	filter, err := SpaceTypeFilter(spaceType)
	if err != nil {
		return nil, err
	}

	call := c.svc.Spaces.List().PageSize(pageSize)
	if filter != "" {
		call = call.Filter(filter)
	}

	res, err := call.Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces: %w", err)
	}

	var spaces []Space
	for _, s := range res.Spaces {
		spaces = append(spaces, toSpace(s))
	}
	return spaces, nil
}

// GetSpace retrieves a single space by ID
func (c *Client) GetSpace(spaceID string) (Space, error) {
	s, err := c.svc.Spaces.Get(NormalizeSpaceID(spaceID)).Do()
	if err != nil {
		return Space{}, fmt.Errorf("failed to get space %s: %w", spaceID, err)
	}
	return toSpace(s), nil
}

// ListMessages retrieves messages from a space, newest first by default
func (c *Client) ListMessages(spaceID string, pageSize int64, orderBy string) ([]Message, error) {
	if orderBy == "" {
		orderBy = "createTime desc"
	}

	res, err := c.svc.Spaces.Messages.List(NormalizeSpaceID(spaceID)).
		PageSize(pageSize).
		OrderBy(orderBy).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list messages in space %s: %w", spaceID, err)
	}

	var messages []Message
	for _, m := range res.Messages {
		messages = append(messages, toMessage(m))
	}
	return messages, nil
}

// SendMessage sends a plain text message to a space. threadKey is optional
// and causes the message to be posted as a threaded reply.
func (c *Client) SendMessage(spaceID, text, threadKey string) (Message, error) {
	body := &chat.Message{Text: text}

	call := c.svc.Spaces.Messages.Create(NormalizeSpaceID(spaceID), body)
	if threadKey != "" {
		call = call.ThreadKey(threadKey).MessageReplyOption("REPLY_MESSAGE_FALLBACK_TO_NEW_THREAD")
	}

	msg, err := call.Do()
	if err != nil {
		return Message{}, fmt.Errorf("failed to send message to space %s: %w", spaceID, err)
	}
	return toMessage(msg), nil
}

// SendCardMessage sends a message carrying one or more cardsV2 payloads.
// The message body is built by the cards package.
func (c *Client) SendCardMessage(spaceID string, body *chat.Message, threadKey string) (Message, error) {
	call := c.svc.Spaces.Messages.Create(NormalizeSpaceID(spaceID), body)
	if threadKey != "" {
		call = call.ThreadKey(threadKey).MessageReplyOption("REPLY_MESSAGE_FALLBACK_TO_NEW_THREAD")
	}

	msg, err := call.Do()
	if err != nil {
		return Message{}, fmt.Errorf("failed to send card message to space %s: %w", spaceID, err)
	}
	return toMessage(msg), nil
}

// searchSpaceLimit bounds the fan-out when searching without a target space.
const searchSpaceLimit = 10

// searchPageSize is the per-space page size used during fan-out search.
const searchPageSize = 5

// SearchMessages searches for messages matching query. When spaceID is
// non-empty the search is restricted to that space; otherwise the first
// accessible spaces are scanned, skipping spaces the user cannot read.
func (c *Client) SearchMessages(query, spaceID string, pageSize int64) ([]Message, error) {
	filter := fmt.Sprintf("text:%q", query)

	if spaceID != "" {
		res, err := c.svc.Spaces.Messages.List(NormalizeSpaceID(spaceID)).
			PageSize(pageSize).
			Filter(filter).
			Do()
		if err != nil {
			return nil, fmt.Errorf("failed to search messages in space %s: %w", spaceID, err)
		}
		var messages []Message
		for _, m := range res.Messages {
			messages = append(messages, toMessage(m))
		}
		return messages, nil
	}

	spacesRes, err := c.svc.Spaces.List().PageSize(100).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list spaces for search: %w", err)
	}

	spaces := spacesRes.Spaces
	if len(spaces) > searchSpaceLimit {
		spaces = spaces[:searchSpaceLimit]
	}

	var messages []Message
	for _, s := range spaces {
		res, err := c.svc.Spaces.Messages.List(s.Name).
			PageSize(searchPageSize).
			Filter(filter).
			Do()
		if err != nil {
			// Skip spaces we can't access
			continue
		}
		for _, m := range res.Messages {
			msg := toMessage(m)
			msg.SpaceName = s.DisplayName
			if msg.SpaceName == "" {
				msg.SpaceName = "Unknown"
			}
			messages = append(messages, msg)
		}
	}
	return messages, nil
}
