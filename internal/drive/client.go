package drive

import (
	"context"
	"fmt"

	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"github.com/workspacemcp/workspacemcp/internal/google"
)

// Client wraps the Google Drive API service
type Client struct {
	service *drive.Service
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

// GetAuthURLForAccount returns the OAuth URL for user authorization for a specific account
func GetAuthURLForAccount(account string) string {
	return google.GetAuthURLForAccount(account)
}

// NewClientForAccount creates a new Google Drive client with OAuth2 authentication for a specific account
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Please authenticate with Google through your MCP client", account, err)
	}

	driveService, err := drive.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive service: %w", err)
	}

	return &Client{
		service: driveService,
		account: account,
	}, nil
}

// NewClient creates a new Google Drive client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// ShareAnyoneReader grants read access to anyone with the link.
// supportsAllDrives is required for files on shared drives.
func (c *Client) ShareAnyoneReader(ctx context.Context, fileID string) error {
	_, err := c.service.Permissions.Create(fileID, &drive.Permission{
		Role: "reader",
		Type: "anyone",
	}).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to share file %s publicly: %w", fileID, err)
	}
	return nil
}

// RemovePublicAccess deletes any "anyone" permission on the file. Returns
// false if the file had no public permission.
func (c *Client) RemovePublicAccess(ctx context.Context, fileID string) (bool, error) {
	perms, err := c.service.Permissions.List(fileID).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return false, fmt.Errorf("failed to list permissions on file %s: %w", fileID, err)
	}

	for _, p := range perms.Permissions {
		if p.Type == "anyone" {
			err := c.service.Permissions.Delete(fileID, p.Id).
				SupportsAllDrives(true).
				Context(ctx).
				Do()
			if err != nil {
				return false, fmt.Errorf("failed to remove public access on file %s: %w", fileID, err)
			}
			return true, nil
		}
	}
	return false, nil
}
