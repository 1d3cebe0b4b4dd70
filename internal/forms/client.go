package forms

import (
	"context"
	"fmt"

	forms "google.golang.org/api/forms/v1"
	"google.golang.org/api/option"

	"github.com/workspacemcp/workspacemcp/internal/google"
)

// Client wraps the Google Forms service
type Client struct {
	svc     *forms.Service
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

// GetAuthURLForAccount returns the OAuth URL for authorizing the given account
func GetAuthURLForAccount(account string) string {
	return google.GetAuthURLForAccount(account)
}

// NewClientForAccount creates a new Forms client with OAuth2 authentication for a specific account
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	client, err := google.GetHTTPClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("no valid Google OAuth token found for account %s: %w. Please authenticate with Google through your MCP client", account, err)
	}

	svc, err := forms.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Forms service: %w", err)
	}

	return &Client{
		svc:     svc,
		account: account,
	}, nil
}

// NewClient creates a new Forms client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// CreateForm creates a form and returns its IDs and URLs. documentTitle can
// only be set at creation; the description requires a follow-up batchUpdate
// because the create call only accepts the info title.
func (c *Client) CreateForm(title, description, documentTitle string) (*CreatedForm, error) {
	body := &forms.Form{
		Info: &forms.Info{Title: title},
	}
	if documentTitle != "" {
		body.Info.DocumentTitle = documentTitle
	}

	created, err := c.svc.Forms.Create(body).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	result := &CreatedForm{
		FormID:       created.FormId,
		Title:        title,
		EditURL:      fmt.Sprintf("https://docs.google.com/forms/d/%s/edit", created.FormId),
		ResponderURL: created.ResponderUri,
	}
	if result.ResponderURL == "" {
		result.ResponderURL = fmt.Sprintf("https://docs.google.com/forms/d/%s/viewform", created.FormId)
	}

	if description != "" {
		_, err = c.svc.Forms.BatchUpdate(created.FormId, &forms.BatchUpdateFormRequest{
			Requests: []*forms.Request{
				{
					UpdateFormInfo: &forms.UpdateFormInfoRequest{
						Info:       &forms.Info{Description: description},
						UpdateMask: "description",
					},
				},
			},
		}).Do()
		if err != nil {
			return result, fmt.Errorf("form %s created but setting description failed: %w", created.FormId, err)
		}
	}

	return result, nil
}

// GetForm retrieves the full form structure
func (c *Client) GetForm(formID string) (*forms.Form, error) {
	form, err := c.svc.Forms.Get(formID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get form %s: %w", formID, err)
	}
	return form, nil
}

// AddQuestions appends questions to a form. startIndex places the first
// question; pass a negative value to append after the existing items.
func (c *Client) AddQuestions(formID string, questions []QuestionSpec, startIndex int64) (int, error) {
	if len(questions) == 0 {
		return 0, fmt.Errorf("no questions provided")
	}

	if startIndex < 0 {
		form, err := c.GetForm(formID)
		if err != nil {
			return 0, err
		}
		startIndex = int64(len(form.Items))
	}

	requests, err := BuildQuestionRequests(questions, startIndex)
	if err != nil {
		return 0, err
	}

	_, err = c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: requests,
	}).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to add questions to form %s: %w", formID, err)
	}
	return len(requests), nil
}

// UpdateQuestions applies updates to existing form items. The current form is
// fetched first so item types are preserved and positions resolved.
func (c *Client) UpdateQuestions(formID string, updates []QuestionUpdate) (int, error) {
	if len(updates) == 0 {
		return 0, fmt.Errorf("no updates provided")
	}

	form, err := c.GetForm(formID)
	if err != nil {
		return 0, err
	}

	requests, err := BuildUpdateRequests(form, updates)
	if err != nil {
		return 0, err
	}

	_, err = c.svc.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: requests,
	}).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to update questions in form %s: %w", formID, err)
	}
	return len(requests), nil
}

// GetResponse retrieves a single form response
func (c *Client) GetResponse(formID, responseID string) (*forms.FormResponse, error) {
	response, err := c.svc.Forms.Responses.Get(formID, responseID).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get response %s for form %s: %w", responseID, formID, err)
	}
	return response, nil
}

// ListResponses retrieves a page of form responses
func (c *Client) ListResponses(formID string, pageSize int64, pageToken string) ([]*forms.FormResponse, string, error) {
	call := c.svc.Forms.Responses.List(formID).PageSize(pageSize)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	res, err := call.Do()
	if err != nil {
		return nil, "", fmt.Errorf("failed to list responses for form %s: %w", formID, err)
	}
	return res.Responses, res.NextPageToken, nil
}

// SetPublishSettings updates the form's publish state. When published is
// false the API forces acceptingResponses to false as well.
func (c *Client) SetPublishSettings(formID string, published, acceptingResponses bool) error {
	_, err := c.svc.Forms.SetPublishSettings(formID, &forms.SetPublishSettingsRequest{
		PublishSettings: &forms.PublishSettings{
			PublishState: &forms.PublishState{
				IsPublished:          published,
				IsAcceptingResponses: acceptingResponses,
				ForceSendFields:      []string{"IsPublished", "IsAcceptingResponses"},
			},
		},
		UpdateMask: "publishState.isPublished,publishState.isAcceptingResponses",
	}).Do()
	if err != nil {
		return fmt.Errorf("failed to set publish settings for form %s: %w", formID, err)
	}
	return nil
}
