package adapter_tools

import (
	"context"
	"errors"

	forms_v1 "google.golang.org/api/forms/v1"

	"github.com/workspacemcp/workspacemcp/internal/chat"
	"github.com/workspacemcp/workspacemcp/internal/forms"
	"github.com/workspacemcp/workspacemcp/internal/google"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

// The service types below are the adapter targets. Every exported method
// follows the canonical shape func(ctx, ArgsStruct) (T, error) so the
// adapter layer can derive parameter tables and input schemas for them.

// ChatService exposes Google Chat operations through the adapter layer.
type ChatService struct {
	sc *server.ServerContext
}

// NewChatService returns a Chat adapter target bound to the server context.
func NewChatService(sc *server.ServerContext) *ChatService {
	return &ChatService{sc: sc}
}

func (s *ChatService) client(account string) (*chat.Client, error) {
	if account == "" {
		account = "default"
	}
	client := s.sc.ChatClientForAccount(account)
	if client == nil {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}
	return client, nil
}

// ChatListSpacesArgs are the arguments for ChatService.ListSpaces.
type ChatListSpacesArgs struct {
	Account   string `json:"account,omitempty"`
	PageSize  int64  `json:"pageSize,omitempty"`
	SpaceType string `json:"spaceType,omitempty"`
}

// ListSpaces lists the spaces the account is a member of.
func (s *ChatService) ListSpaces(ctx context.Context, args ChatListSpacesArgs) ([]chat.Space, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	pageSize := args.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	spaceType := args.SpaceType
	if spaceType == "" {
		spaceType = "all"
	}
	return client.ListSpaces(pageSize, spaceType)
}

// ChatGetSpaceArgs are the arguments for ChatService.GetSpace.
type ChatGetSpaceArgs struct {
	Account string `json:"account,omitempty"`
	Space   string `json:"space"`
}

// GetSpace returns a single space by ID or resource name.
func (s *ChatService) GetSpace(ctx context.Context, args ChatGetSpaceArgs) (chat.Space, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return chat.Space{}, err
	}
	return client.GetSpace(args.Space)
}

// ChatListMessagesArgs are the arguments for ChatService.ListMessages.
type ChatListMessagesArgs struct {
	Account  string `json:"account,omitempty"`
	Space    string `json:"space"`
	PageSize int64  `json:"pageSize,omitempty"`
	OrderBy  string `json:"orderBy,omitempty"`
}

// ListMessages lists recent messages in a space.
func (s *ChatService) ListMessages(ctx context.Context, args ChatListMessagesArgs) ([]chat.Message, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	pageSize := args.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	orderBy := args.OrderBy
	if orderBy == "" {
		orderBy = "createTime desc"
	}
	return client.ListMessages(args.Space, pageSize, orderBy)
}

// ChatSendMessageArgs are the arguments for ChatService.SendMessage.
type ChatSendMessageArgs struct {
	Account   string `json:"account,omitempty"`
	Space     string `json:"space"`
	Text      string `json:"text"`
	ThreadKey string `json:"threadKey,omitempty"`
}

// SendMessage sends a text message to a space.
func (s *ChatService) SendMessage(ctx context.Context, args ChatSendMessageArgs) (chat.Message, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return chat.Message{}, err
	}
	return client.SendMessage(args.Space, args.Text, args.ThreadKey)
}

// ChatSearchMessagesArgs are the arguments for ChatService.SearchMessages.
type ChatSearchMessagesArgs struct {
	Account  string `json:"account,omitempty"`
	Query    string `json:"query"`
	Space    string `json:"space,omitempty"`
	PageSize int64  `json:"pageSize,omitempty"`
}

// SearchMessages searches messages in one space or across all spaces.
func (s *ChatService) SearchMessages(ctx context.Context, args ChatSearchMessagesArgs) ([]chat.Message, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	pageSize := args.PageSize
	if pageSize <= 0 {
		pageSize = 25
	}
	return client.SearchMessages(args.Query, args.Space, pageSize)
}

// FormsService exposes Google Forms operations through the adapter layer.
type FormsService struct {
	sc *server.ServerContext
}

// NewFormsService returns a Forms adapter target bound to the server context.
func NewFormsService(sc *server.ServerContext) *FormsService {
	return &FormsService{sc: sc}
}

func (s *FormsService) client(account string) (*forms.Client, error) {
	if account == "" {
		account = "default"
	}
	client := s.sc.FormsClientForAccount(account)
	if client == nil {
		return nil, errors.New(google.GetAuthenticationErrorMessage(account))
	}
	return client, nil
}

// FormsCreateFormArgs are the arguments for FormsService.CreateForm.
type FormsCreateFormArgs struct {
	Account       string `json:"account,omitempty"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	DocumentTitle string `json:"documentTitle,omitempty"`
}

// CreateForm creates a new form.
func (s *FormsService) CreateForm(ctx context.Context, args FormsCreateFormArgs) (*forms.CreatedForm, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	return client.CreateForm(args.Title, args.Description, args.DocumentTitle)
}

// FormsGetFormArgs are the arguments for FormsService.GetForm.
type FormsGetFormArgs struct {
	Account string `json:"account,omitempty"`
	FormID  string `json:"formId"`
}

// GetForm returns a form's metadata and items.
func (s *FormsService) GetForm(ctx context.Context, args FormsGetFormArgs) (*forms_v1.Form, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	return client.GetForm(args.FormID)
}

// FormsAddQuestionsArgs are the arguments for FormsService.AddQuestions.
type FormsAddQuestionsArgs struct {
	Account   string               `json:"account,omitempty"`
	FormID    string               `json:"formId"`
	Questions []forms.QuestionSpec `json:"questions"`
	Index     int64                `json:"index,omitempty"`
}

// AddQuestionsResult reports how many items a batch update created.
type AddQuestionsResult struct {
	Added int `json:"added"`
}

// AddQuestions adds questions and items to a form.
func (s *FormsService) AddQuestions(ctx context.Context, args FormsAddQuestionsArgs) (AddQuestionsResult, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return AddQuestionsResult{}, err
	}
	added, err := client.AddQuestions(args.FormID, args.Questions, args.Index)
	return AddQuestionsResult{Added: added}, err
}

// FormsUpdateQuestionsArgs are the arguments for FormsService.UpdateQuestions.
type FormsUpdateQuestionsArgs struct {
	Account string                 `json:"account,omitempty"`
	FormID  string                 `json:"formId"`
	Updates []forms.QuestionUpdate `json:"updates"`
}

// UpdateQuestionsResult reports how many items a batch update changed.
type UpdateQuestionsResult struct {
	Updated int `json:"updated"`
}

// UpdateQuestions updates existing questions and items in a form.
func (s *FormsService) UpdateQuestions(ctx context.Context, args FormsUpdateQuestionsArgs) (UpdateQuestionsResult, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return UpdateQuestionsResult{}, err
	}
	updated, err := client.UpdateQuestions(args.FormID, args.Updates)
	return UpdateQuestionsResult{Updated: updated}, err
}

// FormsGetResponseArgs are the arguments for FormsService.GetResponse.
type FormsGetResponseArgs struct {
	Account    string `json:"account,omitempty"`
	FormID     string `json:"formId"`
	ResponseID string `json:"responseId"`
}

// GetResponse returns a single form response.
func (s *FormsService) GetResponse(ctx context.Context, args FormsGetResponseArgs) (*forms_v1.FormResponse, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return nil, err
	}
	return client.GetResponse(args.FormID, args.ResponseID)
}

// FormsListResponsesArgs are the arguments for FormsService.ListResponses.
type FormsListResponsesArgs struct {
	Account   string `json:"account,omitempty"`
	FormID    string `json:"formId"`
	PageSize  int64  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

// ListResponsesResult is one page of form responses.
type ListResponsesResult struct {
	Responses     []*forms_v1.FormResponse `json:"responses"`
	NextPageToken string                   `json:"nextPageToken,omitempty"`
}

// ListResponses lists responses to a form.
func (s *FormsService) ListResponses(ctx context.Context, args FormsListResponsesArgs) (ListResponsesResult, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return ListResponsesResult{}, err
	}
	pageSize := args.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	responses, nextPageToken, err := client.ListResponses(args.FormID, pageSize, args.PageToken)
	return ListResponsesResult{Responses: responses, NextPageToken: nextPageToken}, err
}

// FormsSetPublishStateArgs are the arguments for FormsService.SetPublishState.
type FormsSetPublishStateArgs struct {
	Account            string `json:"account,omitempty"`
	FormID             string `json:"formId"`
	Published          bool   `json:"published"`
	AcceptingResponses *bool  `json:"acceptingResponses,omitempty"`
}

// SetPublishStateResult echoes the applied publish state.
type SetPublishStateResult struct {
	Published          bool `json:"published"`
	AcceptingResponses bool `json:"acceptingResponses"`
}

// SetPublishState publishes or unpublishes a form.
func (s *FormsService) SetPublishState(ctx context.Context, args FormsSetPublishStateArgs) (SetPublishStateResult, error) {
	client, err := s.client(args.Account)
	if err != nil {
		return SetPublishStateResult{}, err
	}
	accepting := args.Published
	if args.AcceptingResponses != nil {
		accepting = *args.AcceptingResponses
	}
	if err := client.SetPublishSettings(args.FormID, args.Published, accepting); err != nil {
		return SetPublishStateResult{}, err
	}
	return SetPublishStateResult{Published: args.Published, AcceptingResponses: accepting}, nil
}
