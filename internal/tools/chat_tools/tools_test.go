package chat_tools

import (
	"context"
	"strings"
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/workspacemcp/workspacemcp/internal/chat"
	"github.com/workspacemcp/workspacemcp/internal/server"
)

func TestFormatMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  chat.Message
		want []string
	}{
		{
			name: "full message",
			msg: chat.Message{
				Name:       "spaces/AAAA/messages/BBBB",
				Sender:     "Alice",
				CreateTime: "2026-01-02T03:04:05Z",
				Text:       "hello",
				SpaceName:  "Team Room",
			},
			want: []string{"Alice", "hello", "Team Room", "spaces/AAAA/messages/BBBB"},
		},
		{
			name: "without space name",
			msg: chat.Message{
				Name:   "spaces/AAAA/messages/CCCC",
				Sender: "Bob",
				Text:   "hi",
			},
			want: []string{"Bob", "hi"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatMessage(1, tt.msg)
			for _, want := range tt.want {
				if !strings.Contains(got, want) {
					t.Errorf("formatMessage() = %q, missing %q", got, want)
				}
			}
		})
	}
}

func TestFormatMessageOmitsEmptySpace(t *testing.T) {
	got := formatMessage(1, chat.Message{Sender: "Bob", Text: "hi"})
	if strings.Contains(got, "Space:") {
		t.Errorf("formatMessage() = %q, should not contain Space line", got)
	}
}

func TestListSpacesAdvertisesAcceptedSpaceTypes(t *testing.T) {
	ctx := context.Background()
	sc, err := server.NewServerContext(ctx)
	if err != nil {
		t.Fatalf("NewServerContext() error = %v", err)
	}
	defer func() {
		_ = sc.Shutdown()
	}()

	mcpSrv := mcpserver.NewMCPServer("test", "test", mcpserver.WithToolCapabilities(true))
	if err := RegisterChatTools(mcpSrv, sc, false); err != nil {
		t.Fatalf("RegisterChatTools() error = %v", err)
	}

	var desc string
	for _, tool := range mcpSrv.ListTools() {
		if tool.Tool.Name != "chat_list_spaces" {
			continue
		}
		prop, ok := tool.Tool.InputSchema.Properties["spaceType"].(map[string]any)
		if !ok {
			t.Fatal("chat_list_spaces has no spaceType parameter")
		}
		desc, _ = prop["description"].(string)
	}
	if desc == "" {
		t.Fatal("spaceType parameter has no description")
	}

	// Every value the description advertises must be one the filter accepts.
	for _, value := range []string{"all", "room", "dm"} {
		if !strings.Contains(desc, "'"+value+"'") {
			t.Errorf("spaceType description %q does not mention %q", desc, value)
		}
		if _, err := chat.SpaceTypeFilter(value); err != nil {
			t.Errorf("SpaceTypeFilter(%q) error = %v", value, err)
		}
	}
	for _, stale := range []string{"'space'", "'direct_message'"} {
		if strings.Contains(desc, stale) {
			t.Errorf("spaceType description %q advertises unsupported value %s", desc, stale)
		}
	}
}
