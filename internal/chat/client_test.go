package chat

import (
	"testing"

	chat "google.golang.org/api/chat/v1"
)

func TestNormalizeSpaceID(t *testing.T) {
	tests := []struct {
		name    string
		spaceID string
		want    string
	}{
		{"bare ID", "AAAAexample", "spaces/AAAAexample"},
		{"already prefixed", "spaces/AAAAexample", "spaces/AAAAexample"},
		{"empty", "", "spaces/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSpaceID(tt.spaceID); got != tt.want {
				t.Errorf("NormalizeSpaceID(%q) = %q, want %q", tt.spaceID, got, tt.want)
			}
		})
	}
}

func TestSpaceTypeFilter(t *testing.T) {
	tests := []struct {
		name      string
		spaceType string
		want      string
		wantErr   bool
	}{
		{"all", "all", "", false},
		{"empty defaults to all", "", "", false},
		{"room", "room", `spaceType = "SPACE"`, false},
		{"dm", "dm", `spaceType = "DIRECT_MESSAGE"`, false},
		{"unknown", "channel", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SpaceTypeFilter(tt.spaceType)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SpaceTypeFilter(%q) error = %v, wantErr %v", tt.spaceType, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("SpaceTypeFilter(%q) = %q, want %q", tt.spaceType, got, tt.want)
			}
		})
	}
}

func TestToSpace(t *testing.T) {
	tests := []struct {
		name  string
		space *chat.Space
		want  Space
	}{
		{
			name: "named room",
			space: &chat.Space{
				Name:                "spaces/abc",
				DisplayName:         "Engineering",
				SpaceType:           "SPACE",
				SpaceThreadingState: "THREADED_MESSAGES",
			},
			want: Space{Name: "spaces/abc", DisplayName: "Engineering", Type: "SPACE", Threaded: true},
		},
		{
			name:  "direct message without display name",
			space: &chat.Space{Name: "spaces/dm1", SpaceType: "DIRECT_MESSAGE"},
			want:  Space{Name: "spaces/dm1", DisplayName: "Unnamed Space", Type: "DIRECT_MESSAGE"},
		},
		{
			name:  "missing type",
			space: &chat.Space{Name: "spaces/x", DisplayName: "X"},
			want:  Space{Name: "spaces/x", DisplayName: "X", Type: "SPACE_TYPE_UNSPECIFIED"},
		},
		{
			name:  "nil space",
			space: nil,
			want:  Space{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toSpace(tt.space); got != tt.want {
				t.Errorf("toSpace() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestToMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  *chat.Message
		want Message
	}{
		{
			name: "full message",
			msg: &chat.Message{
				Name:       "spaces/abc/messages/1",
				Sender:     &chat.User{DisplayName: "Alice", Name: "users/1"},
				CreateTime: "2026-01-02T03:04:05Z",
				Text:       "hello",
			},
			want: Message{
				Name:       "spaces/abc/messages/1",
				Sender:     "Alice",
				CreateTime: "2026-01-02T03:04:05Z",
				Text:       "hello",
			},
		},
		{
			name: "sender without display name falls back to resource name",
			msg: &chat.Message{
				Name:   "spaces/abc/messages/2",
				Sender: &chat.User{Name: "users/2"},
				Text:   "hi",
			},
			want: Message{Name: "spaces/abc/messages/2", Sender: "users/2", Text: "hi"},
		},
		{
			name: "no sender and no text",
			msg:  &chat.Message{Name: "spaces/abc/messages/3"},
			want: Message{Name: "spaces/abc/messages/3", Sender: "Unknown Sender", Text: "No text content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := toMessage(tt.msg); got != tt.want {
				t.Errorf("toMessage() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestValidateWebhookURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "valid webhook",
			url:  "https://chat.googleapis.com/v1/spaces/AAA/messages?key=k&token=t",
		},
		{
			name:    "http scheme",
			url:     "http://chat.googleapis.com/v1/spaces/AAA/messages",
			wantErr: true,
		},
		{
			name:    "wrong host",
			url:     "https://example.com/v1/spaces/AAA/messages",
			wantErr: true,
		},
		{
			name:    "wrong path",
			url:     "https://chat.googleapis.com/v2/other",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateWebhookURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateWebhookURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
