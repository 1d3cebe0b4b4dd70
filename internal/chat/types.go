package chat

import (
	chat "google.golang.org/api/chat/v1"
)

// Space represents a Google Chat space (room or direct message)
type Space struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Type        string `json:"type"`
	Threaded    bool   `json:"threaded,omitempty"`
}

// Message represents a message in a Google Chat space
type Message struct {
	Name       string `json:"name"`
	Sender     string `json:"sender"`
	CreateTime string `json:"createTime"`
	Text       string `json:"text"`
	SpaceName  string `json:"spaceName,omitempty"`
}

// toSpace converts a Google Chat API space to our Space type
func toSpace(s *chat.Space) Space {
	if s == nil {
		return Space{}
	}
	displayName := s.DisplayName
	if displayName == "" {
		displayName = "Unnamed Space"
	}
	spaceType := s.SpaceType
	if spaceType == "" {
		spaceType = "SPACE_TYPE_UNSPECIFIED"
	}
	return Space{
		Name:        s.Name,
		DisplayName: displayName,
		Type:        spaceType,
		Threaded:    s.SpaceThreadingState == "THREADED_MESSAGES",
	}
}

// toMessage converts a Google Chat API message to our Message type
func toMessage(m *chat.Message) Message {
	if m == nil {
		return Message{}
	}
	sender := "Unknown Sender"
	if m.Sender != nil && m.Sender.DisplayName != "" {
		sender = m.Sender.DisplayName
	} else if m.Sender != nil && m.Sender.Name != "" {
		sender = m.Sender.Name
	}
	text := m.Text
	if text == "" {
		text = "No text content"
	}
	return Message{
		Name:       m.Name,
		Sender:     sender,
		CreateTime: m.CreateTime,
		Text:       text,
	}
}
