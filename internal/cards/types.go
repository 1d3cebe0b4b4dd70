package cards

import (
	chat "google.golang.org/api/chat/v1"
)

// Button describes a card button. URL takes precedence; OnClick allows an
// arbitrary pre-built action (e.g. a Chat app action).
type Button struct {
	Text    string                        `json:"text"`
	URL     string                        `json:"url,omitempty"`
	OnClick *chat.GoogleAppsCardV1OnClick `json:"-"`
}

// ColumnConfig describes one column in a columns widget.
type ColumnConfig struct {
	Alignment string         `json:"alignment,omitempty"` // START, CENTER or END
	Widgets   []WidgetConfig `json:"widgets,omitempty"`
}

// WidgetConfig describes a single widget in a rich card section. Type selects
// the widget kind; the remaining fields apply per kind.
type WidgetConfig struct {
	Type string `json:"type"`

	// text_paragraph and decorated_text
	Text        string `json:"text,omitempty"`
	TopLabel    string `json:"top_label,omitempty"`
	BottomLabel string `json:"bottom_label,omitempty"`
	StartIcon   string `json:"start_icon,omitempty"`

	// decorated_text and image click-through
	Clickable bool   `json:"clickable,omitempty"`
	URL       string `json:"url,omitempty"`

	// image
	ImageURL string `json:"image_url,omitempty"`
	AltText  string `json:"alt_text,omitempty"`

	// button_list
	Buttons []Button `json:"buttons,omitempty"`

	// columns
	Columns []ColumnConfig `json:"columns,omitempty"`
}

// SectionConfig describes one section of a rich card.
type SectionConfig struct {
	Header      string         `json:"header,omitempty"`
	Collapsible bool           `json:"collapsible,omitempty"`
	Widgets     []WidgetConfig `json:"widgets"`
}

// FormField describes one field of a form card summary.
type FormField struct {
	Type     string   `json:"type"` // text or selection
	Name     string   `json:"name"`
	Label    string   `json:"label,omitempty"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required,omitempty"`
}

// SubmitAction describes a form card's submit button.
type SubmitAction struct {
	Text    string                        `json:"text,omitempty"`
	URL     string                        `json:"url,omitempty"`
	OnClick *chat.GoogleAppsCardV1OnClick `json:"-"`
}
