package cards

// CardTypeInfo describes one supported card style and the inputs it takes.
type CardTypeInfo struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Fields      []string `json:"fields"`
}

// CardTypes returns the catalog of supported card styles. The catalog is
// served both as a tool result and as an MCP resource, so keep the shapes
// in sync with the builder functions.
func CardTypes() []CardTypeInfo {
	return []CardTypeInfo{
		{
			Type:        "simple",
			Description: "Header with optional subtitle, a text paragraph and an optional image",
			Fields:      []string{"title", "subtitle", "text", "imageUrl"},
		},
		{
			Type:        "interactive",
			Description: "Text paragraph followed by a row of link buttons",
			Fields:      []string{"title", "text", "buttons"},
		},
		{
			Type:        "form",
			Description: "Form field summaries (text or selection) with a submit button",
			Fields:      []string{"title", "fields", "submit"},
		},
		{
			Type:        "rich",
			Description: "Multi-section card with decorated text, images, button lists and columns",
			Fields:      []string{"title", "subtitle", "imageUrl", "sections"},
		},
		{
			Type:        "raw",
			Description: "A pre-built Cards v2 card object passed through unchanged after validation",
			Fields:      []string{"card"},
		},
	}
}
