package cards

import (
	"fmt"
	"strings"

	chat "google.golang.org/api/chat/v1"
)

// SimpleCard builds a card with a header and an optional text body.
func SimpleCard(title, subtitle, text, imageURL string) *chat.GoogleAppsCardV1Card {
	card := &chat.GoogleAppsCardV1Card{}

	if title != "" || subtitle != "" || imageURL != "" {
		card.Header = &chat.GoogleAppsCardV1CardHeader{
			Title:    title,
			Subtitle: subtitle,
		}
		if imageURL != "" {
			card.Header.ImageUrl = imageURL
			card.Header.ImageType = "SQUARE"
		}
	}

	if text != "" {
		card.Sections = append(card.Sections, &chat.GoogleAppsCardV1Section{
			Widgets: []*chat.GoogleAppsCardV1Widget{
				{TextParagraph: &chat.GoogleAppsCardV1TextParagraph{Text: text}},
			},
		})
	}

	return card
}

// InteractiveCard builds a card with a text body and a row of buttons.
func InteractiveCard(title, text string, buttons []Button) *chat.GoogleAppsCardV1Card {
	card := SimpleCard(title, "", text, "")

	if len(buttons) > 0 {
		card.Sections = append(card.Sections, &chat.GoogleAppsCardV1Section{
			Widgets: []*chat.GoogleAppsCardV1Widget{
				{ButtonList: buttonList(buttons)},
			},
		})
	}

	return card
}

// FormCard builds a card that lists form fields as text-paragraph summaries
// with a submit button. Chat does not honor interactive input widgets on
// cards delivered through incoming webhooks, so fields render as a readable
// summary rather than live inputs.
func FormCard(title string, fields []FormField, submit SubmitAction) *chat.GoogleAppsCardV1Card {
	card := &chat.GoogleAppsCardV1Card{}

	if title != "" {
		card.Header = &chat.GoogleAppsCardV1CardHeader{Title: title}
	}

	if len(fields) > 0 {
		var widgets []*chat.GoogleAppsCardV1Widget
		for _, f := range fields {
			widgets = append(widgets, &chat.GoogleAppsCardV1Widget{
				TextParagraph: &chat.GoogleAppsCardV1TextParagraph{Text: formFieldSummary(f)},
			})
		}
		card.Sections = append(card.Sections, &chat.GoogleAppsCardV1Section{Widgets: widgets})
	}

	submitText := submit.Text
	if submitText == "" {
		submitText = "Submit"
	}
	card.Sections = append(card.Sections, &chat.GoogleAppsCardV1Section{
		Widgets: []*chat.GoogleAppsCardV1Widget{
			{ButtonList: buttonList([]Button{{Text: submitText, URL: submit.URL, OnClick: submit.OnClick}})},
		},
	})

	return card
}

// formFieldSummary renders one field line,
// e.g. "<b>Rating:</b> selection (good, bad) (Required)".
func formFieldSummary(f FormField) string {
	label := f.Label
	if label == "" {
		label = f.Name
	}
	if label == "" {
		label = "Field"
	}
	fieldType := f.Type
	if fieldType == "" {
		fieldType = "text"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "<b>%s:</b> %s", label, fieldType)
	if len(f.Options) > 0 {
		fmt.Fprintf(&sb, " (%s)", strings.Join(f.Options, ", "))
	}
	if f.Required {
		sb.WriteString(" (Required)")
	} else {
		sb.WriteString(" (Optional)")
	}
	return sb.String()
}

// RichCard builds a card from section configurations. Unknown widget types
// are skipped rather than failing the whole card.
func RichCard(title, subtitle, imageURL string, sections []SectionConfig) *chat.GoogleAppsCardV1Card {
	card := SimpleCard(title, subtitle, "", imageURL)

	for _, sc := range sections {
		section := &chat.GoogleAppsCardV1Section{
			Header:      sc.Header,
			Collapsible: sc.Collapsible,
		}
		for _, wc := range sc.Widgets {
			if w := buildWidget(wc); w != nil {
				section.Widgets = append(section.Widgets, w)
			}
		}
		if len(section.Widgets) > 0 {
			card.Sections = append(card.Sections, section)
		}
	}

	return card
}

func buildWidget(wc WidgetConfig) *chat.GoogleAppsCardV1Widget {
	switch wc.Type {
	case "text_paragraph":
		return &chat.GoogleAppsCardV1Widget{
			TextParagraph: &chat.GoogleAppsCardV1TextParagraph{Text: wc.Text},
		}

	case "decorated_text":
		dt := &chat.GoogleAppsCardV1DecoratedText{
			Text:        wc.Text,
			TopLabel:    wc.TopLabel,
			BottomLabel: wc.BottomLabel,
			WrapText:    true,
		}
		if wc.StartIcon != "" {
			dt.StartIcon = &chat.GoogleAppsCardV1Icon{KnownIcon: wc.StartIcon}
		}
		if wc.Clickable && wc.URL != "" {
			dt.OnClick = openLink(wc.URL)
		}
		return &chat.GoogleAppsCardV1Widget{DecoratedText: dt}

	case "button_list":
		if len(wc.Buttons) == 0 {
			return nil
		}
		return &chat.GoogleAppsCardV1Widget{ButtonList: buttonList(wc.Buttons)}

	case "image":
		img := &chat.GoogleAppsCardV1Image{
			ImageUrl: wc.ImageURL,
			AltText:  wc.AltText,
		}
		if wc.Clickable && wc.URL != "" {
			img.OnClick = openLink(wc.URL)
		}
		return &chat.GoogleAppsCardV1Widget{Image: img}

	case "divider":
		return &chat.GoogleAppsCardV1Widget{Divider: &chat.GoogleAppsCardV1Divider{}}

	case "columns":
		var items []*chat.GoogleAppsCardV1Column
		for _, cc := range wc.Columns {
			col := &chat.GoogleAppsCardV1Column{
				HorizontalAlignment: columnAlignment(cc.Alignment),
			}
			for _, cw := range cc.Widgets {
				if w := buildColumnWidget(cw); w != nil {
					col.Widgets = append(col.Widgets, w)
				}
			}
			items = append(items, col)
		}
		if len(items) == 0 {
			return nil
		}
		return &chat.GoogleAppsCardV1Widget{
			Columns: &chat.GoogleAppsCardV1Columns{ColumnItems: items},
		}

	default:
		return nil
	}
}

// buildColumnWidget handles the restricted widget set allowed inside columns.
func buildColumnWidget(wc WidgetConfig) *chat.GoogleAppsCardV1Widgets {
	w := buildWidget(wc)
	if w == nil {
		return nil
	}
	return &chat.GoogleAppsCardV1Widgets{
		TextParagraph: w.TextParagraph,
		DecoratedText: w.DecoratedText,
		ButtonList:    w.ButtonList,
		Image:         w.Image,
	}
}

func columnAlignment(alignment string) string {
	switch strings.ToUpper(alignment) {
	case "CENTER":
		return "CENTER"
	case "END":
		return "END"
	default:
		return "START"
	}
}

func buttonList(buttons []Button) *chat.GoogleAppsCardV1ButtonList {
	list := &chat.GoogleAppsCardV1ButtonList{}
	for _, b := range buttons {
		text := b.Text
		if text == "" {
			text = "Button"
		}
		btn := &chat.GoogleAppsCardV1Button{Text: text}
		switch {
		case b.OnClick != nil:
			btn.OnClick = b.OnClick
		case b.URL != "":
			btn.OnClick = openLink(b.URL)
		}
		list.Buttons = append(list.Buttons, btn)
	}
	return list
}

func openLink(url string) *chat.GoogleAppsCardV1OnClick {
	return &chat.GoogleAppsCardV1OnClick{
		OpenLink: &chat.GoogleAppsCardV1OpenLink{Url: url},
	}
}

// Validate checks that a card has renderable content and that every widget
// carries exactly one widget payload.
func Validate(card *chat.GoogleAppsCardV1Card) error {
	if card == nil {
		return fmt.Errorf("card is nil")
	}
	if card.Header == nil && len(card.Sections) == 0 {
		return fmt.Errorf("card must have a header or at least one section")
	}
	for i, section := range card.Sections {
		if len(section.Widgets) == 0 {
			return fmt.Errorf("section %d has no widgets", i)
		}
		for j, w := range section.Widgets {
			if countWidgetPayloads(w) != 1 {
				return fmt.Errorf("section %d widget %d must have exactly one widget payload", i, j)
			}
		}
	}
	return nil
}

func countWidgetPayloads(w *chat.GoogleAppsCardV1Widget) int {
	n := 0
	if w.TextParagraph != nil {
		n++
	}
	if w.DecoratedText != nil {
		n++
	}
	if w.ButtonList != nil {
		n++
	}
	if w.Image != nil {
		n++
	}
	if w.Divider != nil {
		n++
	}
	if w.Columns != nil {
		n++
	}
	return n
}
