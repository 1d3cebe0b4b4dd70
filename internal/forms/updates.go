package forms

import (
	"fmt"
	"strings"

	forms "google.golang.org/api/forms/v1"
)

// TextUpdate updates a text question.
type TextUpdate struct {
	Paragraph *bool `json:"paragraph,omitempty"`
}

// ChoiceUpdate updates a choice or checkbox question.
type ChoiceUpdate struct {
	Type    *string        `json:"type,omitempty"`
	Shuffle *bool          `json:"shuffle,omitempty"`
	Options []ChoiceOption `json:"options,omitempty"`
}

// ScaleUpdate updates a scale question.
type ScaleUpdate struct {
	Low       *int64  `json:"low,omitempty"`
	High      *int64  `json:"high,omitempty"`
	LowLabel  *string `json:"low_label,omitempty"`
	HighLabel *string `json:"high_label,omitempty"`
}

// DateUpdate updates a date question.
type DateUpdate struct {
	IncludeTime *bool `json:"include_time,omitempty"`
	IncludeYear *bool `json:"include_year,omitempty"`
}

// TimeUpdate updates a time question.
type TimeUpdate struct {
	Duration *bool `json:"duration,omitempty"`
}

// RatingUpdate updates a rating question.
type RatingUpdate struct {
	ScaleLevel *int64  `json:"rating_scale_level,omitempty"`
	IconType   *string `json:"icon_type,omitempty"`
}

// ImageUpdate updates an image item.
type ImageUpdate struct {
	SourceURI *string `json:"source_uri,omitempty"`
	AltText   *string `json:"alt_text,omitempty"`
}

// VideoUpdate updates a video item.
type VideoUpdate struct {
	YouTubeURI *string `json:"youtube_uri,omitempty"`
	Caption    *string `json:"caption,omitempty"`
}

// GridUpdate updates the column choices of a question group.
type GridUpdate struct {
	ChoiceType       *string  `json:"choice_type,omitempty"`
	Options          []string `json:"options,omitempty"`
	ShuffleQuestions *bool    `json:"shuffle_questions,omitempty"`
}

// GroupUpdate updates a question group item.
type GroupUpdate struct {
	Rows []RowQuestion `json:"rows,omitempty"`
	Grid *GridUpdate   `json:"grid,omitempty"`
}

// GradingUpdate updates quiz grading on a question.
type GradingUpdate struct {
	PointValue      *int64        `json:"point_value,omitempty"`
	CorrectAnswers  []string      `json:"correct_answers,omitempty"`
	WhenRight       *FeedbackSpec `json:"when_right,omitempty"`
	WhenWrong       *FeedbackSpec `json:"when_wrong,omitempty"`
	GeneralFeedback *FeedbackSpec `json:"general_feedback,omitempty"`
}

// QuestionUpdate identifies a form item and the fields to change on it.
// Fields left nil are untouched; the update mask only names fields that are
// set. The sub-update applied must match the item's existing type.
type QuestionUpdate struct {
	ItemID      string  `json:"item_id"`
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Required    *bool   `json:"required,omitempty"`

	Text    *TextUpdate    `json:"text,omitempty"`
	Choice  *ChoiceUpdate  `json:"choice,omitempty"`
	Scale   *ScaleUpdate   `json:"scale,omitempty"`
	Date    *DateUpdate    `json:"date,omitempty"`
	Time    *TimeUpdate    `json:"time,omitempty"`
	Rating  *RatingUpdate  `json:"rating,omitempty"`
	Image   *ImageUpdate   `json:"image,omitempty"`
	Video   *VideoUpdate   `json:"video,omitempty"`
	Group   *GroupUpdate   `json:"group,omitempty"`
	Grading *GradingUpdate `json:"grading,omitempty"`
}

// itemKind classifies an existing form item so an update cannot change it
// into a different item type, which the API rejects.
type itemKind string

const (
	kindQuestion  itemKind = "question"
	kindImage     itemKind = "image"
	kindVideo     itemKind = "video"
	kindPageBreak itemKind = "pageBreak"
	kindTextItem  itemKind = "textItem"
	kindGroup     itemKind = "questionGroup"
	kindOther     itemKind = "other"
)

func detectItemKind(item *forms.Item) itemKind {
	switch {
	case item.VideoItem != nil:
		return kindVideo
	case item.ImageItem != nil:
		return kindImage
	case item.QuestionItem != nil:
		return kindQuestion
	case item.QuestionGroupItem != nil:
		return kindGroup
	case item.PageBreakItem != nil:
		return kindPageBreak
	case item.TextItem != nil:
		return kindTextItem
	default:
		return kindOther
	}
}

// BuildUpdateRequests compiles question updates into updateItem requests
// against the current form state. Item types and positions come from the
// fetched form; updates referencing unknown items or mismatched types fail.
func BuildUpdateRequests(form *forms.Form, updates []QuestionUpdate) ([]*forms.Request, error) {
	kinds := make(map[string]itemKind, len(form.Items))
	indexes := make(map[string]int64, len(form.Items))
	for i, item := range form.Items {
		kinds[item.ItemId] = detectItemKind(item)
		indexes[item.ItemId] = int64(i)
	}

	var requests []*forms.Request
	for _, u := range updates {
		if u.ItemID == "" {
			return nil, fmt.Errorf("question update is missing item_id")
		}
		kind, ok := kinds[u.ItemID]
		if !ok {
			return nil, fmt.Errorf("item %s not found in form %s", u.ItemID, form.FormId)
		}

		if err := validateUpdate(kind, u); err != nil {
			return nil, fmt.Errorf("item %s: %w", u.ItemID, err)
		}

		item, mask, err := buildUpdatedItem(kind, u)
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", u.ItemID, err)
		}
		if len(mask) == 0 {
			return nil, fmt.Errorf("item %s: no updatable fields set", u.ItemID)
		}

		item.ItemId = u.ItemID
		requests = append(requests, &forms.Request{
			UpdateItem: &forms.UpdateItemRequest{
				Item: item,
				Location: &forms.Location{
					Index:           indexes[u.ItemID],
					ForceSendFields: []string{"Index"},
				},
				UpdateMask: strings.Join(mask, ","),
			},
		})
	}
	return requests, nil
}

func validateUpdate(kind itemKind, u QuestionUpdate) error {
	questionUpdates := u.Text != nil || u.Choice != nil || u.Scale != nil ||
		u.Date != nil || u.Time != nil || u.Rating != nil || u.Grading != nil ||
		u.Required != nil
	if questionUpdates && kind != kindQuestion {
		return fmt.Errorf("question fields cannot be applied to a %s item", kind)
	}
	if u.Image != nil && kind != kindImage {
		return fmt.Errorf("image fields cannot be applied to a %s item", kind)
	}
	if u.Video != nil && kind != kindVideo {
		return fmt.Errorf("video fields cannot be applied to a %s item", kind)
	}
	if u.Group != nil && kind != kindGroup {
		return fmt.Errorf("question group fields cannot be applied to a %s item", kind)
	}

	if u.Video != nil && u.Video.YouTubeURI != nil && *u.Video.YouTubeURI == "" {
		return fmt.Errorf("video items require a non-empty youtube_uri")
	}
	if u.Image != nil && u.Image.SourceURI != nil && *u.Image.SourceURI == "" {
		return fmt.Errorf("image items require a non-empty source_uri")
	}
	if u.Scale != nil && u.Scale.Low != nil && u.Scale.High != nil && *u.Scale.High <= *u.Scale.Low {
		return fmt.Errorf("scale high must be greater than low")
	}
	if u.Rating != nil && u.Rating.IconType != nil && !validRatingIcons[*u.Rating.IconType] {
		return fmt.Errorf("invalid rating icon_type %q (supported: STAR, HEART, THUMB_UP)", *u.Rating.IconType)
	}
	return nil
}

// buildUpdatedItem assembles the sparse item payload and its update mask.
// The item skeleton always carries the original item type so the API does
// not interpret the update as a type change.
func buildUpdatedItem(kind itemKind, u QuestionUpdate) (*forms.Item, []string, error) {
	item := &forms.Item{}
	var mask []string

	switch kind {
	case kindQuestion:
		item.QuestionItem = &forms.QuestionItem{Question: &forms.Question{}}
	case kindImage:
		item.ImageItem = &forms.ImageItem{}
	case kindVideo:
		item.VideoItem = &forms.VideoItem{}
	case kindPageBreak:
		item.PageBreakItem = &forms.PageBreakItem{}
	case kindTextItem:
		item.TextItem = &forms.TextItem{}
	case kindGroup:
		item.QuestionGroupItem = &forms.QuestionGroupItem{}
	default:
		return nil, nil, fmt.Errorf("item type does not support updates")
	}

	if u.Title != nil {
		item.Title = *u.Title
		mask = append(mask, "title")
	}
	if u.Description != nil {
		item.Description = *u.Description
		mask = append(mask, "description")
	}

	if kind == kindQuestion {
		q := item.QuestionItem.Question
		if u.Required != nil {
			q.Required = *u.Required
			q.ForceSendFields = append(q.ForceSendFields, "Required")
			mask = append(mask, "questionItem.question.required")
		}
		if u.Text != nil && u.Text.Paragraph != nil {
			q.TextQuestion = &forms.TextQuestion{
				Paragraph:       *u.Text.Paragraph,
				ForceSendFields: []string{"Paragraph"},
			}
			mask = append(mask, "questionItem.question.textQuestion.paragraph")
		}
		if u.Choice != nil {
			cq := &forms.ChoiceQuestion{}
			if u.Choice.Type != nil {
				cq.Type = *u.Choice.Type
				mask = append(mask, "questionItem.question.choiceQuestion.type")
			}
			if u.Choice.Shuffle != nil {
				cq.Shuffle = *u.Choice.Shuffle
				cq.ForceSendFields = append(cq.ForceSendFields, "Shuffle")
				mask = append(mask, "questionItem.question.choiceQuestion.shuffle")
			}
			if len(u.Choice.Options) > 0 {
				cq.Options = buildChoiceOptions(u.Choice.Options)
				mask = append(mask, "questionItem.question.choiceQuestion.options")
			}
			q.ChoiceQuestion = cq
		}
		if u.Scale != nil {
			sq := &forms.ScaleQuestion{}
			if u.Scale.Low != nil {
				sq.Low = *u.Scale.Low
				sq.ForceSendFields = append(sq.ForceSendFields, "Low")
				mask = append(mask, "questionItem.question.scaleQuestion.low")
			}
			if u.Scale.High != nil {
				sq.High = *u.Scale.High
				mask = append(mask, "questionItem.question.scaleQuestion.high")
			}
			if u.Scale.LowLabel != nil {
				sq.LowLabel = *u.Scale.LowLabel
				mask = append(mask, "questionItem.question.scaleQuestion.lowLabel")
			}
			if u.Scale.HighLabel != nil {
				sq.HighLabel = *u.Scale.HighLabel
				mask = append(mask, "questionItem.question.scaleQuestion.highLabel")
			}
			q.ScaleQuestion = sq
		}
		if u.Date != nil {
			dq := &forms.DateQuestion{}
			if u.Date.IncludeTime != nil {
				dq.IncludeTime = *u.Date.IncludeTime
				dq.ForceSendFields = append(dq.ForceSendFields, "IncludeTime")
				mask = append(mask, "questionItem.question.dateQuestion.includeTime")
			}
			if u.Date.IncludeYear != nil {
				dq.IncludeYear = *u.Date.IncludeYear
				dq.ForceSendFields = append(dq.ForceSendFields, "IncludeYear")
				mask = append(mask, "questionItem.question.dateQuestion.includeYear")
			}
			q.DateQuestion = dq
		}
		if u.Time != nil && u.Time.Duration != nil {
			q.TimeQuestion = &forms.TimeQuestion{
				Duration:        *u.Time.Duration,
				ForceSendFields: []string{"Duration"},
			}
			mask = append(mask, "questionItem.question.timeQuestion.duration")
		}
		if u.Rating != nil {
			rq := &forms.RatingQuestion{}
			if u.Rating.ScaleLevel != nil {
				rq.RatingScaleLevel = *u.Rating.ScaleLevel
				mask = append(mask, "questionItem.question.ratingQuestion.ratingScaleLevel")
			}
			if u.Rating.IconType != nil {
				rq.IconType = *u.Rating.IconType
				mask = append(mask, "questionItem.question.ratingQuestion.iconType")
			}
			q.RatingQuestion = rq
		}
		if u.Grading != nil {
			g := &forms.Grading{}
			if u.Grading.PointValue != nil {
				g.PointValue = *u.Grading.PointValue
				g.ForceSendFields = append(g.ForceSendFields, "PointValue")
				mask = append(mask, "questionItem.question.grading.pointValue")
			}
			if len(u.Grading.CorrectAnswers) > 0 {
				answers := make([]*forms.CorrectAnswer, 0, len(u.Grading.CorrectAnswers))
				for _, v := range u.Grading.CorrectAnswers {
					answers = append(answers, &forms.CorrectAnswer{Value: v})
				}
				g.CorrectAnswers = &forms.CorrectAnswers{Answers: answers}
				mask = append(mask, "questionItem.question.grading.correctAnswers")
			}
			if u.Grading.WhenRight != nil {
				g.WhenRight = buildFeedback(u.Grading.WhenRight)
				mask = append(mask, "questionItem.question.grading.whenRight")
			}
			if u.Grading.WhenWrong != nil {
				g.WhenWrong = buildFeedback(u.Grading.WhenWrong)
				mask = append(mask, "questionItem.question.grading.whenWrong")
			}
			if u.Grading.GeneralFeedback != nil {
				g.GeneralFeedback = buildFeedback(u.Grading.GeneralFeedback)
				mask = append(mask, "questionItem.question.grading.generalFeedback")
			}
			q.Grading = g
		}
	}

	if kind == kindGroup && u.Group != nil {
		group := item.QuestionGroupItem
		if len(u.Group.Rows) > 0 {
			for _, row := range u.Group.Rows {
				group.Questions = append(group.Questions, &forms.Question{
					RowQuestion: &forms.RowQuestion{Title: row.Title},
				})
			}
			mask = append(mask, "questionGroupItem.questions")
		}
		if u.Group.Grid != nil {
			grid := &forms.Grid{}
			if u.Group.Grid.ChoiceType != nil || len(u.Group.Grid.Options) > 0 {
				choiceType := "RADIO"
				if u.Group.Grid.ChoiceType != nil {
					choiceType = *u.Group.Grid.ChoiceType
				}
				grid.Columns = &forms.ChoiceQuestion{
					Type:    choiceType,
					Options: buildValueOptions(u.Group.Grid.Options),
				}
				mask = append(mask, "questionGroupItem.grid.columns")
			}
			if u.Group.Grid.ShuffleQuestions != nil {
				grid.ShuffleQuestions = *u.Group.Grid.ShuffleQuestions
				grid.ForceSendFields = append(grid.ForceSendFields, "ShuffleQuestions")
				mask = append(mask, "questionGroupItem.grid.shuffleQuestions")
			}
			group.Grid = grid
		}
	}

	if kind == kindImage && u.Image != nil {
		img := &forms.Image{}
		if u.Image.SourceURI != nil {
			img.SourceUri = *u.Image.SourceURI
			mask = append(mask, "imageItem.image.sourceUri")
		}
		if u.Image.AltText != nil {
			img.AltText = *u.Image.AltText
			mask = append(mask, "imageItem.image.altText")
		}
		item.ImageItem.Image = img
	}

	if kind == kindVideo && u.Video != nil {
		if u.Video.YouTubeURI != nil {
			item.VideoItem.Video = &forms.Video{YoutubeUri: *u.Video.YouTubeURI}
			mask = append(mask, "videoItem.video.youtubeUri")
		}
		if u.Video.Caption != nil {
			item.VideoItem.Caption = *u.Video.Caption
			mask = append(mask, "videoItem.caption")
		}
	}

	return item, mask, nil
}
