package forms

import (
	"fmt"

	forms "google.golang.org/api/forms/v1"
)

// validRatingIcons are the icon types the Forms API accepts for rating
// questions.
var validRatingIcons = map[string]bool{
	"STAR":     true,
	"HEART":    true,
	"THUMB_UP": true,
}

// gradableTypes are the question types that accept quiz grading.
var gradableTypes = map[string]bool{
	TypeText:           true,
	TypeMultipleChoice: true,
	TypeCheckbox:       true,
	TypeScale:          true,
	TypeDate:           true,
	TypeTime:           true,
	TypeRating:         true,
}

// BuildQuestionRequests compiles question specs into createItem requests
// placed consecutively starting at startIndex.
func BuildQuestionRequests(questions []QuestionSpec, startIndex int64) ([]*forms.Request, error) {
	var requests []*forms.Request
	for i, q := range questions {
		item, err := buildItem(q)
		if err != nil {
			return nil, fmt.Errorf("question %d (%q): %w", i, q.Title, err)
		}
		if q.Grading != nil {
			if !gradableTypes[q.Type] {
				return nil, fmt.Errorf("question %d (%q): type %s does not support grading", i, q.Title, q.Type)
			}
			item.QuestionItem.Question.Grading = buildGrading(q.Grading)
		}
		requests = append(requests, &forms.Request{
			CreateItem: &forms.CreateItemRequest{
				Item: item,
				Location: &forms.Location{
					Index:           startIndex + int64(i),
					ForceSendFields: []string{"Index"},
				},
			},
		})
	}
	return requests, nil
}

func buildItem(q QuestionSpec) (*forms.Item, error) {
	switch q.Type {
	case TypeText:
		return questionItem(q, &forms.Question{
			Required: q.Required,
			TextQuestion: &forms.TextQuestion{
				Paragraph:       q.Paragraph,
				ForceSendFields: []string{"Paragraph"},
			},
		}), nil

	case TypeMultipleChoice:
		choiceType := q.ChoiceType
		if choiceType == "" {
			choiceType = "RADIO"
		}
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("choice question requires at least one option")
		}
		return questionItem(q, &forms.Question{
			Required: q.Required,
			ChoiceQuestion: &forms.ChoiceQuestion{
				Type:    choiceType,
				Options: buildChoiceOptions(q.Options),
				Shuffle: q.Shuffle,
			},
		}), nil

	case TypeCheckbox:
		if len(q.Options) == 0 {
			return nil, fmt.Errorf("checkbox question requires at least one option")
		}
		return questionItem(q, &forms.Question{
			Required: q.Required,
			ChoiceQuestion: &forms.ChoiceQuestion{
				Type:    "CHECKBOX",
				Options: buildChoiceOptions(q.Options),
				Shuffle: q.Shuffle,
			},
		}), nil

	case TypeScale:
		if q.ScaleMin < 0 || q.ScaleMax <= q.ScaleMin {
			return nil, fmt.Errorf("scale question requires 0 <= scale_min < scale_max (got %d, %d)", q.ScaleMin, q.ScaleMax)
		}
		return questionItem(q, &forms.Question{
			Required: q.Required,
			ScaleQuestion: &forms.ScaleQuestion{
				Low:             q.ScaleMin,
				High:            q.ScaleMax,
				LowLabel:        q.ScaleMinLabel,
				HighLabel:       q.ScaleMaxLabel,
				ForceSendFields: []string{"Low"},
			},
		}), nil

	case TypeDate:
		includeYear := true
		if q.IncludeYear != nil {
			includeYear = *q.IncludeYear
		}
		return questionItem(q, &forms.Question{
			Required: q.Required,
			DateQuestion: &forms.DateQuestion{
				IncludeTime:     q.IncludeTime,
				IncludeYear:     includeYear,
				ForceSendFields: []string{"IncludeTime", "IncludeYear"},
			},
		}), nil

	case TypeTime:
		return questionItem(q, &forms.Question{
			Required: q.Required,
			TimeQuestion: &forms.TimeQuestion{
				Duration:        q.Duration,
				ForceSendFields: []string{"Duration"},
			},
		}), nil

	case TypeRating:
		if q.RatingScaleLevel < 3 || q.RatingScaleLevel > 10 {
			return nil, fmt.Errorf("rating question requires rating_scale_level between 3 and 10 (got %d)", q.RatingScaleLevel)
		}
		iconType := q.IconType
		if iconType == "" {
			iconType = "STAR"
		}
		if !validRatingIcons[iconType] {
			return nil, fmt.Errorf("invalid rating icon_type %q (supported: STAR, HEART, THUMB_UP)", iconType)
		}
		return questionItem(q, &forms.Question{
			Required: q.Required,
			RatingQuestion: &forms.RatingQuestion{
				RatingScaleLevel: q.RatingScaleLevel,
				IconType:         iconType,
			},
		}), nil

	case TypeImageItem:
		if q.Image == nil || q.Image.SourceURI == "" {
			return nil, fmt.Errorf("image item requires image.source_uri")
		}
		return &forms.Item{
			Title:       q.Title,
			Description: q.Description,
			ImageItem: &forms.ImageItem{
				Image: &forms.Image{
					SourceUri:  q.Image.SourceURI,
					AltText:    q.Image.AltText,
					Properties: mediaProperties(q.Image.Alignment, q.Image.Width),
				},
			},
		}, nil

	case TypeVideoItem:
		if q.Video == nil || q.Video.YouTubeURI == "" {
			return nil, fmt.Errorf("video item requires video.youtube_uri")
		}
		return &forms.Item{
			Title:       q.Title,
			Description: q.Description,
			VideoItem: &forms.VideoItem{
				Video: &forms.Video{
					YoutubeUri: q.Video.YouTubeURI,
					Properties: mediaProperties(q.Video.Alignment, q.Video.Width),
				},
				Caption: q.Caption,
			},
		}, nil

	case TypePageBreak:
		return &forms.Item{
			Title:         q.Title,
			Description:   q.Description,
			PageBreakItem: &forms.PageBreakItem{},
		}, nil

	case TypeTextItem:
		return &forms.Item{
			Title:       q.Title,
			Description: q.Description,
			TextItem:    &forms.TextItem{},
		}, nil

	case TypeQuestionGroup:
		return buildQuestionGroupItem(q)

	default:
		return nil, fmt.Errorf("unsupported question type %q", q.Type)
	}
}

// buildQuestionGroupItem assembles a grid of row questions sharing one set
// of column choices.
func buildQuestionGroupItem(q QuestionSpec) (*forms.Item, error) {
	if len(q.Rows) == 0 {
		return nil, fmt.Errorf("question group requires at least one row")
	}
	if q.Grid == nil || len(q.Grid.Options) == 0 {
		return nil, fmt.Errorf("question group requires grid.options for its columns")
	}

	group := &forms.QuestionGroupItem{
		Grid: buildGrid(q.Grid),
	}
	for _, row := range q.Rows {
		group.Questions = append(group.Questions, &forms.Question{
			Required:    q.Required,
			RowQuestion: &forms.RowQuestion{Title: row.Title},
		})
	}
	if q.Image != nil && q.Image.SourceURI != "" {
		group.Image = &forms.Image{
			SourceUri:  q.Image.SourceURI,
			AltText:    q.Image.AltText,
			Properties: mediaProperties(q.Image.Alignment, q.Image.Width),
		}
	}

	return &forms.Item{
		Title:             q.Title,
		Description:       q.Description,
		QuestionGroupItem: group,
	}, nil
}

func buildGrid(g *GridSpec) *forms.Grid {
	choiceType := g.ChoiceType
	if choiceType == "" {
		choiceType = "RADIO"
	}
	return &forms.Grid{
		Columns: &forms.ChoiceQuestion{
			Type:    choiceType,
			Options: buildValueOptions(g.Options),
		},
		ShuffleQuestions: g.ShuffleQuestions,
	}
}

func buildValueOptions(values []string) []*forms.Option {
	built := make([]*forms.Option, 0, len(values))
	for _, v := range values {
		built = append(built, &forms.Option{Value: v})
	}
	return built
}

func buildGrading(g *GradingSpec) *forms.Grading {
	grading := &forms.Grading{
		PointValue:      g.PointValue,
		WhenRight:       buildFeedback(g.WhenRight),
		WhenWrong:       buildFeedback(g.WhenWrong),
		GeneralFeedback: buildFeedback(g.GeneralFeedback),
		ForceSendFields: []string{"PointValue"},
	}
	if len(g.CorrectAnswers) > 0 {
		answers := make([]*forms.CorrectAnswer, 0, len(g.CorrectAnswers))
		for _, v := range g.CorrectAnswers {
			answers = append(answers, &forms.CorrectAnswer{Value: v})
		}
		grading.CorrectAnswers = &forms.CorrectAnswers{Answers: answers}
	}
	return grading
}

func buildFeedback(f *FeedbackSpec) *forms.Feedback {
	if f == nil {
		return nil
	}
	fb := &forms.Feedback{Text: f.Text}
	if f.Link != "" {
		fb.Material = []*forms.ExtraMaterial{
			{Link: &forms.TextLink{Uri: f.Link, DisplayText: f.Link}},
		}
	}
	return fb
}

func questionItem(q QuestionSpec, question *forms.Question) *forms.Item {
	return &forms.Item{
		Title:        q.Title,
		Description:  q.Description,
		QuestionItem: &forms.QuestionItem{Question: question},
	}
}

func buildChoiceOptions(options []ChoiceOption) []*forms.Option {
	built := make([]*forms.Option, 0, len(options))
	for _, opt := range options {
		built = append(built, &forms.Option{
			Value:         opt.Value,
			IsOther:       opt.IsOther,
			GoToAction:    opt.GoToAction,
			GoToSectionId: opt.GoToSectionID,
		})
	}
	return built
}

func mediaProperties(alignment string, width int64) *forms.MediaProperties {
	if alignment == "" && width == 0 {
		return nil
	}
	return &forms.MediaProperties{
		Alignment: alignment,
		Width:     width,
	}
}
