package forms

import (
	"testing"
)

func boolPtr(b bool) *bool { return &b }

func TestBuildQuestionRequestsPlacement(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeText, Title: "Name"},
		{Type: TypePageBreak},
	}, 3)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got %d", len(requests))
	}
	if got := requests[0].CreateItem.Location.Index; got != 3 {
		t.Errorf("first index = %d, want 3", got)
	}
	if got := requests[1].CreateItem.Location.Index; got != 4 {
		t.Errorf("second index = %d, want 4", got)
	}
}

func TestBuildTextQuestion(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeText, Title: "Comments", Required: true, Paragraph: true},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	item := requests[0].CreateItem.Item
	if item.Title != "Comments" {
		t.Errorf("title = %q", item.Title)
	}
	q := item.QuestionItem.Question
	if !q.Required {
		t.Error("expected required")
	}
	if q.TextQuestion == nil || !q.TextQuestion.Paragraph {
		t.Errorf("unexpected text question: %+v", q.TextQuestion)
	}
}

func TestBuildChoiceQuestions(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{
			Type:    TypeMultipleChoice,
			Title:   "Color",
			Options: []ChoiceOption{{Value: "Red"}, {Value: "Other", IsOther: true}},
			Shuffle: true,
		},
		{
			Type:    TypeCheckbox,
			Title:   "Toppings",
			Options: []ChoiceOption{{Value: "Cheese"}},
		},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	choice := requests[0].CreateItem.Item.QuestionItem.Question.ChoiceQuestion
	if choice.Type != "RADIO" {
		t.Errorf("default choice type = %q, want RADIO", choice.Type)
	}
	if !choice.Shuffle || len(choice.Options) != 2 {
		t.Errorf("unexpected choice question: %+v", choice)
	}
	if !choice.Options[1].IsOther {
		t.Error("expected is_other on second option")
	}

	checkbox := requests[1].CreateItem.Item.QuestionItem.Question.ChoiceQuestion
	if checkbox.Type != "CHECKBOX" {
		t.Errorf("checkbox type = %q", checkbox.Type)
	}
}

func TestBuildScaleQuestion(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeScale, Title: "Satisfaction", ScaleMin: 1, ScaleMax: 5, ScaleMinLabel: "Poor", ScaleMaxLabel: "Great"},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	scale := requests[0].CreateItem.Item.QuestionItem.Question.ScaleQuestion
	if scale.Low != 1 || scale.High != 5 {
		t.Errorf("bounds = %d..%d", scale.Low, scale.High)
	}
	if scale.LowLabel != "Poor" || scale.HighLabel != "Great" {
		t.Errorf("labels = %q, %q", scale.LowLabel, scale.HighLabel)
	}
}

func TestBuildDateQuestionDefaults(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeDate, Title: "When"},
		{Type: TypeDate, Title: "Birthday", IncludeYear: boolPtr(false), IncludeTime: true},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	first := requests[0].CreateItem.Item.QuestionItem.Question.DateQuestion
	if !first.IncludeYear || first.IncludeTime {
		t.Errorf("defaults: %+v", first)
	}

	second := requests[1].CreateItem.Item.QuestionItem.Question.DateQuestion
	if second.IncludeYear || !second.IncludeTime {
		t.Errorf("overrides: %+v", second)
	}
}

func TestBuildRatingQuestion(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeRating, Title: "Rate us", RatingScaleLevel: 5},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	rating := requests[0].CreateItem.Item.QuestionItem.Question.RatingQuestion
	if rating.RatingScaleLevel != 5 || rating.IconType != "STAR" {
		t.Errorf("unexpected rating question: %+v", rating)
	}
}

func TestBuildMediaItems(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{Type: TypeImageItem, Image: &MediaSpec{SourceURI: "https://example.com/pic.png", AltText: "pic", Alignment: "CENTER", Width: 320}},
		{Type: TypeVideoItem, Video: &VideoSpec{YouTubeURI: "https://youtube.com/watch?v=x"}, Caption: "intro"},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	img := requests[0].CreateItem.Item.ImageItem.Image
	if img.SourceUri != "https://example.com/pic.png" {
		t.Errorf("image source = %q", img.SourceUri)
	}
	if img.Properties == nil || img.Properties.Width != 320 || img.Properties.Alignment != "CENTER" {
		t.Errorf("image properties = %+v", img.Properties)
	}

	video := requests[1].CreateItem.Item.VideoItem
	if video.Video.YoutubeUri != "https://youtube.com/watch?v=x" || video.Caption != "intro" {
		t.Errorf("unexpected video item: %+v", video)
	}
	if video.Video.Properties != nil {
		t.Errorf("expected no properties, got %+v", video.Video.Properties)
	}
}

func TestBuildQuestionGroupItem(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{
			Type:     TypeQuestionGroup,
			Title:    "Rate the sessions",
			Required: true,
			Rows:     []RowQuestion{{Title: "Keynote"}, {Title: "Workshop"}},
			Grid: &GridSpec{
				Options:          []string{"Poor", "Good", "Great"},
				ShuffleQuestions: true,
			},
		},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	group := requests[0].CreateItem.Item.QuestionGroupItem
	if group == nil {
		t.Fatal("expected a question group item")
	}
	if len(group.Questions) != 2 {
		t.Fatalf("expected 2 row questions, got %d", len(group.Questions))
	}
	if group.Questions[0].RowQuestion == nil || group.Questions[0].RowQuestion.Title != "Keynote" {
		t.Errorf("unexpected first row: %+v", group.Questions[0])
	}
	if !group.Questions[0].Required {
		t.Error("expected required rows")
	}
	if group.Grid == nil || group.Grid.Columns == nil {
		t.Fatalf("unexpected grid: %+v", group.Grid)
	}
	if group.Grid.Columns.Type != "RADIO" {
		t.Errorf("columns type = %q, want RADIO default", group.Grid.Columns.Type)
	}
	if len(group.Grid.Columns.Options) != 3 || group.Grid.Columns.Options[0].Value != "Poor" {
		t.Errorf("unexpected columns: %+v", group.Grid.Columns.Options)
	}
	if !group.Grid.ShuffleQuestions {
		t.Error("expected shuffled rows")
	}
}

func TestBuildGradedQuestion(t *testing.T) {
	requests, err := BuildQuestionRequests([]QuestionSpec{
		{
			Type:    TypeMultipleChoice,
			Title:   "Capital of France",
			Options: []ChoiceOption{{Value: "Paris"}, {Value: "Lyon"}},
			Grading: &GradingSpec{
				PointValue:     2,
				CorrectAnswers: []string{"Paris"},
				WhenRight:      &FeedbackSpec{Text: "Correct"},
				WhenWrong:      &FeedbackSpec{Text: "Try again", Link: "https://example.com/hint"},
			},
		},
	}, 0)
	if err != nil {
		t.Fatalf("BuildQuestionRequests() error = %v", err)
	}

	grading := requests[0].CreateItem.Item.QuestionItem.Question.Grading
	if grading == nil {
		t.Fatal("expected grading")
	}
	if grading.PointValue != 2 {
		t.Errorf("point value = %d", grading.PointValue)
	}
	if grading.CorrectAnswers == nil || len(grading.CorrectAnswers.Answers) != 1 ||
		grading.CorrectAnswers.Answers[0].Value != "Paris" {
		t.Errorf("unexpected correct answers: %+v", grading.CorrectAnswers)
	}
	if grading.WhenRight == nil || grading.WhenRight.Text != "Correct" {
		t.Errorf("unexpected whenRight: %+v", grading.WhenRight)
	}
	if grading.WhenWrong == nil || len(grading.WhenWrong.Material) != 1 ||
		grading.WhenWrong.Material[0].Link.Uri != "https://example.com/hint" {
		t.Errorf("unexpected whenWrong: %+v", grading.WhenWrong)
	}
}

func TestBuildQuestionRequestsErrors(t *testing.T) {
	tests := []struct {
		name string
		spec QuestionSpec
	}{
		{"unknown type", QuestionSpec{Type: "FILE_UPLOAD_QUESTION"}},
		{"choice without options", QuestionSpec{Type: TypeMultipleChoice, Title: "x"}},
		{"checkbox without options", QuestionSpec{Type: TypeCheckbox, Title: "x"}},
		{"scale inverted bounds", QuestionSpec{Type: TypeScale, ScaleMin: 5, ScaleMax: 1}},
		{"rating level too low", QuestionSpec{Type: TypeRating, RatingScaleLevel: 2}},
		{"rating bad icon", QuestionSpec{Type: TypeRating, RatingScaleLevel: 5, IconType: "FIRE"}},
		{"image without source", QuestionSpec{Type: TypeImageItem, Image: &MediaSpec{}}},
		{"video without uri", QuestionSpec{Type: TypeVideoItem, Video: &VideoSpec{}}},
		{"group without rows", QuestionSpec{Type: TypeQuestionGroup, Grid: &GridSpec{Options: []string{"A"}}}},
		{"group without columns", QuestionSpec{Type: TypeQuestionGroup, Rows: []RowQuestion{{Title: "r"}}}},
		{"grading on non-question item", QuestionSpec{Type: TypePageBreak, Grading: &GradingSpec{PointValue: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := BuildQuestionRequests([]QuestionSpec{tt.spec}, 0); err == nil {
				t.Error("expected error")
			}
		})
	}
}
