package forms

// Question type identifiers accepted by AddQuestions.
const (
	TypeText           = "TEXT_QUESTION"
	TypeMultipleChoice = "MULTIPLE_CHOICE_QUESTION"
	TypeCheckbox       = "CHECKBOX_QUESTION"
	TypeScale          = "SCALE_QUESTION"
	TypeDate           = "DATE_QUESTION"
	TypeTime           = "TIME_QUESTION"
	TypeRating         = "RATING_QUESTION"
	TypeImageItem      = "IMAGE_ITEM"
	TypeVideoItem      = "VIDEO_ITEM"
	TypePageBreak      = "PAGE_BREAK_ITEM"
	TypeTextItem       = "TEXT_ITEM"
	TypeQuestionGroup  = "QUESTION_GROUP_ITEM"
)

// ChoiceOption is one option of a choice or checkbox question.
type ChoiceOption struct {
	Value         string `json:"value"`
	IsOther       bool   `json:"is_other,omitempty"`
	GoToAction    string `json:"go_to_action,omitempty"`
	GoToSectionID string `json:"go_to_section_id,omitempty"`
}

// MediaSpec describes an embedded image.
type MediaSpec struct {
	SourceURI string `json:"source_uri"`
	AltText   string `json:"alt_text,omitempty"`
	Alignment string `json:"alignment,omitempty"` // LEFT, RIGHT or CENTER
	Width     int64  `json:"width,omitempty"`
}

// VideoSpec describes an embedded YouTube video.
type VideoSpec struct {
	YouTubeURI string `json:"youtube_uri"`
	Alignment  string `json:"alignment,omitempty"`
	Width      int64  `json:"width,omitempty"`
}

// RowQuestion is one row of a question group grid.
type RowQuestion struct {
	Title string `json:"title"`
}

// GridSpec describes the column choices shared by every row of a question
// group.
type GridSpec struct {
	ChoiceType       string   `json:"choice_type,omitempty"` // RADIO or CHECKBOX
	Options          []string `json:"options"`
	ShuffleQuestions bool     `json:"shuffle_questions,omitempty"`
}

// FeedbackSpec is grading feedback shown to a respondent, optionally with a
// supporting link.
type FeedbackSpec struct {
	Text string `json:"text,omitempty"`
	Link string `json:"link,omitempty"`
}

// GradingSpec attaches quiz grading to a gradable question type.
type GradingSpec struct {
	PointValue      int64         `json:"point_value"`
	CorrectAnswers  []string      `json:"correct_answers,omitempty"`
	WhenRight       *FeedbackSpec `json:"when_right,omitempty"`
	WhenWrong       *FeedbackSpec `json:"when_wrong,omitempty"`
	GeneralFeedback *FeedbackSpec `json:"general_feedback,omitempty"`
}

// QuestionSpec is the simplified question shape taken by AddQuestions. Type
// selects the item kind; the remaining fields apply per kind.
type QuestionSpec struct {
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`

	// TEXT_QUESTION
	Paragraph bool `json:"paragraph,omitempty"`

	// MULTIPLE_CHOICE_QUESTION and CHECKBOX_QUESTION
	ChoiceType string         `json:"choice_type,omitempty"` // RADIO or DROP_DOWN
	Options    []ChoiceOption `json:"options,omitempty"`
	Shuffle    bool           `json:"shuffle,omitempty"`

	// SCALE_QUESTION
	ScaleMin      int64  `json:"scale_min,omitempty"`
	ScaleMax      int64  `json:"scale_max,omitempty"`
	ScaleMinLabel string `json:"scale_min_label,omitempty"`
	ScaleMaxLabel string `json:"scale_max_label,omitempty"`

	// DATE_QUESTION
	IncludeTime bool  `json:"include_time,omitempty"`
	IncludeYear *bool `json:"include_year,omitempty"` // defaults to true

	// TIME_QUESTION
	Duration bool `json:"duration,omitempty"`

	// RATING_QUESTION
	RatingScaleLevel int64  `json:"rating_scale_level,omitempty"`
	IconType         string `json:"icon_type,omitempty"` // STAR, HEART or THUMB_UP

	// IMAGE_ITEM and VIDEO_ITEM. Image also attaches to a question group.
	Image   *MediaSpec `json:"image,omitempty"`
	Video   *VideoSpec `json:"video,omitempty"`
	Caption string     `json:"caption,omitempty"`

	// QUESTION_GROUP_ITEM
	Rows []RowQuestion `json:"rows,omitempty"`
	Grid *GridSpec     `json:"grid,omitempty"`

	// Grading applies to gradable question types on quiz forms.
	Grading *GradingSpec `json:"grading,omitempty"`
}

// CreatedForm summarizes a freshly created form.
type CreatedForm struct {
	FormID       string `json:"formId"`
	Title        string `json:"title"`
	EditURL      string `json:"editUrl"`
	ResponderURL string `json:"responderUrl"`
}
