package domain

// ContentInput is a validated create request for one content type.
type ContentInput interface {
	ContentType() ContentType
	// InputText is the free text stored on the record.
	InputText() string
	// Parameters is the option map stored as input_parameters, defaults applied.
	Parameters() map[string]any
}

const (
	defaultTone      = "professional"
	defaultWordCount = 500
	defaultFormat    = "bullets"
)

type ArticleInput struct {
	Topic     string `json:"topic" validate:"required,min=10,max=500"`
	Tone      string `json:"tone" validate:"omitempty,oneof=professional casual academic creative persuasive"`
	WordCount *int   `json:"word_count" validate:"omitempty,min=100,max=2000"`
}

func (ArticleInput) ContentType() ContentType { return ContentTypeArticle }
func (in ArticleInput) InputText() string     { return in.Topic }

func (in ArticleInput) Parameters() map[string]any {
	words := defaultWordCount
	if in.WordCount != nil {
		words = *in.WordCount
	}
	return map[string]any{
		"tone":       orDefault(in.Tone, defaultTone),
		"word_count": words,
	}
}

type RewriteInput struct {
	Text string `json:"text" validate:"required,min=20,max=5000"`
	Tone string `json:"tone" validate:"omitempty,oneof=professional casual academic creative persuasive"`
}

func (RewriteInput) ContentType() ContentType { return ContentTypeRewrite }
func (in RewriteInput) InputText() string     { return in.Text }

func (in RewriteInput) Parameters() map[string]any {
	return map[string]any{"tone": orDefault(in.Tone, defaultTone)}
}

type SummaryInput struct {
	Text   string `json:"text" validate:"required,min=100,max=10000"`
	Format string `json:"format" validate:"omitempty,oneof=bullets paragraph executive"`
}

func (SummaryInput) ContentType() ContentType { return ContentTypeSummary }
func (in SummaryInput) InputText() string     { return in.Text }

func (in SummaryInput) Parameters() map[string]any {
	return map[string]any{"format": orDefault(in.Format, defaultFormat)}
}

type EmailInput struct {
	Purpose        string `json:"purpose" validate:"required,min=10,max=1000"`
	Tone           string `json:"tone" validate:"omitempty,oneof=professional casual formal friendly"`
	RecipientName  string `json:"recipient_name" validate:"omitempty,max=100"`
	SenderName     string `json:"sender_name" validate:"omitempty,max=100"`
	AdditionalInfo string `json:"additional_info" validate:"omitempty,max=1000"`
}

func (EmailInput) ContentType() ContentType { return ContentTypeEmail }
func (in EmailInput) InputText() string     { return in.Purpose }

func (in EmailInput) Parameters() map[string]any {
	return map[string]any{
		"tone":            orDefault(in.Tone, defaultTone),
		"recipient_name":  nullable(in.RecipientName),
		"sender_name":     nullable(in.SenderName),
		"additional_info": nullable(in.AdditionalInfo),
	}
}

type TranslationInput struct {
	Text           string `json:"text" validate:"required,min=5,max=5000"`
	TargetLanguage string `json:"target_language" validate:"required,language"`
	SourceLanguage string `json:"source_language" validate:"omitempty,source_language"`
}

func (TranslationInput) ContentType() ContentType { return ContentTypeTranslation }
func (in TranslationInput) InputText() string     { return in.Text }

func (in TranslationInput) Parameters() map[string]any {
	return map[string]any{
		"source_language": orDefault(in.SourceLanguage, AutoDetectLanguage),
		"target_language": in.TargetLanguage,
	}
}

// NewContentInput returns an empty request value for t, ready for JSON decoding.
func NewContentInput(t ContentType) (ContentInput, bool) {
	switch t {
	case ContentTypeArticle:
		return &ArticleInput{}, true
	case ContentTypeRewrite:
		return &RewriteInput{}, true
	case ContentTypeSummary:
		return &SummaryInput{}, true
	case ContentTypeEmail:
		return &EmailInput{}, true
	case ContentTypeTranslation:
		return &TranslationInput{}, true
	}
	return nil, false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func nullable(v string) any {
	if v == "" {
		return nil
	}
	return v
}
