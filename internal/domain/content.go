package domain

import "fmt"

// ContentType is the kind of text a generation request produces.
type ContentType string

const (
	ContentTypeArticle     ContentType = "article"
	ContentTypeRewrite     ContentType = "rewrite"
	ContentTypeSummary     ContentType = "summary"
	ContentTypeEmail       ContentType = "email"
	ContentTypeTranslation ContentType = "translation"
)

var contentTypes = []ContentType{
	ContentTypeArticle,
	ContentTypeRewrite,
	ContentTypeSummary,
	ContentTypeEmail,
	ContentTypeTranslation,
}

// AllContentTypes returns every content type in display order.
func AllContentTypes() []ContentType {
	out := make([]ContentType, len(contentTypes))
	copy(out, contentTypes)
	return out
}

// ParseContentType validates a raw type tag.
func ParseContentType(s string) (ContentType, error) {
	t := ContentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return t, nil
}

func (t ContentType) Valid() bool {
	switch t {
	case ContentTypeArticle, ContentTypeRewrite, ContentTypeSummary, ContentTypeEmail, ContentTypeTranslation:
		return true
	}
	return false
}

func (t ContentType) Label() string {
	switch t {
	case ContentTypeArticle:
		return "Article Generation"
	case ContentTypeRewrite:
		return "Text Rewriting"
	case ContentTypeSummary:
		return "Text Summary"
	case ContentTypeEmail:
		return "Email Generation"
	case ContentTypeTranslation:
		return "Translation"
	}
	return string(t)
}

// CreditCost is the fixed price charged when a request of this type is accepted.
func (t ContentType) CreditCost() int {
	switch t {
	case ContentTypeArticle:
		return 3
	case ContentTypeRewrite, ContentTypeEmail, ContentTypeTranslation:
		return 2
	case ContentTypeSummary:
		return 1
	}
	return 0
}

// Status is the lifecycle position of a generation record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus validates a raw status tag.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	switch st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return st, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

func (s Status) Label() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusProcessing:
		return "Processing"
	case StatusCompleted:
		return "Completed"
	case StatusFailed:
		return "Failed"
	}
	return string(s)
}

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// PriceEntry is one row of the public pricing table.
type PriceEntry struct {
	Type    ContentType `json:"type"`
	Label   string      `json:"label"`
	Credits int         `json:"credits"`
}

// Pricing returns the price table keyed by content type.
func Pricing() map[ContentType]PriceEntry {
	out := make(map[ContentType]PriceEntry, len(contentTypes))
	for _, t := range contentTypes {
		out[t] = PriceEntry{Type: t, Label: t.Label(), Credits: t.CreditCost()}
	}
	return out
}
