package validation

import (
	"strings"
	"testing"

	"github.com/GoArmGo/ContentGenius/internal/domain"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestContentInputs(t *testing.T) {
	v := New()

	cases := []struct {
		name   string
		input  any
		fields []string
	}{
		{"article ok", &domain.ArticleInput{Topic: "The History of Roman Aqueducts"}, nil},
		{"article short topic", &domain.ArticleInput{Topic: "Rome"}, []string{"topic"}},
		{"article bad tone and words", &domain.ArticleInput{Topic: "The History of Roman Aqueducts", Tone: "angry", WordCount: intPtr(50)}, []string{"tone", "word_count"}},
		{"article words upper bound", &domain.ArticleInput{Topic: "The History of Roman Aqueducts", WordCount: intPtr(2001)}, []string{"word_count"}},
		{"rewrite missing text", &domain.RewriteInput{}, []string{"text"}},
		{"summary too short", &domain.SummaryInput{Text: strings.Repeat("a", 99)}, []string{"text"}},
		{"summary ok", &domain.SummaryInput{Text: strings.Repeat("a", 100), Format: "executive"}, nil},
		{"summary bad format", &domain.SummaryInput{Text: strings.Repeat("a", 100), Format: "haiku"}, []string{"format"}},
		{"email persuasive tone rejected", &domain.EmailInput{Purpose: "Request a meeting", Tone: "persuasive"}, []string{"tone"}},
		{"email long recipient", &domain.EmailInput{Purpose: "Request a meeting", RecipientName: strings.Repeat("r", 101)}, []string{"recipient_name"}},
		{"translation ok", &domain.TranslationInput{Text: "Hello there", TargetLanguage: "fr", SourceLanguage: "auto"}, nil},
		{"translation unsupported target", &domain.TranslationInput{Text: "Hello there", TargetLanguage: "xx"}, []string{"target_language"}},
		{"translation auto target rejected", &domain.TranslationInput{Text: "Hello there", TargetLanguage: "auto"}, []string{"target_language"}},
		{"translation bad source", &domain.TranslationInput{Text: "Hello there", TargetLanguage: "fr", SourceLanguage: "xx"}, []string{"source_language"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := v.Struct(tc.input)
			if tc.fields == nil {
				require.Nil(t, errs)
				return
			}
			require.Len(t, errs, len(tc.fields))
			for _, f := range tc.fields {
				require.NotEmpty(t, errs[f], "expected error for %s, got %v", f, errs)
			}
		})
	}
}

func TestMessages(t *testing.T) {
	v := New()

	errs := v.Struct(&domain.ArticleInput{Topic: "Rome"})
	require.Equal(t, []string{"The topic must be at least 10 characters."}, errs["topic"])

	errs = v.Struct(&domain.TranslationInput{Text: "Hello there", TargetLanguage: "xx"})
	require.Equal(t, []string{"Invalid target language. Please check supported languages."}, errs["target_language"])

	errs = v.Struct(&domain.RewriteInput{})
	require.Equal(t, []string{"The text field is required."}, errs["text"])
}

func TestRuneLengths(t *testing.T) {
	v := New()
	// ten multibyte characters satisfy min=10
	errs := v.Struct(&domain.ArticleInput{Topic: strings.Repeat("é", 10)})
	require.Nil(t, errs)
}
