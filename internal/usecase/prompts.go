package usecase

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/GoArmGo/ContentGenius/internal/domain"
)

type promptBuilder func(text string, params map[string]any) domain.Prompt

var promptBuilders = map[domain.ContentType]promptBuilder{
	domain.ContentTypeArticle:     articlePrompt,
	domain.ContentTypeRewrite:     rewritePrompt,
	domain.ContentTypeSummary:     summaryPrompt,
	domain.ContentTypeEmail:       emailPrompt,
	domain.ContentTypeTranslation: translationPrompt,
}

// BuildPrompt maps a record's input to the provider messages for its type.
func BuildPrompt(g *domain.Generation) (domain.Prompt, error) {
	build, ok := promptBuilders[g.Type]
	if !ok {
		return domain.Prompt{}, fmt.Errorf("usecase: no prompt template for content type %q", g.Type)
	}
	return build(g.InputText, g.InputParameters), nil
}

func articlePrompt(topic string, params map[string]any) domain.Prompt {
	tone := stringParam(params, "tone", "professional")
	words := intParam(params, "word_count", 500)

	system := fmt.Sprintf(`You are an expert content writer. Your task is to write engaging, well-structured articles.

Guidelines:
- Tone: %s
- Target word count: approximately %d words
- Include a compelling introduction
- Use clear headings and subheadings (markdown format)
- Provide valuable, actionable information
- End with a strong conclusion
- Write in a natural, human-like style
- Ensure content is original and informative

Output the article in markdown format.`, tone, words)

	return domain.Prompt{System: system, User: "Write an article about: " + topic}
}

var rewriteTones = map[string]string{
	"professional": "formal, business-appropriate, clear and concise",
	"casual":       "friendly, conversational, approachable",
	"academic":     "scholarly, precise, well-researched",
	"creative":     "engaging, imaginative, expressive",
	"persuasive":   "compelling, convincing, action-oriented",
}

func rewritePrompt(text string, params map[string]any) domain.Prompt {
	desc, ok := rewriteTones[stringParam(params, "tone", "professional")]
	if !ok {
		desc = rewriteTones["professional"]
	}

	system := fmt.Sprintf(`You are an expert editor and rewriter. Your task is to rewrite the provided text while:

- Maintaining the original meaning and key information
- Adapting the tone to be: %s
- Improving clarity and readability
- Fixing any grammatical errors
- Enhancing the overall flow

Output only the rewritten text without any explanations or prefixes.`, desc)

	return domain.Prompt{System: system, User: text}
}

var summaryFormats = map[string]string{
	"bullets":   "Present the summary as a bullet point list with key takeaways.",
	"paragraph": "Write a concise paragraph summarizing the main points.",
	"executive": "Write an executive summary suitable for business stakeholders.",
}

func summaryPrompt(text string, params map[string]any) domain.Prompt {
	instr, ok := summaryFormats[stringParam(params, "format", "bullets")]
	if !ok {
		instr = summaryFormats["bullets"]
	}

	system := fmt.Sprintf(`You are an expert at summarizing complex information. Your task is to create clear, accurate summaries.

Guidelines:
- Extract the most important information
- %s
- Be concise but comprehensive
- Maintain accuracy to the source material
- Highlight key insights and conclusions

Output only the summary without any introductory phrases.`, instr)

	return domain.Prompt{System: system, User: text}
}

func emailPrompt(purpose string, params map[string]any) domain.Prompt {
	tone := stringParam(params, "tone", "professional")

	system := fmt.Sprintf(`You are an expert business communication specialist. Your task is to write professional emails.

Guidelines:
- Tone: %s
- Include appropriate greeting and closing
- Be clear and concise
- Structure content logically
- Use professional language
- Include a clear call-to-action when appropriate

Output the complete email including subject line (prefixed with "Subject: ").`, tone)

	var b strings.Builder
	b.WriteString("Write an email for the following purpose: ")
	b.WriteString(purpose)
	if v := stringParam(params, "recipient_name", ""); v != "" {
		b.WriteString("\nRecipient: " + v)
	}
	if v := stringParam(params, "sender_name", ""); v != "" {
		b.WriteString("\nSender: " + v)
	}
	if v := stringParam(params, "additional_info", ""); v != "" {
		b.WriteString("\nAdditional context: " + v)
	}

	return domain.Prompt{System: system, User: b.String()}
}

func translationPrompt(text string, params map[string]any) domain.Prompt {
	source := stringParam(params, "source_language", domain.AutoDetectLanguage)
	target := stringParam(params, "target_language", "")

	sourceInfo := "Auto-detect the source language"
	if source != domain.AutoDetectLanguage {
		sourceInfo = "Source language: " + domain.LanguageName(source)
	}

	system := fmt.Sprintf(`You are an expert translator with deep cultural knowledge. Your task is to translate text accurately.

Guidelines:
- %s
- Target language: %s
- Maintain the original meaning and tone
- Adapt cultural references appropriately
- Use natural expressions in the target language
- Preserve formatting when possible

Output only the translated text without any explanations.`, sourceInfo, domain.LanguageName(target))

	return domain.Prompt{System: system, User: text}
}

func stringParam(params map[string]any, key, def string) string {
	v, ok := params[key]
	if !ok || v == nil {
		return def
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return def
	}
	return s
}

// intParam accepts the numeric shapes a JSON round trip can produce.
func intParam(params map[string]any, key string, def int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
