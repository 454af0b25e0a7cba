package domain

// AutoDetectLanguage lets the provider detect the source language itself.
const AutoDetectLanguage = "auto"

var languageCodes = []string{"en", "fr", "es", "de", "it", "pt", "nl", "ru", "zh", "ja", "ko", "ar"}

var languageNames = map[string]string{
	"en": "English",
	"fr": "French",
	"es": "Spanish",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"nl": "Dutch",
	"ru": "Russian",
	"zh": "Chinese",
	"ja": "Japanese",
	"ko": "Korean",
	"ar": "Arabic",
}

// SupportedLanguages returns the translation languages keyed by code.
func SupportedLanguages() map[string]string {
	out := make(map[string]string, len(languageNames))
	for code, name := range languageNames {
		out[code] = name
	}
	return out
}

// LanguageCodes returns the supported codes in display order.
func LanguageCodes() []string {
	out := make([]string, len(languageCodes))
	copy(out, languageCodes)
	return out
}

func IsSupportedLanguage(code string) bool {
	_, ok := languageNames[code]
	return ok
}

// LanguageName resolves a code to its English name, falling back to the code.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
