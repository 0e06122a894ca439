// Package i18n is a small localization table for bot-facing texts.
// Lookup falls back to English and finally to the key itself, so a
// missing translation never breaks a reply.
package i18n

import "fmt"

const DefaultLanguage = "en"

// Languages lists selectable interface languages, in menu order.
var Languages = []struct {
	Code string
	Name string
}{
	{"en", "English 🇬🇧"},
	{"pl", "Polski 🇵🇱"},
	{"ru", "Русский 🇷🇺"},
}

// Known reports whether code is a selectable language.
func Known(code string) bool {
	for _, l := range Languages {
		if l.Code == code {
			return true
		}
	}
	return false
}

var languageNames = map[string]string{
	"en": "English",
	"pl": "Polish",
	"ru": "Russian",
}

// LanguageName returns the English name of a language code, or the
// code itself for languages outside the interface set.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}

// Get returns the localized text for key, formatted with args.
func Get(lang, key string, args ...any) string {
	text, ok := tables[lang][key]
	if !ok {
		text, ok = tables[DefaultLanguage][key]
	}
	if !ok {
		text = key
	}
	if len(args) == 0 {
		return text
	}
	return fmt.Sprintf(text, args...)
}
