package model

// LanguageEnglish is the language moderation runs against and the
// source language for generated welcome prompts.
const LanguageEnglish = "en"

// SupportedLanguages is the fixed, ordered set of languages every
// prompt is translated into. Localized bundles follow this order.
var SupportedLanguages = []string{"en", "cy", "es", "ta", "zh-Hans", "ar"}

// IsSupportedLanguage reports whether code is in the supported set.
func IsSupportedLanguage(code string) bool {
	for _, l := range SupportedLanguages {
		if l == code {
			return true
		}
	}
	return false
}
