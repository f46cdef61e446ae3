// Package langdetect identifies the language of review text.
//
// Only Russian and English are supported. Detection is a script-ratio
// heuristic; anything ambiguous resolves to the Russian default, so Detect
// never fails.
package langdetect

import (
	"unicode"
)

const (
	LangRussian = "ru"
	LangEnglish = "en"

	// DefaultLanguage is returned for empty, ambiguous or mixed-script text.
	DefaultLanguage = LangRussian
)

const (
	cyrillicThreshold = 0.3 // If >30% Cyrillic, consider Russian
	latinThreshold    = 0.5 // If >50% Latin, consider English
)

// Detect returns "ru" or "en" for the text. It never fails: empty or
// ambiguous input returns the Russian default.
func Detect(text string) string {
	if text == "" {
		return DefaultLanguage
	}

	latinCount, cyrillicCount, totalLetters := countScriptChars(text)

	if totalLetters == 0 {
		return DefaultLanguage
	}

	cyrillicRatio := float64(cyrillicCount) / float64(totalLetters)
	latinRatio := float64(latinCount) / float64(totalLetters)

	if cyrillicRatio >= cyrillicThreshold {
		return LangRussian
	}

	if latinRatio >= latinThreshold {
		return LangEnglish
	}

	return DefaultLanguage
}

func countScriptChars(text string) (latinCount, cyrillicCount, totalLetters int) {
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}

		totalLetters++

		if isCyrillic(r) {
			cyrillicCount++
		} else if isLatin(r) {
			latinCount++
		}
	}

	return
}

func isCyrillic(r rune) bool {
	return (r >= 0x0400 && r <= 0x04FF) || // Cyrillic
		(r >= 0x0500 && r <= 0x052F) // Cyrillic Supplement
}

func isLatin(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= 0x00C0 && r <= 0x00FF) || // Latin-1 Supplement
		(r >= 0x0100 && r <= 0x017F) // Latin Extended-A
}
