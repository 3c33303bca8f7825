package engine

import "strings"

// Serbian Cyrillic letters absent from the Russian alphabet.
const serbianOnly = "ћђџљњЋЂЏЉЊ"

// Romanian diacritics (both comma-below and legacy cedilla forms).
const romanianMarks = "ăâîșțşţĂÂÎȘȚŞŢ"

// detectLanguage guesses the dominant script/language of the text.
// OCR language tags are unreliable, so this looks at the characters
// themselves; mixed bilingual entries resolve to the non-Latin script.
func detectLanguage(text string) string {
	hasGreek := false
	hasCyrillic := false
	for _, r := range text {
		switch {
		case r >= 0x0370 && r <= 0x03FF:
			hasGreek = true
		case r >= 0x0400 && r <= 0x04FF:
			hasCyrillic = true
		}
	}
	if hasGreek {
		return "el"
	}
	if hasCyrillic {
		if strings.ContainsAny(text, serbianOnly) {
			return "sr"
		}
		return "ru"
	}
	if strings.ContainsAny(text, romanianMarks) {
		return "ro"
	}
	return "en"
}

// resolveLanguage applies the caller's hint unless it is absent or "multi",
// in which case the text decides.
func resolveLanguage(hint, text string) string {
	hint = strings.ToLower(strings.TrimSpace(hint))
	if hint == "" || hint == "multi" {
		return detectLanguage(text)
	}
	return hint
}
