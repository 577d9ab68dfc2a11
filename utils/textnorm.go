package utils

import (
	"regexp"
	"strings"
	"unicode"
)

// Character-set constraints mirror the charset the knowledge base accepts
// per language. Anything outside is stripped before chunking or embedding.
var (
	arabicKeep  = regexp.MustCompile(`[^\x{0600}-\x{06FF}\x{0750}-\x{077F}\x{08A0}-\x{08FF}\x{FB50}-\x{FDFF}\x{FE70}-\x{FEFF}\s\d\.\,\!\?\:\;\(\)]`)
	englishKeep = regexp.MustCompile(`[^a-zA-Z0-9\s\.\,\!\?\:\;\(\)]`)
	spaces      = regexp.MustCompile(`\s+`)
)

// CleanText strips characters outside the language's accepted set and
// collapses whitespace runs to single spaces.
func CleanText(text, language string) string {
	keep := englishKeep
	if language == "ar" {
		keep = arabicKeep
	}
	cleaned := keep.ReplaceAllString(text, " ")
	cleaned = spaces.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}

// DetectLanguage classifies text as "ar" or "en" by the share of Arabic
// script among its letters. Ambiguous or empty input defaults to "ar",
// matching the platform's primary audience.
func DetectLanguage(text string) string {
	var arabic, letters int
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.Is(unicode.Arabic, r) {
			arabic++
		}
	}
	if letters == 0 {
		return "ar"
	}
	if float64(arabic)/float64(letters) >= 0.3 {
		return "ar"
	}
	return "en"
}
