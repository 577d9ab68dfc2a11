package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Sentence boundaries cover Latin terminators plus the Arabic question
// mark and semicolon. A trailing fragment without a terminator is still a
// sentence.
var sentencePattern = regexp.MustCompile(`[^.!?\x{061F}\x{061B}]+[.!?\x{061F}\x{061B}]*`)

// sentenceSpan is a trimmed sentence together with its rune offsets in
// the source text.
type sentenceSpan struct {
	text  string
	start int
	end   int
}

// splitSentenceSpans breaks text into trimmed, non-empty sentences in
// order, keeping each one's position in the source so chunk offsets can
// point back into it.
func splitSentenceSpans(text string) []sentenceSpan {
	locs := sentencePattern.FindAllStringIndex(text, -1)
	spans := make([]sentenceSpan, 0, len(locs))

	runeAt := 0
	prevByte := 0
	for _, loc := range locs {
		matchStart := runeAt + utf8.RuneCountInString(text[prevByte:loc[0]])
		matched := text[loc[0]:loc[1]]
		runeAt = matchStart + utf8.RuneCountInString(matched)
		prevByte = loc[1]

		trimmed := strings.TrimSpace(matched)
		if trimmed == "" {
			continue
		}
		lead := utf8.RuneCountInString(matched) - utf8.RuneCountInString(strings.TrimLeftFunc(matched, unicode.IsSpace))
		start := matchStart + lead
		spans = append(spans, sentenceSpan{
			text:  trimmed,
			start: start,
			end:   start + utf8.RuneCountInString(trimmed),
		})
	}
	return spans
}

// SplitSentences breaks text into trimmed, non-empty sentences in order.
func SplitSentences(text string) []string {
	spans := splitSentenceSpans(text)
	sentences := make([]string, 0, len(spans))
	for _, sp := range spans {
		sentences = append(sentences, sp.text)
	}
	return sentences
}
