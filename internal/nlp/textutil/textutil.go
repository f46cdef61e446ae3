// Package textutil provides shared tokenization and sentence splitting for
// the analysis pipeline.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalize applies NFC normalization and trims surrounding whitespace.
// Reviews arrive from arbitrary sources and may mix composed and decomposed
// forms, which breaks keyword matching.
func Normalize(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// Tokens splits text into lower-cased word tokens. Splitting is done on any
// non-letter, non-digit rune so it works for both Cyrillic and Latin scripts
// (Go's regexp \b is ASCII-only).
func Tokens(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Sentences splits text into sentences on terminal punctuation, keeping the
// punctuation attached to its sentence.
func Sentences(text string) []string {
	var sentences []string

	var b strings.Builder

	flush := func() {
		s := strings.TrimSpace(b.String())
		if strings.ContainsFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) {
			sentences = append(sentences, s)
		}

		b.Reset()
	}

	for _, r := range text {
		b.WriteRune(r)

		switch r {
		case '.', '!', '?', '…':
			flush()
		}
	}

	flush()

	return sentences
}
