package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// NormalizeQuestionText canonicalizes a question's text so that trivial
// edits (whitespace, punctuation, casing) collide to a single hash.
// Lowercases the text and keeps only ASCII alphanumerics, Hangul
// syllables and compatibility jamo; everything else is dropped.
func NormalizeQuestionText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z':
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= '가' && r <= '힣': // Hangul syllables
			b.WriteRune(r)
		case r >= 'ㄱ' && r <= 'ㅣ': // Hangul compatibility jamo
			b.WriteRune(r)
		}
	}
	return b.String()
}

// QuestionHash returns the lowercase hex SHA-256 of the normalized text.
// Identical up to whitespace, punctuation and casing means identical hash.
func QuestionHash(text string) string {
	sum := sha256.Sum256([]byte(NormalizeQuestionText(text)))
	return hex.EncodeToString(sum[:])
}
