// Package tokenizer turns raw document text into sets of normalized
// shingles, the base unit of lexical comparison.
package tokenizer

import (
	"strings"
	"unicode"
)

// Tokenizer extracts n-gram shingles from normalized text.
type Tokenizer struct {
	shingleSize int
}

// New creates a Tokenizer with the given shingle size.
func New(shingleSize int) *Tokenizer {
	if shingleSize <= 0 {
		shingleSize = 3
	}
	return &Tokenizer{shingleSize: shingleSize}
}

// Shingle converts text to a set of shingles. Normalization: lowercase,
// strip every character except letters, digits, whitespace and hyphens,
// collapse whitespace runs. Hyphens are kept because they are significant
// in identifiers and config keys.
//
// Fallback chain for short inputs: word n-grams, then individual words,
// then character n-grams, then the whole normalized text. An empty result
// means the document carries no usable content and must not be signed.
func (t *Tokenizer) Shingle(text string) map[string]struct{} {
	normalized := Normalize(text)
	if normalized == "" {
		return map[string]struct{}{}
	}

	words := strings.Fields(normalized)
	shingles := make(map[string]struct{})

	switch {
	case len(words) >= t.shingleSize:
		for i := 0; i+t.shingleSize <= len(words); i++ {
			shingles[strings.Join(words[i:i+t.shingleSize], " ")] = struct{}{}
		}
	case len(words) > 0:
		for _, w := range words {
			shingles[w] = struct{}{}
		}
	default:
		runes := []rune(normalized)
		if len(runes) >= t.shingleSize {
			for i := 0; i+t.shingleSize <= len(runes); i++ {
				shingles[string(runes[i:i+t.shingleSize])] = struct{}{}
			}
		} else {
			shingles[normalized] = struct{}{}
		}
	}
	return shingles
}

// Normalize lowercases text, removes every character that is not a
// letter, digit, whitespace or hyphen, and collapses whitespace runs to
// single spaces.
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsSpace(r):
			space = true
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}
