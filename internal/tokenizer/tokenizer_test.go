package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Hello World", "hello world"},
		{"strips punctuation", "hello, world!", "hello world"},
		{"keeps hyphens", "claude-plugins-official", "claude-plugins-official"},
		{"keeps digits", "version 2 of 3", "version 2 of 3"},
		{"collapses whitespace", "a\t\tb\n\nc   d", "a b c d"},
		{"trims edges", "  padded  ", "padded"},
		{"markdown noise", "# Title\n\n* item `code`", "title item code"},
		{"empty", "", ""},
		{"punctuation only", "!!! ### ???", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestShingleWordNGrams(t *testing.T) {
	tok := New(3)
	shingles := tok.Shingle("the quick brown fox jumps")

	// 5 words yield 3 overlapping trigrams.
	require.Len(t, shingles, 3)
	assert.Contains(t, shingles, "the quick brown")
	assert.Contains(t, shingles, "quick brown fox")
	assert.Contains(t, shingles, "brown fox jumps")
}

func TestShingleFallbackToWords(t *testing.T) {
	tok := New(3)
	shingles := tok.Shingle("hello world")

	require.Len(t, shingles, 2)
	assert.Contains(t, shingles, "hello")
	assert.Contains(t, shingles, "world")
}

func TestShingleEmptyInput(t *testing.T) {
	tok := New(3)

	assert.Empty(t, tok.Shingle(""))
	assert.Empty(t, tok.Shingle("   \n\t  "))
	assert.Empty(t, tok.Shingle("!!! ???"))
}

func TestShingleNormalizesBeforeShingling(t *testing.T) {
	tok := New(3)

	a := tok.Shingle("The Quick, Brown Fox!")
	b := tok.Shingle("the   quick brown\nfox")
	assert.Equal(t, a, b)
}

func TestShingleDeduplicates(t *testing.T) {
	tok := New(3)
	shingles := tok.Shingle("a b c a b c a b c")

	// Repeated trigrams collapse into the set.
	assert.Len(t, shingles, 3)
}

func TestNewClampsShingleSize(t *testing.T) {
	tok := New(0)
	shingles := tok.Shingle("one two three four")
	assert.Contains(t, shingles, "one two three")
}
