package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentences(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "two sentences with different terminators",
			text:     "Отличный продукт! Быстрая доставка.",
			expected: []string{"Отличный продукт!", "Быстрая доставка."},
		},
		{
			name:     "trailing text without terminator",
			text:     "Good quality. Would buy again",
			expected: []string{"Good quality.", "Would buy again"},
		},
		{
			name:     "repeated punctuation",
			text:     "Ужасно!!! Никому не советую...",
			expected: []string{"Ужасно!", "Никому не советую."},
		},
		{
			name:     "empty input",
			text:     "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Sentences(tt.text))
		})
	}
}

func TestTokens(t *testing.T) {
	assert.Equal(t,
		[]string{"отличный", "продукт", "быстрая", "доставка"},
		Tokens("Отличный продукт! Быстрая доставка."),
	)
	assert.Equal(t,
		[]string{"price", "is", "100", "dollars"},
		Tokens("Price is 100 dollars."),
	)
	assert.Empty(t, Tokens("!!! ..."))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "Отличный продукт", Normalize("  Отличный продукт \n"))
	// Decomposed е + combining diaeresis becomes composed ё.
	assert.Equal(t, "ёлка", Normalize("ёлка"))
}
