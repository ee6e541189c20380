package common

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

// runeWidth measures one unit per rune
func runeWidth(s string) float64 {
	return float64(utf8.RuneCountInString(s))
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    float64
		expected []string
	}{
		{"empty", "   ", 10, nil},
		{"fits", "hello world", 20, []string{"hello world"}},
		{"wraps on words", "the quick brown fox", 10, []string{"the quick", "brown fox"}},
		{"explicit newline", "one\ntwo", 20, []string{"one", "two"}},
		{"blank line kept", "one\n\ntwo", 20, []string{"one", "", "two"}},
		{"long word split", "abcdefghij", 4, []string{"abcd", "efgh", "ij"}},
		{"long word after text", "ab abcdefgh", 4, []string{"ab", "abcd", "efgh"}},
		{"crlf", "a\r\nb", 5, []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WrapText(tt.text, tt.width, runeWidth))
		})
	}
}

func TestWrapText_AlwaysProgresses(t *testing.T) {
	lines := WrapText("abc", 0.5, runeWidth)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10, runeWidth))
	assert.Equal(t, "a long...", Truncate("a long sentence", 9, runeWidth))
	assert.Equal(t, "", Truncate("abcdef", 2, runeWidth))
}
