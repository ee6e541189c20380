package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		expected string
	}{
		{"empty", "", ""},
		{"plain", "Worked with Jane for four years.", "Worked with Jane for four years."},
		{"emphasis", "She is **very** dependable and *calm*.", "She is very dependable and calm."},
		{"soft break", "first line\nsecond line", "first line second line"},
		{"paragraphs", "One.\n\nTwo.", "One.\nTwo."},
		{"bullets", "- alpha\n- beta", "- alpha\n- beta"},
		{"ordered", "1. alpha\n2. beta", "1. alpha\n2. beta"},
		{"heading", "# Summary\n\nText", "Summary\nText"},
		{"link", "See [the notes](https://example.com).", "See the notes."},
		{"code span", "Uses `kubectl` daily.", "Uses kubectl daily."},
		{"frontmatter", "---\nkey: value\n---\nBody text.", "Body text."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PlainText(tt.markdown))
		})
	}
}
