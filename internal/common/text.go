package common

import (
	"strings"
)

// WrapText greedily wraps text into lines no wider than maxWidth, using measure to
// compute the rendered width of a candidate line. Explicit newlines start a new line
// and blank lines inside the text are kept as empty strings. Words wider than
// maxWidth are broken between runes.
func WrapText(text string, maxWidth float64, measure func(string) float64) []string {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return nil
	}

	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, "")
			continue
		}

		current := ""
		for _, word := range words {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if measure(candidate) <= maxWidth {
				current = candidate
				continue
			}

			if current != "" {
				lines = append(lines, current)
				current = ""
			}

			// Word alone does not fit: split it across as many lines as needed
			for measure(word) > maxWidth {
				head, tail := splitWordToWidth(word, maxWidth, measure)
				lines = append(lines, head)
				word = tail
			}
			current = word
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

// splitWordToWidth returns the longest rune prefix of word that fits maxWidth (at
// least one rune, so wrapping always makes progress) and the remainder.
func splitWordToWidth(word string, maxWidth float64, measure func(string) float64) (string, string) {
	runes := []rune(word)
	n := 1
	for n < len(runes) && measure(string(runes[:n+1])) <= maxWidth {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

// Truncate shortens text with a trailing ellipsis until it fits maxWidth
func Truncate(text string, maxWidth float64, measure func(string) float64) string {
	if measure(text) <= maxWidth {
		return text
	}
	runes := []rune(text)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := strings.TrimRight(string(runes), " ") + "..."
		if measure(candidate) <= maxWidth {
			return candidate
		}
	}
	return ""
}
