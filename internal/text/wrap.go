package text

import (
	"strings"

	"github.com/youruser/newscard/internal/fonts"
)

var breakReplacer = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// CollapseBreaks turns manual line breaks into spaces so that only the pixel
// budget decides where lines end.
func CollapseBreaks(s string) string {
	return breakReplacer.Replace(s)
}

// Wrap greedily packs whole words into lines no wider than maxWidth pixels.
// A word that is wider than maxWidth on its own is emitted alone on its line.
func Wrap(m Sizer, s string, role fonts.Role, maxWidth int) []string {
	var lines []string
	current := ""
	for _, word := range strings.Fields(CollapseBreaks(s)) {
		candidate := word
		if current != "" {
			candidate = current + " " + word
		}
		if m.Measure(candidate, role).Width <= maxWidth {
			current = candidate
			continue
		}
		if current != "" {
			lines = append(lines, current)
		}
		current = word
	}
	if current != "" {
		lines = append(lines, current)
	}
	return lines
}
