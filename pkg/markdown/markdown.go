package markdown

import (
	"strings"

	"github.com/gomarkdown/markdown"
)

// ToHTML renders a Markdown snippet to HTML using the default settings.
func ToHTML(md string) string {
	html := markdown.ToHTML([]byte(md), nil, nil)
	return strings.TrimSpace(string(html))
}

// IsHeading returns if a given line is a Markdown heading and its level.
func IsHeading(line string) (bool, string, int) {
	if !strings.HasPrefix(line, "#") {
		return false, "", 0
	}
	for level := 6; level >= 1; level-- {
		prefix := strings.Repeat("#", level) + " "
		if strings.HasPrefix(line, prefix) {
			return true, strings.TrimPrefix(line, prefix), level
		}
	}
	return false, "", 0
}
