package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToHTML(t *testing.T) {
	assert.Equal(t, "<p>Hello <strong>World</strong></p>", ToHTML("Hello **World**"))
	assert.Equal(t, "<p><em>italic</em></p>", ToHTML("*italic*"))
}

func TestIsHeading(t *testing.T) {
	var tests = []struct {
		name  string
		line  string
		ok    bool
		title string
		level int
	}{
		{"Not a heading", "plain text", false, "", 0},
		{"H1", "# Title", true, "Title", 1},
		{"H3", "### Sub Sub", true, "Sub Sub", 3},
		{"Missing space", "#Title", false, "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, title, level := IsHeading(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.title, title)
			assert.Equal(t, tt.level, level)
		})
	}
}
