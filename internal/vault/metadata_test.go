package vault_test

import (
	"strings"
	"testing"

	"github.com/ankibridge/ankibridge/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetadata(t *testing.T) {

	t.Run("Headings", func(t *testing.T) {
		doc := "# Top\n\nsome text\n\n## Section\n\nmore text\n"
		m := vault.ParseMetadata(doc)
		require.Len(t, m.Headings, 2)
		assert.Equal(t, vault.Heading{Level: 1, Title: "Top", Start: 0}, m.Headings[0])
		assert.Equal(t, "Section", m.Headings[1].Title)
		assert.Equal(t, strings.Index(doc, "## Section"), m.Headings[1].Start)
	})

	t.Run("Headings inside code blocks are ignored", func(t *testing.T) {
		doc := "# Top\n\n```sh\n# not a heading\n```\n"
		m := vault.ParseMetadata(doc)
		require.Len(t, m.Headings, 1)
	})

	t.Run("Embeds", func(t *testing.T) {
		m := vault.ParseMetadata("Listen: ![[audio.mp3]] and look ![[photo.png|the photo]]")
		require.Len(t, m.Embeds, 2)
		assert.Equal(t, vault.Embed{Text: "![[audio.mp3]]", Link: "audio.mp3", Display: "audio.mp3"}, m.Embeds[0])
		assert.Equal(t, vault.Embed{Text: "![[photo.png|the photo]]", Link: "photo.png", Display: "the photo"}, m.Embeds[1])
	})

	t.Run("Links", func(t *testing.T) {
		m := vault.ParseMetadata("See [[Other Note]] and [[Target|shown]] but not ![[media.png]]")
		require.Len(t, m.Links, 2)
		assert.Equal(t, vault.Link{Text: "[[Other Note]]", Link: "Other Note", Display: "Other Note"}, m.Links[0])
		assert.Equal(t, vault.Link{Text: "[[Target|shown]]", Link: "Target", Display: "shown"}, m.Links[1])
		assert.Len(t, m.Embeds, 1)
	})
}

func TestContextAt(t *testing.T) {
	doc := "# Book\n\nintro\n\n## Chapter 1\n\ntext\n\n### Rule 1\n\ndetail\n\n## Chapter 2\n\nend\n"
	m := vault.ParseMetadata(doc)

	var tests = []struct {
		name     string
		anchor   string // offset = position of this substring
		expected string
	}{
		{"Inside nested section", "detail", "Book > Chapter 1 > Rule 1"},
		{"Sibling pops deeper levels", "end", "Book > Chapter 2"},
		{"Before any heading content", "intro", "Book"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset := strings.Index(doc, tt.anchor)
			require.GreaterOrEqual(t, offset, 0)
			assert.Equal(t, tt.expected, m.ContextAt(offset))
		})
	}
}

func TestDeepLink(t *testing.T) {
	assert.Equal(t,
		"obsidian://open?vault=My+Vault&file=notes%2Ftopic",
		vault.DeepLink("My Vault", "notes/topic"))
}
