package format_test

import (
	"strings"
	"testing"

	"github.com/ankibridge/ankibridge/internal/format"
	"github.com/ankibridge/ankibridge/internal/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPlainText(t *testing.T) {
	f := format.NewFormatter(nil, "Main")

	t.Run("Round-trip without placeholders", func(t *testing.T) {
		result := f.Format("What is the capital of France?", false, false)
		assert.Equal(t, "What is the capital of France?", result)
		assert.NotContains(t, result, "ankibridge-")
	})

	t.Run("Markdown emphasis is rendered", func(t *testing.T) {
		result := f.Format("a **bold** statement", false, false)
		assert.Equal(t, "a <strong>bold</strong> statement", result)
	})

	t.Run("Multiple paragraphs keep their wrapper", func(t *testing.T) {
		result := f.Format("first\n\nsecond", false, false)
		assert.Contains(t, result, "<p>first</p>")
		assert.Contains(t, result, "<p>second</p>")
	})
}

func TestFormatCloze(t *testing.T) {
	f := format.NewFormatter(nil, "Main")

	t.Run("Auto numbering", func(t *testing.T) {
		result := f.Format("{hello} and {world}", true, false)
		assert.Equal(t, "{{c1::hello}} and {{c2::world}}", result)
	})

	t.Run("Numbering resets between calls", func(t *testing.T) {
		f.Format("{one} {two} {three}", true, false)
		result := f.Format("{fresh}", true, false)
		assert.Equal(t, "{{c1::fresh}}", result)
	})

	t.Run("Explicit numbers are honored", func(t *testing.T) {
		result := f.Format("{c2:second} and {1:first}", true, false)
		assert.Equal(t, "{{c2::second}} and {{c1::first}}", result)
	})

	t.Run("Highlights to cloze", func(t *testing.T) {
		result := f.Format("==hidden== stays visible", true, true)
		assert.Equal(t, "{{c1::hidden}} stays visible", result)
	})

	t.Run("Disabled cloze leaves braces alone", func(t *testing.T) {
		result := f.Format("{not a cloze}", false, false)
		assert.Equal(t, "{not a cloze}", result)
	})
}

func TestFormatMath(t *testing.T) {
	f := format.NewFormatter(nil, "Main")

	t.Run("Dollar delimiters are normalized and escaped", func(t *testing.T) {
		result := f.Format("prove $x<y$ holds", false, false)
		assert.Equal(t, `prove \(x&lt;y\) holds`, result)
	})

	t.Run("Display math", func(t *testing.T) {
		result := f.Format("$$a & b$$", false, false)
		assert.Equal(t, `\[a &amp; b\]`, result)
	})

	t.Run("Math content is not rendered as Markdown", func(t *testing.T) {
		result := f.Format(`compute \(a*b*c\)`, false, false)
		assert.Contains(t, result, `\(a*b*c\)`)
		assert.NotContains(t, result, "<em>")
	})

	t.Run("Cloze conversion ignores braces inside math", func(t *testing.T) {
		result := f.Format(`\(\frac{a}{b}\) and {hidden}`, true, false)
		assert.Contains(t, result, `{a}`)
		assert.Contains(t, result, "{{c1::hidden}}")
	})
}

func TestFormatCode(t *testing.T) {
	f := format.NewFormatter(nil, "Main")

	t.Run("Inline code is preserved", func(t *testing.T) {
		result := f.Format("use `i--` here", false, false)
		assert.Contains(t, result, "<code>i--</code>")
		assert.NotContains(t, result, "ankibridge-")
	})

	t.Run("Display code adds the stylesheet", func(t *testing.T) {
		result := f.Format("```go\nfmt.Println(42)\n```", false, false)
		assert.True(t, strings.HasPrefix(result, "<link href="))
		assert.Contains(t, result, "fmt.Println(42)")
	})

	t.Run("No stylesheet without display code", func(t *testing.T) {
		result := f.Format("plain `code` only", false, false)
		assert.False(t, strings.HasPrefix(result, "<link"))
	})

	t.Run("Cloze conversion ignores braces inside code", func(t *testing.T) {
		result := f.Format("`map[string]int{}` and {hidden}", true, false)
		assert.Contains(t, result, "map[string]int{}")
		assert.Contains(t, result, "{{c1::hidden}}")
	})
}

func TestFormatMedias(t *testing.T) {
	meta := vault.ParseMetadata("![[music.mp3]] ![[photo.png]] ![[notes.pdf]]")
	f := format.NewFormatter(meta, "Main")

	t.Run("Audio", func(t *testing.T) {
		result := f.Format("listen to ![[music.mp3]]", false, false)
		assert.Contains(t, result, "[sound:music.mp3]")
	})

	t.Run("Image", func(t *testing.T) {
		result := f.Format("see ![[photo.png]]", false, false)
		assert.Contains(t, result, `<img src="photo.png">`)
	})

	t.Run("Unsupported extension left untouched", func(t *testing.T) {
		result := f.Format("read ![[notes.pdf]]", false, false)
		assert.Contains(t, result, "![[notes.pdf]]")
	})
}

func TestFormatLinks(t *testing.T) {
	meta := vault.ParseMetadata("[[Other Note|details]]")
	f := format.NewFormatter(meta, "My Vault")

	result := f.Format("see [[Other Note|details]]", false, false)
	require.Contains(t, result, `obsidian://open?vault=My+Vault`)
	require.Contains(t, result, `file=Other+Note`)
	require.Contains(t, result, `>details</a>`)
}

func TestFormatHighlights(t *testing.T) {
	f := format.NewFormatter(nil, "Main")
	result := f.Format("an ==important== point", false, false)
	assert.Equal(t, "an <mark>important</mark> point", result)
}
