// Package format converts the raw text of a note field into the HTML sent to
// Anki. Math and code sub-regions are masked before any transformation and
// restored verbatim afterwards so the Markdown renderer never reinterprets
// their content.
package format

import (
	"fmt"
	"html"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/ankibridge/ankibridge/internal/vault"
	"github.com/ankibridge/ankibridge/pkg/markdown"
)

// Stylesheet referenced when a field contains a fenced code block.
const codeStylesheet = `<link href="https://cdn.jsdelivr.net/npm/highlightjs-themes@1.0.0/tomorrow.css" rel="stylesheet">`

var (
	// Math delimiters: $$...$$ and $...$ are normalized to \[...\] and \(...\)
	regexMathDisplayDollars = regexp.MustCompile(`(?s)\$\$(.*?)\$\$`)
	regexMathInlineDollars  = regexp.MustCompile(`\$([^\s$](?:[^$]*[^\s$])?)\$`)
	regexMath               = regexp.MustCompile(`(?s)\\\[.*?\\\]|\\\(.*?\\\)`)

	regexDisplayCode = regexp.MustCompile("(?s)```.*?```")
	regexInlineCode  = regexp.MustCompile("`[^`\n]+`")

	regexCloze     = regexp.MustCompile(`{(?:c?(\d+)[:|])?([^{}]*?)}`)
	regexHighlight = regexp.MustCompile(`==(.*?)==`)

	regexParagraph = regexp.MustCompile(`(?s)^<p>(.*)</p>$`)
)

var audioExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true, ".flac": true,
	".ogg": true, ".3gp": true, ".spx": true,
}

var imageExtensions = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".svg": true, ".tiff": true, ".webp": true,
}

// Formatter renders one field at a time. It must not be shared between
// concurrent scans: the mask lists and the cloze counter are per-instance
// state, reset at the start of every Format call.
type Formatter struct {
	meta      *vault.Metadata
	vaultName string

	// Placeholder tokens, unique per formatter, so that document text can
	// never collide with a mask.
	mathToken    string
	displayToken string
	inlineToken  string

	// Masked originals per channel, in emission order
	maths    []string
	displays []string
	inlines  []string

	clozeCounter int
}

// NewFormatter returns a formatter for one document. meta may be nil when the
// document has no embeds or links.
func NewFormatter(meta *vault.Metadata, vaultName string) *Formatter {
	return &Formatter{
		meta:         meta,
		vaultName:    vaultName,
		mathToken:    "ankibridge-math-" + uuid.NewString(),
		displayToken: "ankibridge-display-" + uuid.NewString(),
		inlineToken:  "ankibridge-inline-" + uuid.NewString(),
	}
}

// Format converts the raw text of a field into HTML. Cloze conversion is
// applied only when requested; highlightsToCloze additionally turns ==...==
// spans into curly-brace clozes before numbering.
func (f *Formatter) Format(raw string, cloze bool, highlightsToCloze bool) string {
	text := strings.TrimSpace(raw)
	f.clozeCounter = 0
	f.maths = nil
	f.displays = nil
	f.inlines = nil

	// 1. Normalize math delimiters
	text = regexMathDisplayDollars.ReplaceAllString(text, `\[$1\]`)
	text = regexMathInlineDollars.ReplaceAllString(text, `\($1\)`)

	// 2. Mask math and code
	text = f.mask(text)

	// 3. Cloze conversion
	if cloze {
		if highlightsToCloze {
			text = regexHighlight.ReplaceAllString(text, "{$1}")
		}
		text = f.convertCloze(text)
	}

	// 4. Embedded medias
	text = f.substituteEmbeds(text)

	// 5. Internal links
	text = f.substituteLinks(text)

	// 6. Remaining highlights
	text = regexHighlight.ReplaceAllString(text, "<mark>$1</mark>")

	// 7. Restore code, render, restore math
	text = f.unmaskCode(text)
	result := markdown.ToHTML(text)
	result = f.unmaskMath(result)

	// 8. Strip a single enclosing paragraph
	result = stripParagraph(result)

	// 9. Code blocks need the highlighting stylesheet
	if len(f.displays) > 0 {
		result = codeStylesheet + result
	}

	return result
}

func (f *Formatter) mask(text string) string {
	text = regexMath.ReplaceAllStringFunc(text, func(match string) string {
		f.maths = append(f.maths, match)
		return f.mathToken
	})
	text = regexDisplayCode.ReplaceAllStringFunc(text, func(match string) string {
		f.displays = append(f.displays, match)
		return f.displayToken
	})
	text = regexInlineCode.ReplaceAllStringFunc(text, func(match string) string {
		f.inlines = append(f.inlines, match)
		return f.inlineToken
	})
	return text
}

// unmaskCode restores code placeholders before rendering: the originals are
// still Markdown and must go through the renderer.
func (f *Formatter) unmaskCode(text string) string {
	for _, original := range f.displays {
		text = strings.Replace(text, f.displayToken, original, 1)
	}
	for _, original := range f.inlines {
		text = strings.Replace(text, f.inlineToken, original, 1)
	}
	return text
}

// unmaskMath restores math placeholders after rendering. The originals are
// reinserted into HTML, so they are escaped.
func (f *Formatter) unmaskMath(text string) string {
	for _, original := range f.maths {
		text = strings.Replace(text, f.mathToken, html.EscapeString(original), 1)
	}
	return text
}

func (f *Formatter) convertCloze(text string) string {
	return regexCloze.ReplaceAllStringFunc(text, func(match string) string {
		sub := regexCloze.FindStringSubmatch(match)
		number := sub[1]
		content := sub[2]
		if number != "" {
			// Explicit numbering is honored verbatim
			n, _ := strconv.Atoi(number)
			return fmt.Sprintf("{{c%d::%s}}", n, content)
		}
		f.clozeCounter++
		return fmt.Sprintf("{{c%d::%s}}", f.clozeCounter, content)
	})
}

func (f *Formatter) substituteEmbeds(text string) string {
	if f.meta == nil {
		return text
	}
	for _, embed := range f.meta.Embeds {
		if !strings.Contains(text, embed.Text) {
			continue
		}
		filename := path.Base(embed.Link)
		ext := strings.ToLower(path.Ext(filename))
		var replacement string
		switch {
		case audioExtensions[ext]:
			replacement = fmt.Sprintf("[sound:%s]", filename)
		case imageExtensions[ext]:
			replacement = fmt.Sprintf("<img src=%q>", filename)
		default:
			config.CurrentLogger().Warnf("Unsupported media %q", embed.Link)
			continue
		}
		text = strings.ReplaceAll(text, embed.Text, replacement)
	}
	return text
}

func (f *Formatter) substituteLinks(text string) string {
	if f.meta == nil {
		return text
	}
	for _, link := range f.meta.Links {
		if !strings.Contains(text, link.Text) {
			continue
		}
		replacement := fmt.Sprintf("<a href=%q>%s</a>",
			vault.DeepLink(f.vaultName, link.Link), link.Display)
		text = strings.ReplaceAll(text, link.Text, replacement)
	}
	return text
}

// ProtectedSpans returns the [start, end) offsets of every math and code
// region of a document, before any delimiter normalization. Scanners claim
// them up front so pattern matching never enters a protected region.
func ProtectedSpans(text string) [][2]int {
	var spans [][2]int
	for _, re := range []*regexp.Regexp{
		regexMathDisplayDollars,
		regexMathInlineDollars,
		regexMath,
		regexDisplayCode,
		regexInlineCode,
	} {
		for _, match := range re.FindAllStringIndex(text, -1) {
			spans = append(spans, [2]int{match[0], match[1]})
		}
	}
	return spans
}

// stripParagraph unwraps the result when it is exactly one paragraph.
func stripParagraph(result string) string {
	match := regexParagraph.FindStringSubmatch(result)
	if match == nil {
		return result
	}
	inner := match[1]
	if strings.Contains(inner, "<p>") || strings.Contains(inner, "</p>") {
		return result
	}
	return inner
}
