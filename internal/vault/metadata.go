// Package vault exposes the document metadata consumed during a scan:
// the heading hierarchy, embedded medias, and internal links of one file.
package vault

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/ankibridge/ankibridge/pkg/markdown"
)

// Heading is one Markdown heading with its position in the document.
type Heading struct {
	Level int
	Title string
	Start int // byte offset of the heading line
}

// Embed is an embedded media reference (ex: "![[photo.png]]").
type Embed struct {
	Text    string // literal matched text
	Link    string // target filename
	Display string
}

// Link is an internal link (ex: "[[Some Note|displayed text]]").
type Link struct {
	Text    string // literal matched text
	Link    string // target note
	Display string
}

// Metadata groups everything known about a document besides its raw text.
// It is read-only during a scan.
type Metadata struct {
	Headings []Heading
	Embeds   []Embed
	Links    []Link
}

var (
	regexEmbed = regexp.MustCompile(`!\[\[([^\[\]|]+?)(?:\|([^\[\]]+?))?\]\]`)
	regexLink  = regexp.MustCompile(`\[\[([^\[\]|]+?)(?:\|([^\[\]]+?))?\]\]`)
)

// ParseMetadata builds the metadata of a document from its raw text.
func ParseMetadata(text string) *Metadata {
	m := &Metadata{}

	// Headings (ignore '#' inside code blocks)
	offset := 0
	insideCodeBlock := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "```") {
			insideCodeBlock = !insideCodeBlock
		}
		if !insideCodeBlock {
			if ok, title, level := markdown.IsHeading(line); ok {
				m.Headings = append(m.Headings, Heading{
					Level: level,
					Title: strings.TrimSpace(title),
					Start: offset,
				})
			}
		}
		offset += len(line) + 1
	}

	for _, match := range regexEmbed.FindAllStringSubmatch(text, -1) {
		m.Embeds = append(m.Embeds, Embed{
			Text:    match[0],
			Link:    match[1],
			Display: displayOrLink(match[2], match[1]),
		})
	}

	for _, match := range regexLink.FindAllStringSubmatchIndex(text, -1) {
		// Markdown embeds use the same syntax as links but precede them by !
		if match[0] > 0 && text[match[0]-1] == '!' {
			continue
		}
		link := text[match[2]:match[3]]
		display := link
		if match[4] >= 0 {
			display = text[match[4]:match[5]]
		}
		m.Links = append(m.Links, Link{
			Text:    text[match[0]:match[1]],
			Link:    link,
			Display: display,
		})
	}

	return m
}

func displayOrLink(display, link string) string {
	if display == "" {
		return link
	}
	return display
}

// ContextAt returns the breadcrumb of headings enclosing the given offset,
// joined by " > ". Headings are stacked so that nesting levels strictly
// increase: a new heading pops every heading of an equal or deeper level.
func (m *Metadata) ContextAt(offset int) string {
	var stack []Heading
	for _, h := range m.Headings {
		if h.Start > offset {
			break
		}
		for len(stack) > 0 && stack[len(stack)-1].Level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, h)
	}
	titles := make([]string, 0, len(stack))
	for _, h := range stack {
		titles = append(titles, h.Title)
	}
	return strings.Join(titles, " > ")
}

// DeepLink returns the URL used to reopen a note inside its vault.
func DeepLink(vault, file string) string {
	return fmt.Sprintf("obsidian://open?vault=%s&file=%s",
		url.QueryEscape(vault), url.QueryEscape(file))
}
