package note

import (
	"regexp"
	"strings"

	"github.com/ankibridge/ankibridge/pkg/text"
)

var regexCalloutMarker = regexp.MustCompile(`^>\s*\[!anki(?::([\w -]+))?\]\s*(.*)$`)

// DefaultCalloutType is the note type used when a callout has no subtype.
const DefaultCalloutType = "Basic"

// ParseCallout extracts a note from a callout blockquote:
//
//	> [!anki:Basic] What is 2+2? #math
//	> 4
//	<!--ID: 1234567890-->
//
// The marker-line remainder becomes the Front field, the following quoted
// lines the Back field. Tag-like tokens anywhere in the block become tags.
func (p *Parser) ParseCallout(raw string, offset int) (*ParsedNote, error) {
	block := strings.TrimSpace(raw)

	var id int64
	lines := strings.Split(block, "\n")
	if regexIDLine.MatchString(lines[len(lines)-1]) {
		_, id = stripIDSuffix(lines[len(lines)-1])
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, ErrEmptyField
	}

	marker := regexCalloutMarker.FindStringSubmatch(lines[0])
	if marker == nil {
		return nil, ErrUnknownType
	}
	noteType := strings.TrimSpace(marker[1])
	if noteType == "" {
		noteType = DefaultCalloutType
	}
	if _, ok := p.Schema[noteType]; !ok {
		return nil, ErrUnknownType
	}

	// Tag-like tokens may appear anywhere in the block
	var tags []string
	for _, match := range regexFieldTag.FindAllStringSubmatch(strings.Join(lines, "\n"), -1) {
		tags = append(tags, match[1])
	}

	front := strings.TrimSpace(regexFieldTag.ReplaceAllString(marker[2], ""))
	back := strings.Join(lines[1:], "\n")
	back = text.TrimLinePrefix(back, "> ")
	back = text.TrimLinePrefix(back, ">") // blank quoted lines
	back = strings.TrimSpace(regexFieldTag.ReplaceAllString(back, ""))

	if text.IsBlank(front) || text.IsBlank(back) {
		return nil, ErrEmptyField
	}

	fields := map[string]string{
		"Front": front,
		"Back":  back,
	}
	return p.assemble(noteType, fields, tags, id, offset)
}
