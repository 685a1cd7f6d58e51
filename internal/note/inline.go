package note

import (
	"regexp"
	"strings"
)

var (
	regexInlineType = regexp.MustCompile(`^\[([^\]]+)\]\s*`)
	regexTagSuffix  = regexp.MustCompile(`Tags: (.*)$`)
)

// ParseInline extracts a note from the content of an inline match:
//
//	STARTI [NoteType] Field1: content Field2: content Tags: tag1 ID: 123 ENDI
//
// text is the raw content between the STARTI and ENDI markers; offset is its
// position in the document.
func (p *Parser) ParseInline(text string, offset int) (*ParsedNote, error) {
	text = strings.TrimSpace(text)

	text, id := stripIDSuffix(text)

	var tags []string
	if match := regexTagSuffix.FindStringSubmatch(text); match != nil {
		tags = parseTags(match[1])
		text = strings.TrimSuffix(text, match[0])
	}

	typeMatch := regexInlineType.FindStringSubmatch(text)
	if typeMatch == nil {
		return nil, ErrUnknownType
	}
	noteType := strings.TrimSpace(typeMatch[1])
	fieldNames, ok := p.Schema[noteType]
	if !ok {
		return nil, ErrUnknownType
	}
	text = strings.TrimPrefix(text, typeMatch[0])

	// Tokens before any recognized field marker belong to the first field;
	// a token equal to "<fieldname>:" switches the current field.
	fields := make(map[string]string)
	current := fieldNames[0]
	for _, token := range strings.Fields(text) {
		if name, ok := matchFieldToken(token, fieldNames); ok {
			current = name
			continue
		}
		appendToken(fields, current, token)
	}

	return p.assemble(noteType, fields, tags, id, offset)
}

func matchFieldToken(token string, fieldNames []string) (string, bool) {
	for _, name := range fieldNames {
		if token == name+":" {
			return name, true
		}
	}
	return "", false
}

// appendToken accumulates field content, space-joined.
func appendToken(fields map[string]string, name, token string) {
	if existing, ok := fields[name]; ok {
		fields[name] = existing + " " + token
	} else {
		fields[name] = token
	}
}
