package note

import (
	"strings"
)

// ParseBlock extracts a note from the content of a block match:
//
//	START
//	NoteType
//	Field1: content
//	more content for Field1
//	Field2: content
//	Tags: tag1 tag2
//	ID: 1234567890
//	END
//
// text is the raw content between the START and END markers; offset is its
// position in the document.
func (p *Parser) ParseBlock(text string, offset int) (*ParsedNote, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var id int64
	if len(lines) > 0 && regexIDLine.MatchString(lines[len(lines)-1]) {
		_, id = stripIDSuffix(lines[len(lines)-1])
		lines = lines[:len(lines)-1]
	}

	var tags []string
	if len(lines) > 0 {
		if match := regexTagLine.FindStringSubmatch(lines[len(lines)-1]); match != nil {
			tags = parseTags(match[1])
			lines = lines[:len(lines)-1]
		}
	}

	if len(lines) == 0 {
		return nil, ErrUnknownType
	}

	noteType := strings.TrimSpace(lines[0])
	fieldNames, ok := p.Schema[noteType]
	if !ok {
		return nil, ErrUnknownType
	}

	fields := SplitFields(lines[1:], fieldNames)

	return p.assemble(noteType, fields, tags, id, offset)
}

// SplitFields partitions lines into fields using "<fieldname>: " prefixes.
// Lines before any recognized prefix belong to the first field; other
// unmatched lines append, newline-joined, to the most recently selected one.
func SplitFields(lines []string, fieldNames []string) map[string]string {
	fields := make(map[string]string)
	if len(fieldNames) == 0 {
		return fields
	}
	current := fieldNames[0]
	for _, line := range lines {
		if name, content, ok := matchFieldPrefix(line, fieldNames); ok {
			current = name
			appendLine(fields, current, content)
		} else {
			appendLine(fields, current, line)
		}
	}
	return fields
}

// matchFieldPrefix reports whether a line starts a new field.
func matchFieldPrefix(line string, fieldNames []string) (string, string, bool) {
	for _, name := range fieldNames {
		prefix := name + ": "
		if strings.HasPrefix(line, prefix) {
			return name, strings.TrimPrefix(line, prefix), true
		}
	}
	return "", "", false
}

// appendLine accumulates field content, newline-joined.
func appendLine(fields map[string]string, name, line string) {
	if existing, ok := fields[name]; ok {
		fields[name] = existing + "\n" + line
	} else {
		fields[name] = line
	}
}
