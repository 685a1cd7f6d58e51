package note

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	regexClozeMarker = regexp.MustCompile(`{[^{}]*}`)
	regexHighlighted = regexp.MustCompile(`==.+?==`)
)

// ParseRegex extracts a note from a match of a caller-defined pattern.
// groups follows the regexp submatch convention: groups[0] is the full match
// and groups[1:] map positionally to the schema's field order for noteType.
// When hasTags or hasID were requested, the trailing groups hold the tag
// marker text and the identifier digits, in that order.
func (p *Parser) ParseRegex(noteType string, groups []string, hasTags, hasID bool, offset int) (*ParsedNote, error) {
	fieldNames, ok := p.Schema[noteType]
	if !ok {
		return nil, ErrUnknownType
	}

	// The tag and identifier groups were appended after the caller's own
	// capture groups, so they are located from the end. Whatever remains in
	// between maps positionally to the schema's field order.
	idx := len(groups)
	var id int64
	if hasID && idx > 1 {
		idx--
		id, _ = strconv.ParseInt(strings.TrimSpace(groups[idx]), 10, 64)
	}
	var tags []string
	if hasTags && idx > 1 {
		idx--
		if match := regexTagLine.FindStringSubmatch(strings.TrimSpace(groups[idx])); match != nil {
			tags = parseTags(match[1])
		}
	}

	fields := make(map[string]string)
	fieldCount := idx - 1
	if fieldCount > len(fieldNames) {
		fieldCount = len(fieldNames)
	}
	for i := 0; i < fieldCount; i++ {
		fields[fieldNames[i]] = groups[1+i]
	}

	// A cloze type without a single cloze marker is an invalid extraction:
	// the caller discards it and releases the claimed span.
	if p.Schema.IsClozeType(noteType) {
		var combined strings.Builder
		for _, content := range fields {
			combined.WriteString(content)
			combined.WriteString("\n")
		}
		if !containsClozeMarker(combined.String(), p.Settings.Note.HighlightsToCloze) {
			return nil, ErrInvalidCloze
		}
	}

	return p.assemble(noteType, fields, tags, id, offset)
}

func containsClozeMarker(text string, highlightsToCloze bool) bool {
	if regexClozeMarker.MatchString(text) {
		return true
	}
	return highlightsToCloze && regexHighlighted.MatchString(text)
}
