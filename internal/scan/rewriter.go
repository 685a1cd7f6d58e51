package scan

import (
	"fmt"
	"regexp"
	"sort"
)

// Style selects the textual form of an identifier marker, depending on the
// variant that produced the note.
type Style int

const (
	// StyleBlock inserts the marker as a line before the END keyword.
	StyleBlock Style = iota
	// StyleInline appends the marker inside the inline span, space-separated.
	StyleInline
	// StyleComment appends a comment-wrapped marker line after the match.
	StyleComment
)

// Insertion is one identifier to write back into the document text.
type Insertion struct {
	Position int
	ID       int64
	Style    Style
}

// MarkerFunc renders the marker text inserted for one identifier.
type MarkerFunc func(ins Insertion) string

// DefaultMarker renders markers in the standard forms. commentIDs wraps
// block and inline markers inside an HTML comment.
func DefaultMarker(commentIDs bool) MarkerFunc {
	return func(ins Insertion) string {
		switch ins.Style {
		case StyleInline:
			if commentIDs {
				return fmt.Sprintf(" <!--ID: %d-->", ins.ID)
			}
			return fmt.Sprintf(" ID: %d", ins.ID)
		case StyleComment:
			return fmt.Sprintf("\n<!--ID: %d-->", ins.ID)
		default:
			if commentIDs {
				return fmt.Sprintf("\n<!--ID: %d-->", ins.ID)
			}
			return fmt.Sprintf("\nID: %d", ins.ID)
		}
	}
}

var regexMarkerBlankLine = regexp.MustCompile(`(?m)^((?:<!--)?ID: \d+(?:-->)?)\n\n((?:<!--)?ID: \d+)`)

// Rewrite inserts every identifier marker into the document text in a single
// left-to-right pass: insertions are sorted by position and a running length
// delta keeps later positions valid. An empty insertion list returns the
// text unchanged, byte for byte.
func Rewrite(text string, insertions []Insertion, marker MarkerFunc) string {
	if len(insertions) == 0 {
		return text
	}

	sorted := make([]Insertion, len(insertions))
	copy(sorted, insertions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})

	delta := 0
	result := text
	for _, ins := range sorted {
		markerText := marker(ins)
		pos := ins.Position + delta
		if pos < 0 || pos > len(result) {
			continue
		}
		result = result[:pos] + markerText + result[pos:]
		delta += len(markerText)
	}

	// Collapse the blank line occasionally introduced between two
	// consecutive identifier-marker lines.
	for regexMarkerBlankLine.MatchString(result) {
		result = regexMarkerBlankLine.ReplaceAllString(result, "$1\n$2")
	}

	return result
}
