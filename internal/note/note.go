// Package note turns a matched text span into a structured flashcard payload.
// Four extraction variants share the same assembly contract: block syntax,
// inline syntax, caller-defined regex patterns, and callout blockquotes.
package note

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ankibridge/ankibridge/internal/anki"
	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/ankibridge/ankibridge/internal/format"
	"github.com/ankibridge/ankibridge/internal/vault"
)

// Extraction outcomes. None of them abort a scan: the caller reports the
// condition, drops the candidate, and moves on.
var (
	// ErrUnknownType signals a note-type label absent from the schema.
	ErrUnknownType = errors.New("unknown note type")
	// ErrInvalidCloze signals a cloze note without any cloze marker. The
	// caller must also release the span claimed for the match.
	ErrInvalidCloze = errors.New("cloze note without cloze marker")
	// ErrEmptyField signals a callout note with an empty Front or Back.
	ErrEmptyField = errors.New("empty required field")
)

// Schema maps a note-type name to its ordered field names.
type Schema map[string][]string

// LoadSchema decodes a YAML mapping of note-type name to field-name list.
func LoadSchema(data []byte) (Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("unable to parse schema: %w", err)
	}
	for noteType, fields := range schema {
		if len(fields) == 0 {
			return nil, fmt.Errorf("note type %q has no field", noteType)
		}
		seen := make(map[string]bool)
		for _, field := range fields {
			if seen[field] {
				return nil, fmt.Errorf("note type %q declares field %q twice", noteType, field)
			}
			seen[field] = true
		}
	}
	return schema, nil
}

// IsClozeType returns if notes of this type use cloze deletion.
func (s Schema) IsClozeType(noteType string) bool {
	return strings.Contains(strings.ToLower(noteType), "cloze")
}

// FrozenFieldSet holds field content appended to every note of a given type,
// built once per document before scanning.
type FrozenFieldSet map[string]map[string]string

// ParsedNote is one extracted flashcard, ready for submission.
type ParsedNote struct {
	Note *anki.Note

	// ID is the existing identifier, or 0 for a creation candidate.
	ID int64

	// Position is the character offset where an identifier marker can later
	// be inserted: the end of the matched content, before any trailing
	// marker text already consumed by the match.
	Position int
}

// NewNote returns if the note is a creation candidate.
func (p *ParsedNote) NewNote() bool {
	return p.ID == 0
}

var (
	regexIDLine   = regexp.MustCompile(`^\s*(?:<!--)?ID: (\d+)(?:-->)?\s*$`)
	regexIDSuffix = regexp.MustCompile(`\s*(?:<!--)?ID: (\d+)(?:-->)?\s*$`)
	regexTagLine  = regexp.MustCompile(`^Tags: (.+)$`)
	regexFieldTag = regexp.MustCompile(`#([\w/-]+)`)
)

// Parser extracts notes from matched text using one schema snapshot. All the
// state below is constant during one document scan.
type Parser struct {
	Schema    Schema
	Deck      string
	Formatter *format.Formatter
	Meta      *vault.Metadata
	Frozen    FrozenFieldSet
	Settings  *config.Config

	// SourceLink is the deep link back to the scanned document. Empty
	// disables the file-link suffix.
	SourceLink string

	templates map[string]*anki.Note
}

// template returns the payload prototype for a note type.
func (p *Parser) template(noteType string) *anki.Note {
	if p.templates == nil {
		p.templates = make(map[string]*anki.Note, len(p.Schema))
	}
	if t, ok := p.templates[noteType]; ok {
		return t
	}
	t := anki.NewNote(noteType, p.Schema[noteType])
	p.templates[noteType] = t
	return t
}

// assemble applies the shared final steps: clone the payload template, render
// every field, append the file link, frozen fields and context, and harvest
// embedded tags. offset locates the note in the document for context lookup.
func (p *Parser) assemble(noteType string, rawFields map[string]string, tags []string, id int64, offset int) (*ParsedNote, error) {
	fieldNames, ok := p.Schema[noteType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, noteType)
	}

	cloze := p.Settings.Note.CurlyCloze && p.Schema.IsClozeType(noteType)

	payload := p.template(noteType).Clone()
	payload.DeckName = p.Deck
	for name, raw := range rawFields {
		if _, ok := payload.Fields[name]; !ok {
			continue
		}
		payload.Fields[name] = p.Formatter.Format(strings.TrimSpace(raw), cloze, p.Settings.Note.HighlightsToCloze)
	}

	if p.Settings.Note.AddFileLink && p.SourceLink != "" {
		field := p.Settings.FileLinkField(noteType, fieldNames)
		payload.Fields[field] += fmt.Sprintf(`<br><a href=%q class="obsidian-link">Obsidian</a>`, p.SourceLink)
	}

	if frozen, ok := p.Frozen[noteType]; ok {
		for field, content := range frozen {
			if _, ok := payload.Fields[field]; ok {
				payload.Fields[field] += content
			}
		}
	}

	if p.Settings.Note.AddContext && p.Meta != nil {
		if context := p.Meta.ContextAt(offset); context != "" {
			payload.Fields[fieldNames[0]] += "<br>" + context
		}
	}

	if p.Settings.Note.TagsInFields {
		for name, content := range payload.Fields {
			found := regexFieldTag.FindAllStringSubmatch(content, -1)
			if len(found) == 0 {
				continue
			}
			for _, match := range found {
				tags = append(tags, match[1])
			}
			payload.Fields[name] = strings.TrimSpace(regexFieldTag.ReplaceAllString(content, ""))
		}
	}

	payload.Tags = tags
	return &ParsedNote{Note: payload, ID: id}, nil
}

// stripIDSuffix removes a trailing identifier marker and returns the
// identifier, or 0 when the marker is absent.
func stripIDSuffix(text string) (string, int64) {
	match := regexIDSuffix.FindStringSubmatch(text)
	if match == nil {
		return text, 0
	}
	id, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return text, 0
	}
	return text[:len(text)-len(regexIDSuffix.FindString(text))], id
}

// parseTags splits the value of a tag marker into clean tag tokens.
func parseTags(value string) []string {
	var tags []string
	for _, token := range strings.Fields(value) {
		tags = append(tags, strings.TrimPrefix(token, "#"))
	}
	return tags
}
