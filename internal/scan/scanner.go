// Package scan orchestrates note extraction over one document: it claims
// spans, runs every extraction variant in precedence order, and produces the
// creation, update, and deletion batches plus the identifier write-backs.
package scan

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ankibridge/ankibridge/internal/anki"
	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/ankibridge/ankibridge/internal/format"
	"github.com/ankibridge/ankibridge/internal/note"
	"github.com/ankibridge/ankibridge/internal/vault"
)

var (
	regexBlockNote   = regexp.MustCompile(`(?ms)^START\n(.*?)\nEND$`)
	regexInlineNote  = regexp.MustCompile(`STARTI (.+?) ENDI`)
	regexCalloutNote = regexp.MustCompile(`(?m)^>\s*\[!anki.*(?:\n>.*)*(?:\n<!--ID: \d+-->)?`)
	regexDeckMarker  = regexp.MustCompile(`(?m)^TARGET DECK(?:\n|: )(.+)$`)
	regexTagMarker   = regexp.MustCompile(`(?m)^FILE TAGS(?:\n|: )(.+)$`)
	regexDeleteNote  = regexp.MustCompile(`(?m)^DELETE\n(?:<!--)?ID: (\d+)(?:-->)?$`)
	regexIDOnly      = regexp.MustCompile(`^(?:<!--)?ID: (\d+)(?:-->)?$`)
	regexFrozen      = regexp.MustCompile(`(?m)^FROZEN - (.+?):\n((?:.+\n?)+)`)
)

// Optional suffixes appended to a caller-defined pattern. A single compiled
// pattern cannot express two independent optional trailing groups with
// stable capture indexes, so each polarity is scanned as its own pass.
const (
	suffixTags = `\n(Tags: .*)`
	suffixID   = `\n(?:<!--)?ID: (\d+)(?:-->)?`
)

type category int

const (
	catBlock category = iota
	catInline
	catRegex
	catCallout
	categoryCount
)

type pendingCreate struct {
	parsed *note.ParsedNote
	style  Style
}

// Result collects the outcome of one document scan.
type Result struct {
	Deck       string
	GlobalTags []string

	// Updates are notes whose identifier is known to the remote store.
	Updates []*note.ParsedNote
	// Deletions are identifiers queued for removal at the remote store.
	Deletions []int64

	creates [categoryCount][]pendingCreate
}

// Creates returns the creation payloads in the submission order contract:
// block notes, then inline notes, then pattern-defined notes, then callout
// notes. The Rewriter relies on this exact concatenation order.
func (r *Result) Creates() []*anki.Note {
	var notes []*anki.Note
	for _, pending := range r.creates {
		for _, pc := range pending {
			notes = append(notes, pc.parsed.Note)
		}
	}
	return notes
}

// Insertions correlates the identifiers assigned by the remote store,
// positionally, with the creation list and returns the markers to write
// back. A zero identifier (rejected note) produces no insertion.
func (r *Result) Insertions(ids []int64) ([]Insertion, error) {
	var insertions []Insertion
	i := 0
	for _, pending := range r.creates {
		for _, pc := range pending {
			if i >= len(ids) {
				return nil, fmt.Errorf("got %d identifiers for %d creations", len(ids), len(r.Creates()))
			}
			id := ids[i]
			i++
			if id == 0 {
				continue
			}
			insertions = append(insertions, Insertion{
				Position: pc.parsed.Position,
				ID:       id,
				Style:    pc.style,
			})
		}
	}
	return insertions, nil
}

// Scanner runs every extraction variant over documents sharing one schema
// snapshot and one snapshot of the identifiers known to the remote store.
type Scanner struct {
	schema   note.Schema
	settings *config.Config
	existing map[int64]bool
}

// NewScanner builds a scanner. existing lists the identifiers known to the
// remote store; a nil slice trusts every identifier found in documents, for
// offline scans.
func NewScanner(schema note.Schema, settings *config.Config, existing []int64) *Scanner {
	s := &Scanner{
		schema:   schema,
		settings: settings,
	}
	if existing != nil {
		s.existing = make(map[int64]bool, len(existing))
		for _, id := range existing {
			s.existing[id] = true
		}
	}
	return s
}

// Scan extracts every note of one document. patternTypes fixes the iteration
// order of the caller-defined pattern types; types without a configured
// pattern are skipped. sourceLink, when not empty, is appended as a link to
// the source document.
func (s *Scanner) Scan(text string, meta *vault.Metadata, sourceLink string, patternTypes []string) (*Result, error) {
	reg := &SpanRegistry{}
	formatter := format.NewFormatter(meta, s.settings.Vault)
	result := &Result{Deck: s.settings.Deck}

	// Document-global markers are consumed first and their spans claimed so
	// no extractor can re-enter them.
	if m := regexDeckMarker.FindStringSubmatchIndex(text); m != nil {
		result.Deck = strings.TrimSpace(text[m[2]:m[3]])
		reg.Claim(Span{m[0], m[1]})
	}
	if m := regexTagMarker.FindStringSubmatchIndex(text); m != nil {
		result.GlobalTags = parseTagTokens(text[m[2]:m[3]])
		reg.Claim(Span{m[0], m[1]})
	}
	for _, m := range regexDeleteNote.FindAllStringSubmatchIndex(text, -1) {
		id, err := strconv.ParseInt(text[m[2]:m[3]], 10, 64)
		if err != nil {
			continue
		}
		result.Deletions = append(result.Deletions, id)
		reg.Claim(Span{m[0], m[1]})
	}

	frozen := s.parseFrozen(text, reg, formatter)

	// Math and code regions are pre-registered so pattern-defined scans
	// never match inside them.
	for _, span := range format.ProtectedSpans(text) {
		reg.Claim(Span{span[0], span[1]})
	}

	parser := &note.Parser{
		Schema:     s.schema,
		Deck:       result.Deck,
		Formatter:  formatter,
		Meta:       meta,
		Frozen:     frozen,
		Settings:   s.settings,
		SourceLink: sourceLink,
	}

	// Precedence order: block, inline, callout, then pattern-defined types.
	for _, m := range regexBlockNote.FindAllStringSubmatchIndex(text, -1) {
		span := Span{m[0], m[1]}
		if reg.Contains(span) {
			continue
		}
		reg.Claim(span)
		content := text[m[2]:m[3]]
		// An empty block carrying only an identifier requests a deletion.
		if mID := regexIDOnly.FindStringSubmatch(strings.TrimSpace(content)); mID != nil {
			if id, err := strconv.ParseInt(mID[1], 10, 64); err == nil {
				result.Deletions = append(result.Deletions, id)
			}
			continue
		}
		parsed, err := parser.ParseBlock(content, m[0])
		s.dispose(result, reg, catBlock, parsed, err, m[3], StyleBlock)
	}

	for _, m := range regexInlineNote.FindAllStringSubmatchIndex(text, -1) {
		span := Span{m[0], m[1]}
		if reg.Contains(span) {
			continue
		}
		reg.Claim(span)
		parsed, err := parser.ParseInline(text[m[2]:m[3]], m[0])
		s.dispose(result, reg, catInline, parsed, err, m[3], StyleInline)
	}

	for _, m := range regexCalloutNote.FindAllStringIndex(text, -1) {
		span := Span{m[0], m[1]}
		if reg.Contains(span) {
			continue
		}
		reg.Claim(span)
		parsed, err := parser.ParseCallout(text[m[0]:m[1]], m[0])
		s.dispose(result, reg, catCallout, parsed, err, m[1], StyleComment)
	}

	for _, noteType := range patternTypes {
		base := s.settings.Patterns[noteType]
		if base == "" {
			continue
		}
		// Four passes per type, most specific suffix combination first, so
		// a claimed span always covers the tag and identifier markers.
		polarities := []struct{ tags, id bool }{
			{true, true},
			{false, true},
			{true, false},
			{false, false},
		}
		for _, polarity := range polarities {
			pattern := base
			if polarity.tags {
				pattern += suffixTags
			}
			if polarity.id {
				pattern += suffixID
			}
			re, err := regexp.Compile(`(?m)` + pattern)
			if err != nil {
				return nil, fmt.Errorf("invalid pattern for note type %q: %w", noteType, err)
			}
			for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
				span := Span{m[0], m[1]}
				if reg.Contains(span) {
					continue
				}
				reg.Claim(span)
				parsed, err := parser.ParseRegex(noteType, submatches(text, m), polarity.tags, polarity.id, m[0])
				s.dispose(result, reg, catRegex, parsed, err, m[1], StyleComment)
			}
		}
	}

	return result, nil
}

// dispose applies the disposition rule for one extraction outcome.
// contentEnd is the offset where an identifier marker may be inserted.
func (s *Scanner) dispose(result *Result, reg *SpanRegistry, cat category, parsed *note.ParsedNote, err error, contentEnd int, style Style) {
	logger := config.CurrentLogger()
	switch {
	case errors.Is(err, note.ErrInvalidCloze):
		// The region stays available for other extractors
		logger.Debug("Ignoring cloze note without cloze marker")
		reg.ReleaseLast()
	case errors.Is(err, note.ErrUnknownType):
		logger.Warnf("Unknown note type: %v", err)
	case errors.Is(err, note.ErrEmptyField):
		logger.Warn("Callout note with an empty Front or Back, skipping")
	case err != nil:
		logger.Warnf("Unable to extract note: %v", err)
	case parsed.NewNote():
		parsed.Note.Tags = append(parsed.Note.Tags, result.GlobalTags...)
		parsed.Position = contentEnd
		result.creates[cat] = append(result.creates[cat], pendingCreate{parsed, style})
	case s.existing == nil || s.existing[parsed.ID]:
		result.Updates = append(result.Updates, parsed)
	default:
		logger.Warnf("Identifier %d not found in Anki, skipping note", parsed.ID)
	}
}

func (s *Scanner) parseFrozen(text string, reg *SpanRegistry, formatter *format.Formatter) note.FrozenFieldSet {
	frozen := note.FrozenFieldSet{}
	for _, m := range regexFrozen.FindAllStringSubmatchIndex(text, -1) {
		noteType := strings.TrimSpace(text[m[2]:m[3]])
		fieldNames, ok := s.schema[noteType]
		if !ok {
			config.CurrentLogger().Warnf("Frozen fields for unknown note type %q", noteType)
			continue
		}
		reg.Claim(Span{m[0], m[1]})
		lines := strings.Split(strings.TrimSpace(text[m[4]:m[5]]), "\n")
		rendered := make(map[string]string)
		for field, content := range note.SplitFields(lines, fieldNames) {
			if strings.TrimSpace(content) == "" {
				continue
			}
			rendered[field] = formatter.Format(content, false, false)
		}
		frozen[noteType] = rendered
	}
	return frozen
}

func parseTagTokens(value string) []string {
	var tags []string
	for _, token := range strings.Fields(value) {
		tags = append(tags, strings.TrimPrefix(token, "#"))
	}
	return tags
}

func submatches(text string, m []int) []string {
	groups := make([]string, 0, len(m)/2)
	for i := 0; i < len(m); i += 2 {
		if m[i] < 0 {
			groups = append(groups, "")
		} else {
			groups = append(groups, text[m[i]:m[i+1]])
		}
	}
	return groups
}
