// Package config holds the scan settings and the ambient logger.
package config

import (
	"fmt"
	"os"
	"sort"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration used when no file overrides it.
const DefaultConfig = `
vault = "Main"
deck = "Default"

[note]
curlycloze = true
highlightstocloze = false
commentids = true
addfilelink = false
addcontext = false
tagsinfields = true
`

// Note: Fields must be public for toml package to unmarshall
type Config struct {
	// Vault is the name used to build deep links back into the note tool.
	Vault string
	// Deck receives notes when no deck marker overrides it.
	Deck string

	Note ConfigNote

	// Patterns maps a note-type name to the regular expression used to match
	// it. A type listed here is scanned by the pattern extractor instead of
	// the block/inline syntaxes.
	Patterns map[string]string

	// FileLinkFields maps a note-type name to the field receiving the source
	// document link. The first field of the type is used when unset.
	FileLinkFields map[string]string
}

type ConfigNote struct {
	// CurlyCloze enables {...} cloze conversion for cloze note types.
	CurlyCloze bool
	// HighlightsToCloze converts ==...== spans to {...} before cloze conversion.
	HighlightsToCloze bool
	// CommentIDs wraps written identifier markers inside an HTML comment.
	CommentIDs bool
	// AddFileLink appends a link to the source document to one field.
	AddFileLink bool
	// AddContext appends the heading breadcrumb to the first field.
	AddContext bool
	// TagsInFields harvests #tokens out of field content into the tag list.
	TagsInFields bool
}

// New returns the default configuration.
func New() *Config {
	var cfg Config
	if err := toml.Unmarshal([]byte(DefaultConfig), &cfg); err != nil {
		// The default configuration is constant
		panic(err)
	}
	return &cfg
}

// Load reads a configuration file, starting from the defaults.
func Load(path string) (*Config, error) {
	cfg := New()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read config %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("unable to parse config %q: %w", path, err)
	}
	return cfg, nil
}

// PatternTypes returns the note types with a configured pattern, sorted so
// scans visit them in a stable order.
func (c *Config) PatternTypes() []string {
	types := make([]string, 0, len(c.Patterns))
	for noteType := range c.Patterns {
		types = append(types, noteType)
	}
	sort.Strings(types)
	return types
}

// FileLinkField returns the field receiving the source link for a note type.
func (c *Config) FileLinkField(noteType string, fieldNames []string) string {
	if field, ok := c.FileLinkFields[noteType]; ok {
		return field
	}
	if len(fieldNames) > 0 {
		return fieldNames[0]
	}
	return ""
}
