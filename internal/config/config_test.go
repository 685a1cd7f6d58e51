package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cfg := config.New()
	assert.Equal(t, "Main", cfg.Vault)
	assert.Equal(t, "Default", cfg.Deck)
	assert.True(t, cfg.Note.CurlyCloze)
	assert.True(t, cfg.Note.CommentIDs)
	assert.False(t, cfg.Note.AddContext)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
vault = "Knowledge"

[note]
addcontext = true

[patterns]
"Cloze Paragraph" = '((?:.+\n)+)'

[filelinkfields]
"Basic" = "Back"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Knowledge", cfg.Vault)
	assert.Equal(t, "Default", cfg.Deck) // default preserved
	assert.True(t, cfg.Note.AddContext)
	assert.Equal(t, `((?:.+\n)+)`, cfg.Patterns["Cloze Paragraph"])
	assert.Equal(t, "Back", cfg.FileLinkField("Basic", []string{"Front", "Back"}))
	assert.Equal(t, "Front", cfg.FileLinkField("Other", []string{"Front", "Back"}))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
}
