// Package bridge pushes the outcome of a document scan to Anki and writes
// the assigned identifiers back into the document text.
package bridge

import (
	"context"
	"strings"

	"github.com/ankibridge/ankibridge/internal/anki"
	"github.com/ankibridge/ankibridge/internal/config"
	"github.com/ankibridge/ankibridge/internal/scan"
	"github.com/ankibridge/ankibridge/internal/vault"
)

// Summary counts the remote changes applied for one document.
type Summary struct {
	Created int
	Updated int
	Deleted int
}

// Syncer applies scan results to Anki, one document at a time.
type Syncer struct {
	Client   *anki.Client
	Scanner  *scan.Scanner
	Settings *config.Config
}

// Document scans one document, submits the creation, update, and deletion
// batches, and returns the text with new identifier markers inserted. The
// returned text equals the input when nothing had to be written back.
func (s *Syncer) Document(ctx context.Context, text, sourceLink string, patternTypes []string) (string, *Summary, error) {
	result, err := s.Scanner.Scan(text, vault.ParseMetadata(text), sourceLink, patternTypes)
	if err != nil {
		return "", nil, err
	}

	summary := &Summary{}

	for _, parsed := range result.Updates {
		if err := s.Client.UpdateNoteFields(ctx, parsed.ID, parsed.Note.Fields); err != nil {
			return "", nil, err
		}
		summary.Updated++
	}

	// Document-global tags also reach the notes that already exist.
	if len(result.GlobalTags) > 0 {
		ids := make([]int64, 0, len(result.Updates))
		for _, parsed := range result.Updates {
			ids = append(ids, parsed.ID)
		}
		if err := s.Client.AddTags(ctx, ids, strings.Join(result.GlobalTags, " ")); err != nil {
			return "", nil, err
		}
	}

	if err := s.Client.DeleteNotes(ctx, result.Deletions); err != nil {
		return "", nil, err
	}
	summary.Deleted = len(result.Deletions)

	creates := result.Creates()
	if len(creates) == 0 {
		return text, summary, nil
	}

	ids, err := s.Client.AddNotes(ctx, creates)
	if err != nil {
		return "", nil, err
	}
	for _, id := range ids {
		if id == 0 {
			config.CurrentLogger().Warn("Anki rejected a note, likely a duplicate")
			continue
		}
		summary.Created++
	}

	insertions, err := result.Insertions(ids)
	if err != nil {
		return "", nil, err
	}
	marker := scan.DefaultMarker(s.Settings.Note.CommentIDs)
	return scan.Rewrite(text, insertions, marker), summary, nil
}
