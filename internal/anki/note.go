// Package anki defines the flashcard payloads and the HTTP client used to
// synchronize them with a running Anki instance.
package anki

import (
	"fmt"

	"github.com/jinzhu/copier"
)

// Note is the payload describing one flashcard.
type Note struct {
	DeckName  string            `json:"deckName"`
	ModelName string            `json:"modelName"`
	Fields    map[string]string `json:"fields"`
	Tags      []string          `json:"tags"`
}

// NewNote returns a note template for a given model with every field blank.
// Missing content must stay an empty string, never an absent key.
func NewNote(modelName string, fieldNames []string) *Note {
	fields := make(map[string]string, len(fieldNames))
	for _, name := range fieldNames {
		fields[name] = ""
	}
	return &Note{
		ModelName: modelName,
		Fields:    fields,
	}
}

// Clone returns a deep copy of the note, usable as an independent payload.
func (n *Note) Clone() *Note {
	var result Note
	if err := copier.CopyWithOption(&result, n, copier.Option{DeepCopy: true}); err != nil {
		// Note contains only maps and slices of strings
		panic(fmt.Sprintf("unable to clone note: %v", err))
	}
	return &result
}

func (n Note) String() string {
	return fmt.Sprintf("note %q in deck %q", n.ModelName, n.DeckName)
}
