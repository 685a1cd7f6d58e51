package note

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallout(t *testing.T) {
	var tests = []struct {
		name          string
		text          string
		expectedType  string
		expectedFront string
		expectedBack  string
		expectedTags  []string
		expectedID    int64
		expectedErr   error
	}{
		{
			name:          "default type",
			text:          "> [!anki] What is 2+2?\n> 4",
			expectedType:  "Basic",
			expectedFront: "What is 2+2?",
			expectedBack:  "4",
		},
		{
			name:          "explicit subtype",
			text:          "> [!anki:Reversed] Paris\n> Capital of France",
			expectedType:  "Reversed",
			expectedFront: "Paris",
			expectedBack:  "Capital of France",
		},
		{
			name:          "multiline back",
			text:          "> [!anki] Name two colors.\n> Red and\n> blue.",
			expectedType:  "Basic",
			expectedFront: "Name two colors.",
			expectedBack:  "Red and\nblue.",
		},
		{
			name:          "tags anywhere in the block",
			text:          "> [!anki] What is 2+2? #math\n> 4 #easy",
			expectedType:  "Basic",
			expectedFront: "What is 2+2?",
			expectedBack:  "4",
			expectedTags:  []string{"math", "easy"},
		},
		{
			name:          "identifier marker",
			text:          "> [!anki] What is 2+2?\n> 4\n<!--ID: 99-->",
			expectedType:  "Basic",
			expectedFront: "What is 2+2?",
			expectedBack:  "4",
			expectedID:    99,
		},
		{
			name:        "unknown subtype",
			text:        "> [!anki:Nope] What is 2+2?\n> 4",
			expectedErr: ErrUnknownType,
		},
		{
			name:        "missing back",
			text:        "> [!anki] What is 2+2?",
			expectedErr: ErrEmptyField,
		},
		{
			name:        "missing front",
			text:        "> [!anki]\n> 4",
			expectedErr: ErrEmptyField,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			parsed, err := p.ParseCallout(tt.text, 0)
			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expectedType, parsed.Note.ModelName)
			assert.Equal(t, tt.expectedFront, parsed.Note.Fields["Front"])
			assert.Equal(t, tt.expectedBack, parsed.Note.Fields["Back"])
			if tt.expectedTags == nil {
				assert.Empty(t, parsed.Note.Tags)
			} else {
				assert.Equal(t, tt.expectedTags, parsed.Note.Tags)
			}
			assert.Equal(t, tt.expectedID, parsed.ID)
		})
	}
}
