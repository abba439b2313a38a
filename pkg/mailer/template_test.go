package mailer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantMeta map[string]any
		wantBody string
		wantErr  error
	}{
		{
			name:     "frontmatter and body",
			content:  "---\nSubject: Welcome!\n---\nPlease confirm.\n",
			wantMeta: map[string]any{"Subject": "Welcome!"},
			wantBody: "Please confirm.\n",
		},
		{
			name:     "no frontmatter",
			content:  "Just markdown.",
			wantMeta: map[string]any{},
			wantBody: "Just markdown.",
		},
		{
			name:     "empty frontmatter",
			content:  "---\n---\nBody",
			wantMeta: map[string]any{},
			wantBody: "Body",
		},
		{
			name:     "windows line endings",
			content:  "---\r\nSubject: Hi\r\n---\r\nBody",
			wantMeta: map[string]any{"Subject": "Hi"},
			wantBody: "Body",
		},
		{
			name:    "unterminated frontmatter",
			content: "---\nSubject: Hi\n",
			wantErr: ErrInvalidFrontmatter,
		},
		{
			name:    "invalid yaml",
			content: "---\nSubject: [unclosed\n---\nBody",
			wantErr: ErrInvalidFrontmatter,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tmpl, err := ParseTemplate([]byte(tt.content))
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.wantMeta, tmpl.Metadata)
			require.Equal(t, tt.wantBody, tmpl.Body)
		})
	}
}
