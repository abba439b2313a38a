package mailer

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Template is a markdown email body with the YAML frontmatter fenced by
// "---" lines at its top.
type Template struct {
	Metadata map[string]any
	Body     string
}

const fence = "---"

// ParseTemplate splits content into frontmatter and body. Content whose first
// line is not a fence has no frontmatter and is returned whole.
func ParseTemplate(content []byte) (*Template, error) {
	first, rest, found := bytes.Cut(content, []byte("\n"))
	if !isFence(first) {
		return &Template{Metadata: map[string]any{}, Body: string(content)}, nil
	}
	if !found {
		return nil, fmt.Errorf("%w: missing closing %q", ErrInvalidFrontmatter, fence)
	}

	for offset := 0; ; {
		line, body, more := bytes.Cut(rest[offset:], []byte("\n"))
		if isFence(line) {
			meta, err := decodeFrontmatter(rest[:offset])
			if err != nil {
				return nil, err
			}
			return &Template{Metadata: meta, Body: string(body)}, nil
		}
		if !more {
			return nil, fmt.Errorf("%w: missing closing %q", ErrInvalidFrontmatter, fence)
		}
		offset += len(line) + 1
	}
}

func isFence(line []byte) bool {
	return string(bytes.TrimSuffix(line, []byte("\r"))) == fence
}

func decodeFrontmatter(raw []byte) (map[string]any, error) {
	meta := map[string]any{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return meta, nil
	}
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	return meta, nil
}
