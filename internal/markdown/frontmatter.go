package markdown

import (
	"bytes"
	"fmt"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// ParseFrontMatter splits source into its metadata block and Markdown body.
// Documents without front matter return an empty FrontMatter and the source
// unchanged.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	var meta frontMatterEnvelope

	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return interfaces.FrontMatter{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}

	return envelopeToFrontMatter(meta), body, nil
}

// BuildDocument assembles a Document from a file path, its raw content and
// modification time. BodyHTML is left empty so callers can render lazily.
func BuildDocument(path string, source []byte, modified time.Time) (*interfaces.Document, error) {
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		return nil, err
	}

	return &interfaces.Document{
		FilePath:     path,
		FrontMatter:  fm,
		Body:         body,
		LastModified: modified,
	}, nil
}

type frontMatterEnvelope struct {
	Title  string                  `yaml:"title"`
	Slug   string                  `yaml:"slug"`
	Chips  *interfaces.ChipOptions `yaml:"entitychips"`
	Custom map[string]any          `yaml:",inline"`
}

func envelopeToFrontMatter(env frontMatterEnvelope) interfaces.FrontMatter {
	raw := make(map[string]any, len(env.Custom)+2)
	for key, value := range env.Custom {
		raw[key] = value
	}
	if env.Title != "" {
		raw["title"] = env.Title
	}
	if env.Slug != "" {
		raw["slug"] = env.Slug
	}

	return interfaces.FrontMatter{
		Title: env.Title,
		Slug:  env.Slug,
		Chips: env.Chips,
		Raw:   raw,
	}
}
