package interfaces

import (
	"context"
	"time"
)

// MarkdownParser defines how raw Markdown bytes are converted into HTML.
// Implementations support reusable parser instances and extension toggles so
// hosts can tailor rendering without rewriting the render service.
type MarkdownParser interface {
	// Parse converts Markdown into HTML using the parser's default settings.
	Parse(markdown []byte) ([]byte, error)
	// ParseWithOptions converts Markdown into HTML using the supplied overrides.
	ParseWithOptions(markdown []byte, opts ParseOptions) ([]byte, error)
}

// ParseOptions customises Markdown parsing behaviour, keeping option names
// readable for configuration unmarshalling and CLI flags.
type ParseOptions struct {
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML written by the author. Chip markup is unaffected.
	SafeMode bool
	// Sanitize runs the rendered HTML through an allow-list policy that keeps
	// chip attributes.
	Sanitize bool
	// Chips overrides the entity chip toggles for a single render. Nil keeps
	// the parser defaults.
	Chips *ChipOptions
}

// ChipOptions carries the per-document entity chip toggles.
type ChipOptions struct {
	AutoDetectURLs         *bool `yaml:"auto_detect_urls" json:"auto_detect_urls,omitempty"`
	TransformMarkdownLinks *bool `yaml:"transform_markdown_links" json:"transform_markdown_links,omitempty"`
}

// MarkdownService exposes the file workflows used by the CLI: load Markdown
// documents from disk and render them into HTML with entity chips applied.
type MarkdownService interface {
	Load(ctx context.Context, path string, opts LoadOptions) (*Document, error)
	LoadDirectory(ctx context.Context, dir string, opts LoadOptions) ([]*Document, error)
	Render(ctx context.Context, markdown []byte, opts ParseOptions) ([]byte, error)
	RenderDocument(ctx context.Context, doc *Document, opts ParseOptions) ([]byte, error)
}

// Document represents a Markdown file with parsed metadata and content.
type Document struct {
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	BodyHTML     []byte
	LastModified time.Time
	// Checksum stores a SHA-256 digest of the original file content.
	Checksum []byte
}

// FrontMatter models metadata extracted from Markdown files. Only the title and
// the entity chip block are interpreted, everything else is kept in Raw.
type FrontMatter struct {
	Title string         `yaml:"title" json:"title"`
	Slug  string         `yaml:"slug" json:"slug"`
	Chips *ChipOptions   `yaml:"entitychips" json:"entitychips,omitempty"`
	Raw   map[string]any `yaml:"-" json:"raw"`
}

// LoadOptions fine-tunes how documents are discovered and parsed from disk.
type LoadOptions struct {
	Recursive *bool
	Pattern   string
	Parser    ParseOptions
}
