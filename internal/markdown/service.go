package markdown

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// Config controls how the Markdown service discovers and parses files.
type Config struct {
	BasePath  string
	Pattern   string
	Recursive bool
	Parser    interfaces.ParseOptions
}

// Service implements interfaces.MarkdownService for filesystem-backed documents.
type Service struct {
	cfg    Config
	parser interfaces.MarkdownParser
	loader *Loader
	logger interfaces.Logger
}

// ServiceOption configures optional collaborators.
type ServiceOption func(*Service)

// WithParser replaces the default goldmark parser.
func WithParser(parser interfaces.MarkdownParser) ServiceOption {
	return func(s *Service) {
		if parser != nil {
			s.parser = parser
		}
	}
}

// WithServiceLogger sets the logger used for document lifecycle events.
func WithServiceLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewService constructs a Markdown service. Unless WithParser is supplied a
// goldmark parser backed by engine is created.
func NewService(cfg Config, engine *annotate.Engine, opts ...ServiceOption) (*Service, error) {
	filesystem, err := prepareFilesystem(cfg.BasePath)
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:    cfg,
		logger: logging.NoOp(),
		loader: NewLoader(filesystem, LoaderConfig{
			BasePath:  cfg.BasePath,
			Pattern:   cfg.Pattern,
			Recursive: cfg.Recursive,
		}),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.parser == nil {
		s.parser = NewGoldmarkParser(cfg.Parser, engine, s.logger)
	}
	return s, nil
}

// Load reads a single Markdown document relative to the configured base path.
func (s *Service) Load(ctx context.Context, path string, opts interfaces.LoadOptions) (*interfaces.Document, error) {
	result, err := s.loader.LoadFile(ctx, s.normalisePath(path), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}
	if _, err := s.RenderDocument(ctx, result.Document, opts.Parser); err != nil {
		return nil, err
	}
	return result.Document, nil
}

// LoadDirectory reads and renders every Markdown document within dir.
func (s *Service) LoadDirectory(ctx context.Context, dir string, opts interfaces.LoadOptions) ([]*interfaces.Document, error) {
	results, err := s.loader.LoadDirectory(ctx, s.normalisePath(dir), toLoaderParams(opts))
	if err != nil {
		return nil, err
	}

	docs := make([]*interfaces.Document, 0, len(results))
	for _, result := range results {
		if _, err := s.RenderDocument(ctx, result.Document, opts.Parser); err != nil {
			return nil, err
		}
		docs = append(docs, result.Document)
	}
	logging.WithFields(s.logger, map[string]any{
		"dir":       dir,
		"documents": len(docs),
	}).Debug("markdown.directory.rendered")
	return docs, nil
}

// Render parses Markdown bytes into HTML using the configured parser.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.parser.ParseWithOptions(markdown, mergeParseOptions(s.cfg.Parser, opts))
}

// RenderDocument converts the document body into HTML. Chip toggles from the
// document's front matter apply over the service defaults, explicit options
// apply over both.
func (s *Service) RenderDocument(ctx context.Context, doc *interfaces.Document, opts interfaces.ParseOptions) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("markdown service: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := s.cfg.Parser
	merged.Chips = mergeChipOptions(merged.Chips, doc.FrontMatter.Chips)
	merged = mergeParseOptions(merged, opts)

	html, err := s.parser.ParseWithOptions(doc.Body, merged)
	if err != nil {
		return nil, fmt.Errorf("markdown render document %s: %w", doc.FilePath, err)
	}
	doc.BodyHTML = html

	logging.WithDocumentContext(s.logger, doc.FilePath, doc.FrontMatter.Slug).Debug("markdown.document.rendered")
	return html, nil
}

func (s *Service) normalisePath(path string) string {
	if strings.TrimSpace(path) == "" {
		return "."
	}
	clean := filepath.Clean(path)
	if filepath.IsAbs(clean) && strings.TrimSpace(s.cfg.BasePath) != "" {
		if rel, err := filepath.Rel(s.cfg.BasePath, clean); err == nil {
			return filepath.ToSlash(rel)
		}
	}
	return filepath.ToSlash(clean)
}

func mergeParseOptions(base, override interfaces.ParseOptions) interfaces.ParseOptions {
	result := base
	if len(override.Extensions) > 0 {
		result.Extensions = append([]string(nil), override.Extensions...)
	}
	if override.Sanitize {
		result.Sanitize = true
	}
	if override.HardWraps {
		result.HardWraps = true
	}
	if override.SafeMode {
		result.SafeMode = true
	}
	result.Chips = mergeChipOptions(base.Chips, override.Chips)
	return result
}

func mergeChipOptions(base, override *interfaces.ChipOptions) *interfaces.ChipOptions {
	if override == nil {
		return base
	}
	var merged interfaces.ChipOptions
	if base != nil {
		merged = *base
	}
	if override.AutoDetectURLs != nil {
		merged.AutoDetectURLs = override.AutoDetectURLs
	}
	if override.TransformMarkdownLinks != nil {
		merged.TransformMarkdownLinks = override.TransformMarkdownLinks
	}
	return &merged
}

func toLoaderParams(opts interfaces.LoadOptions) LoadParams {
	return LoadParams{
		Pattern:   opts.Pattern,
		Recursive: opts.Recursive,
	}
}

func prepareFilesystem(basePath string) (fs.FS, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = "."
	}
	if _, err := os.Stat(basePath); err != nil {
		return nil, fmt.Errorf("markdown service: stat base path %s: %w", basePath, err)
	}
	return os.DirFS(basePath), nil
}
