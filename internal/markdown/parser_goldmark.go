package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark engine
// with entity chips applied to every document. The parser is stateless so a
// single instance can serve concurrent renders.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	engine         *annotate.Engine
	logger         interfaces.Logger
	policy         *bluemonday.Policy
}

// NewGoldmarkParser constructs a parser with GFM extensions, hard wraps
// disabled and raw HTML allowed. A nil engine renders plain Markdown.
func NewGoldmarkParser(defaults interfaces.ParseOptions, engine *annotate.Engine, logger interfaces.Logger) *GoldmarkParser {
	return &GoldmarkParser{
		defaultOptions: defaults,
		engine:         engine,
		logger:         logging.Ensure(logger),
		policy:         chipPolicy(),
	}
}

// Parse renders Markdown into HTML using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	md := newGoldmarkEngine(opts, p.chipExtension(opts.Chips))
	var buf bytes.Buffer
	if err := md.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	if opts.Sanitize {
		return p.policy.SanitizeBytes(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

func (p *GoldmarkParser) chipExtension(opts *interfaces.ChipOptions) goldmark.Extender {
	if p.engine == nil {
		return nil
	}
	return NewChipExtension(p.engine.With(chipToggles(opts)...), p.logger)
}

func chipToggles(opts *interfaces.ChipOptions) []annotate.Option {
	if opts == nil {
		return nil
	}
	var toggles []annotate.Option
	if opts.AutoDetectURLs != nil {
		toggles = append(toggles, annotate.WithAutoDetectURLs(*opts.AutoDetectURLs))
	}
	if opts.TransformMarkdownLinks != nil {
		toggles = append(toggles, annotate.WithTransformLinks(*opts.TransformMarkdownLinks))
	}
	return toggles
}

// chipPolicy keeps user generated content rules and lets chip markup through.
func chipPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowDataAttributes()
	policy.AllowAttrs("class").Globally()
	return policy
}

func newGoldmarkEngine(opts interfaces.ParseOptions, chips goldmark.Extender) goldmark.Markdown {
	exts := collectExtensions(opts.Extensions)
	if chips != nil {
		exts = append(exts, chips)
	}

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}

	rendererOptions := []renderer.Option{}

	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	// Chip markup is rendered by its own node renderer, so SafeMode only
	// drops HTML the author wrote.
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
	}

	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}

	if len(exts) > 0 {
		engineOptions = append(engineOptions, goldmark.WithExtensions(exts...))
	}

	return goldmark.New(engineOptions...)
}

var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"footnote":      extension.Footnote,
	"emoji":         emoji.Emoji,
}

func collectExtensions(names []string) []goldmark.Extender {
	// Bare URLs stay text by default so the chip scanner decides where they
	// end. "linkify" and "gfm" opt in to goldmark's own URL linking.
	if len(names) == 0 {
		return []goldmark.Extender{
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		}
	}

	var extenders []goldmark.Extender
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		ext, ok := extensionRegistry[key]
		if !ok {
			continue
		}

		extenders = append(extenders, ext)
		seen[key] = struct{}{}
	}

	return extenders
}
