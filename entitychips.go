package entitychips

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"

	"github.com/goliatone/go-entitychips/internal/annotate"
	"github.com/goliatone/go-entitychips/internal/chips"
	"github.com/goliatone/go-entitychips/internal/icons"
	"github.com/goliatone/go-entitychips/internal/icons/fetch"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/internal/logging/gologger"
	"github.com/goliatone/go-entitychips/internal/markdown"
	"github.com/goliatone/go-entitychips/internal/registry"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// Entity exports the registry record type.
type Entity = registry.Entity

// Fragment exports one piece of annotated output.
type Fragment = annotate.Fragment

// Splice exports the tree mutation contract used by document adapters.
type Splice = annotate.Splice

// Metrics exports the annotation metrics hook.
type Metrics = annotate.Metrics

// Document exports the rendered Markdown document.
type Document = interfaces.Document

// ParseOptions exports the Markdown render options.
type ParseOptions = interfaces.ParseOptions

// ChipOptions exports the per-render chip toggles.
type ChipOptions = interfaces.ChipOptions

// LoadOptions exports the document discovery options.
type LoadOptions = interfaces.LoadOptions

// Logger and LoggerProvider export the logging contract.
type (
	Logger         = interfaces.Logger
	LoggerProvider = interfaces.LoggerProvider
)

// Option customises module construction.
type Option func(*Module)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider LoggerProvider) Option {
	return func(m *Module) {
		if provider != nil {
			m.provider = provider
		}
	}
}

// WithMetrics installs an annotation metrics recorder.
func WithMetrics(metrics Metrics) Option {
	return func(m *Module) {
		m.metrics = metrics
	}
}

// WithEntities replaces the built-in entity table.
func WithEntities(entities []Entity) Option {
	return func(m *Module) {
		m.builtins = append([]Entity(nil), entities...)
	}
}

// Module wires the registry, icon chain, renderer and engine from a Config.
type Module struct {
	cfg      Config
	provider LoggerProvider
	metrics  Metrics
	builtins []Entity

	registry *registry.Registry
	resolver *icons.Resolver
	engine   *annotate.Engine
}

// New validates cfg and assembles a module. Blank fields take their defaults.
func New(cfg Config, opts ...Option) (*Module, error) {
	cfg = cfg.Normalized()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.provider == nil {
		provider, err := newLoggerProvider(cfg.Logging)
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	regOpts := []registry.Option{
		registry.WithOverrideFile(m.path(cfg.OverrideFile)),
		registry.WithLogger(logging.RegistryLogger(m.provider)),
	}
	if m.builtins != nil {
		regOpts = append(regOpts, registry.WithBuiltins(m.builtins))
	}
	m.registry = registry.New(regOpts...)

	m.resolver = icons.NewResolver(icons.NewChain(m.iconCallback(), cfg.FaviconService), m.registry)

	classes := chips.ClassNames{
		Chip:    cfg.ClassNames.Chip,
		Favicon: cfg.ClassNames.Favicon,
		Name:    cfg.ClassNames.Name,
	}
	m.engine = annotate.New(m.registry, chips.NewRenderer(classes, m.resolver),
		annotate.WithAutoDetectURLs(cfg.AutoDetectURLs()),
		annotate.WithTransformLinks(cfg.TransformMarkdownLinks),
		annotate.WithMetrics(m.metrics),
		annotate.WithLogger(logging.AnnotateLogger(m.provider)),
	)

	logging.ModuleLogger(m.provider, "").Debug("entitychips.module.ready",
		"override_file", m.path(cfg.OverrideFile),
		"auto_detect_urls", cfg.AutoDetectURLs(),
		"transform_markdown_links", cfg.TransformMarkdownLinks,
	)
	return m, nil
}

// Config returns the normalised configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// LoggerProvider returns the provider every component logs through.
func (m *Module) LoggerProvider() LoggerProvider {
	return m.provider
}

// Registry returns the entity registry.
func (m *Module) Registry() *registry.Registry {
	return m.registry
}

// Engine returns the annotation engine.
func (m *Module) Engine() *annotate.Engine {
	return m.engine
}

// Annotate splits text into literal and chip fragments. It returns nil when
// text holds nothing to annotate.
func (m *Module) Annotate(text string) []Fragment {
	return m.engine.Fragments(text)
}

// RenderHTML returns text with every mention and detected URL replaced by
// chip markup. Literal runs are HTML escaped.
func (m *Module) RenderHTML(text string) string {
	return m.engine.RenderHTML(text)
}

// Extension returns a goldmark extender for hosts that build their own
// goldmark instance.
func (m *Module) Extension() goldmark.Extender {
	return markdown.NewChipExtension(m.engine, logging.MarkdownLogger(m.provider))
}

// Parser returns a goldmark parser with chips enabled.
func (m *Module) Parser(defaults ParseOptions) interfaces.MarkdownParser {
	return markdown.NewGoldmarkParser(defaults, m.engine, logging.MarkdownLogger(m.provider))
}

// Markdown returns a file-backed render service rooted at basePath. A blank
// basePath uses the project root.
func (m *Module) Markdown(basePath string, defaults ParseOptions) (interfaces.MarkdownService, error) {
	if strings.TrimSpace(basePath) == "" {
		basePath = m.cfg.ProjectRoot
	}
	return markdown.NewService(markdown.Config{
		BasePath:  basePath,
		Recursive: true,
		Parser:    defaults,
	}, m.engine, markdown.WithServiceLogger(logging.MarkdownLogger(m.provider)))
}

// IconFetchConfig derives the pre-fetch settings from Config.Icons.
func (m *Module) IconFetchConfig() fetch.Config {
	return fetch.Config{
		OutputDir:         m.path(m.cfg.Icons.OutputDir),
		Template:          m.cfg.Icons.FetchTemplate,
		Size:              m.cfg.Icons.Size,
		RequestsPerSecond: m.cfg.Icons.RequestsPerSecond,
	}
}

// IconFetcher returns a fetcher writing into the configured asset directory.
func (m *Module) IconFetcher(opts ...fetch.Option) *fetch.Fetcher {
	opts = append([]fetch.Option{fetch.WithLogger(logging.IconsLogger(m.provider))}, opts...)
	return fetch.New(m.IconFetchConfig(), opts...)
}

// IconTargets lists the registry entities an icon can be fetched for.
func (m *Module) IconTargets() []fetch.Target {
	return fetch.Targets(m.registry.All())
}

func (m *Module) iconCallback() icons.Callback {
	if m.cfg.IconResolver != nil {
		return icons.Callback(m.cfg.IconResolver)
	}
	if m.cfg.Icons.UseLocalAssets {
		return icons.AssetResolver(m.path(m.cfg.Icons.OutputDir), m.cfg.Icons.PublicPath)
	}
	return nil
}

func (m *Module) path(rel string) string {
	if rel == "" || filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(m.cfg.ProjectRoot, rel)
}

func newLoggerProvider(cfg LoggingConfig) (LoggerProvider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "noop":
		return nil, nil
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{Level: cfg.Level, Format: cfg.Format})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrLoggingFormatInvalid, err)
		}
		return provider, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Provider)
	}
}
