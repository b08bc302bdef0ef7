package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-entitychips/internal/registry"
)

// DomainPlaceholder is substituted with the entity domain in favicon templates.
const DomainPlaceholder = "{domain}"

const (
	DefaultChipClass    = "entity-chip"
	DefaultFaviconClass = "entity-favicon"
	DefaultNameClass    = "entity-name"

	DefaultFaviconService = "https://www.google.com/s2/favicons?domain={domain}&sz=32"
	DefaultFetchTemplate  = "https://t2.gstatic.com/faviconV2?client=SOCIAL&type=FAVICON&fallback_opts=TYPE,SIZE,URL&url=http://{domain}&size=48"
	DefaultOverrideFile   = "entity-chips.json"
)

var ErrFaviconTemplateInvalid = errors.New("entitychips config: favicon service template is invalid")
var ErrClassNameInvalid = errors.New("entitychips config: class name is invalid")
var ErrIconsConfigInvalid = errors.New("entitychips config: icons configuration is invalid")
var ErrLoggingProviderUnknown = errors.New("entitychips config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("entitychips config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("entitychips config: logging format is invalid")

// IconResolverFunc returns an icon source for slug, or "" when it has none.
// entity is nil when the slug is not in the registry.
type IconResolverFunc func(slug string, entity *registry.Entity) string

// Config aggregates the engine toggles, markup hooks, and file locations.
type Config struct {
	// DisableAutoDetectURLs turns bare URL detection off. Detection is on
	// for the zero value.
	DisableAutoDetectURLs  bool
	TransformMarkdownLinks bool
	ClassNames             ClassNames
	IconResolver           IconResolverFunc
	FaviconService         string
	ProjectRoot            string
	OverrideFile           string
	Icons                  IconsConfig
	Logging                LoggingConfig
}

// AutoDetectURLs reports whether bare URLs become platform chips.
func (cfg Config) AutoDetectURLs() bool {
	return !cfg.DisableAutoDetectURLs
}

// ClassNames overrides the CSS classes on chip markup. Blank fields keep the defaults.
type ClassNames struct {
	Chip    string
	Favicon string
	Name    string
}

// IconsConfig drives the icon pre-fetch tool and the local asset resolver.
type IconsConfig struct {
	// OutputDir is where fetched icons are written, relative to ProjectRoot.
	OutputDir string
	// PublicPath is the URL prefix the rendered markup uses for local icons.
	PublicPath string
	// UseLocalAssets installs the asset resolver as the icon resolver when no
	// IconResolver is set.
	UseLocalAssets    bool
	FetchTemplate     string
	Size              int
	RequestsPerSecond float64
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider string
	Level    string
	Format   string
}

// DefaultConfig returns the documented defaults: URL auto-detection on,
// plain link transformation off.
func DefaultConfig() Config {
	return Config{
		DisableAutoDetectURLs:  false,
		TransformMarkdownLinks: false,
		ClassNames: ClassNames{
			Chip:    DefaultChipClass,
			Favicon: DefaultFaviconClass,
			Name:    DefaultNameClass,
		},
		FaviconService: DefaultFaviconService,
		ProjectRoot:    ".",
		OverrideFile:   DefaultOverrideFile,
		Icons: IconsConfig{
			OutputDir:         "public/entities",
			PublicPath:        "/entities",
			FetchTemplate:     DefaultFetchTemplate,
			Size:              16,
			RequestsPerSecond: 5,
		},
		Logging: LoggingConfig{
			Provider: "noop",
			Level:    "info",
		},
	}
}

// Normalized fills every blank field with its default so callers can build a
// Config literal with only the fields they care about.
func (cfg Config) Normalized() Config {
	def := DefaultConfig()
	cfg.ClassNames.Chip = fallback(cfg.ClassNames.Chip, def.ClassNames.Chip)
	cfg.ClassNames.Favicon = fallback(cfg.ClassNames.Favicon, def.ClassNames.Favicon)
	cfg.ClassNames.Name = fallback(cfg.ClassNames.Name, def.ClassNames.Name)
	cfg.FaviconService = fallback(cfg.FaviconService, def.FaviconService)
	cfg.ProjectRoot = fallback(cfg.ProjectRoot, def.ProjectRoot)
	cfg.OverrideFile = fallback(cfg.OverrideFile, def.OverrideFile)
	cfg.Icons.OutputDir = fallback(cfg.Icons.OutputDir, def.Icons.OutputDir)
	cfg.Icons.PublicPath = fallback(cfg.Icons.PublicPath, def.Icons.PublicPath)
	cfg.Icons.FetchTemplate = fallback(cfg.Icons.FetchTemplate, def.Icons.FetchTemplate)
	if cfg.Icons.Size <= 0 {
		cfg.Icons.Size = def.Icons.Size
	}
	if cfg.Icons.RequestsPerSecond <= 0 {
		cfg.Icons.RequestsPerSecond = def.Icons.RequestsPerSecond
	}
	cfg.Logging.Provider = fallback(cfg.Logging.Provider, def.Logging.Provider)
	return cfg
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	classes := cfg.ClassNames
	if err := validation.ValidateStruct(&classes,
		validation.Field(&classes.Chip, validation.By(classToken)),
		validation.Field(&classes.Favicon, validation.By(classToken)),
		validation.Field(&classes.Name, validation.By(classToken)),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrClassNameInvalid, err)
	}

	if err := validation.Validate(cfg.FaviconService, validation.By(domainTemplate)); err != nil {
		return fmt.Errorf("%w: %v", ErrFaviconTemplateInvalid, err)
	}

	icons := cfg.Icons
	if err := validation.ValidateStruct(&icons,
		validation.Field(&icons.FetchTemplate, validation.By(domainTemplate)),
		validation.Field(&icons.Size, validation.Min(0), validation.Max(512)),
		validation.Field(&icons.RequestsPerSecond, validation.Min(0.0)),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrIconsConfigInvalid, err)
	}

	logging := cfg.Logging
	provider := strings.ToLower(strings.TrimSpace(logging.Provider))
	if err := validation.Validate(provider, validation.In("", "noop", "gologger")); err != nil {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	level := strings.ToLower(strings.TrimSpace(logging.Level))
	if err := validation.Validate(level, validation.In("trace", "debug", "info", "warn", "warning", "error", "fatal")); err != nil {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	format := strings.ToLower(strings.TrimSpace(logging.Format))
	if err := validation.Validate(format, validation.In("json", "console", "pretty")); err != nil {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

// classToken accepts blank (defaulted) values and single CSS class tokens.
func classToken(value any) error {
	s, _ := value.(string)
	if strings.TrimSpace(s) != s || strings.ContainsAny(s, " \t\n\"<>&") {
		return validation.NewError("entitychips.config.class_name", "must be a single class token")
	}
	return nil
}

// domainTemplate accepts blank (defaulted) values and URLs carrying the domain placeholder.
func domainTemplate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !strings.Contains(s, DomainPlaceholder) {
		return validation.NewError("entitychips.config.domain_placeholder", "must contain "+DomainPlaceholder)
	}
	return validation.Validate(strings.ReplaceAll(s, DomainPlaceholder, "example.com"), is.URL)
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}
