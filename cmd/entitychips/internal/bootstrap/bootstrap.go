package bootstrap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/goliatone/go-entitychips"
)

// EnvPrefix namespaces environment overrides, e.g. ENTITYCHIPS_ICONS_OUTPUT_DIR.
const EnvPrefix = "ENTITYCHIPS"

// ConfigName is the file name (without extension) searched for in the
// project root when no explicit config file is given.
const ConfigName = "entitychips"

// fileConfig mirrors entitychips.Config for viper decoding.
type fileConfig struct {
	AutoDetectURLs         bool   `mapstructure:"auto_detect_urls"`
	TransformMarkdownLinks bool   `mapstructure:"transform_markdown_links"`
	FaviconService         string `mapstructure:"favicon_service"`
	ProjectRoot            string `mapstructure:"project_root"`
	OverrideFile           string `mapstructure:"override_file"`
	ClassNames             struct {
		Chip    string `mapstructure:"chip"`
		Favicon string `mapstructure:"favicon"`
		Name    string `mapstructure:"name"`
	} `mapstructure:"class_names"`
	Icons struct {
		OutputDir         string  `mapstructure:"output_dir"`
		PublicPath        string  `mapstructure:"public_path"`
		UseLocalAssets    bool    `mapstructure:"use_local_assets"`
		FetchTemplate     string  `mapstructure:"fetch_template"`
		Size              int     `mapstructure:"size"`
		RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	} `mapstructure:"icons"`
	Logging struct {
		Provider string `mapstructure:"provider"`
		Level    string `mapstructure:"level"`
		Format   string `mapstructure:"format"`
	} `mapstructure:"logging"`
}

// NewViper returns a viper instance with the env prefix and defaults applied.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	def := entitychips.DefaultConfig()
	v.SetDefault("auto_detect_urls", def.AutoDetectURLs())
	v.SetDefault("transform_markdown_links", def.TransformMarkdownLinks)
	v.SetDefault("favicon_service", def.FaviconService)
	v.SetDefault("project_root", def.ProjectRoot)
	v.SetDefault("override_file", def.OverrideFile)
	v.SetDefault("class_names.chip", def.ClassNames.Chip)
	v.SetDefault("class_names.favicon", def.ClassNames.Favicon)
	v.SetDefault("class_names.name", def.ClassNames.Name)
	v.SetDefault("icons.output_dir", def.Icons.OutputDir)
	v.SetDefault("icons.public_path", def.Icons.PublicPath)
	v.SetDefault("icons.use_local_assets", def.Icons.UseLocalAssets)
	v.SetDefault("icons.fetch_template", def.Icons.FetchTemplate)
	v.SetDefault("icons.size", def.Icons.Size)
	v.SetDefault("icons.requests_per_second", def.Icons.RequestsPerSecond)
	v.SetDefault("logging.provider", def.Logging.Provider)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
	return v
}

// LoadConfig reads file, or entitychips.{yaml,toml,json} from the project
// root when file is blank, and decodes the merged settings. A missing
// implicit config file is not an error.
func LoadConfig(v *viper.Viper, file string) (entitychips.Config, error) {
	if strings.TrimSpace(file) != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return entitychips.Config{}, fmt.Errorf("read config %s: %w", file, err)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(v.GetString("project_root"))
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return entitychips.Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var fc fileConfig
	if err := v.Unmarshal(&fc); err != nil {
		return entitychips.Config{}, fmt.Errorf("decode config: %w", err)
	}
	return fc.toConfig(), nil
}

func (fc fileConfig) toConfig() entitychips.Config {
	return entitychips.Config{
		DisableAutoDetectURLs:  !fc.AutoDetectURLs,
		TransformMarkdownLinks: fc.TransformMarkdownLinks,
		FaviconService:         fc.FaviconService,
		ProjectRoot:            fc.ProjectRoot,
		OverrideFile:           fc.OverrideFile,
		ClassNames: entitychips.ClassNames{
			Chip:    fc.ClassNames.Chip,
			Favicon: fc.ClassNames.Favicon,
			Name:    fc.ClassNames.Name,
		},
		Icons: entitychips.IconsConfig{
			OutputDir:         fc.Icons.OutputDir,
			PublicPath:        fc.Icons.PublicPath,
			UseLocalAssets:    fc.Icons.UseLocalAssets,
			FetchTemplate:     fc.Icons.FetchTemplate,
			Size:              fc.Icons.Size,
			RequestsPerSecond: fc.Icons.RequestsPerSecond,
		},
		Logging: entitychips.LoggingConfig{
			Provider: fc.Logging.Provider,
			Level:    fc.Logging.Level,
			Format:   fc.Logging.Format,
		},
	}
}

// BuildModule constructs the module the CLI commands run against.
func BuildModule(cfg entitychips.Config, opts ...entitychips.Option) (*entitychips.Module, error) {
	module, err := entitychips.New(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialise entitychips module: %w", err)
	}
	return module, nil
}
