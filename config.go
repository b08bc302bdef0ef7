package entitychips

import "github.com/goliatone/go-entitychips/internal/runtimeconfig"

var (
	ErrFaviconTemplateInvalid = runtimeconfig.ErrFaviconTemplateInvalid
	ErrClassNameInvalid       = runtimeconfig.ErrClassNameInvalid
	ErrIconsConfigInvalid     = runtimeconfig.ErrIconsConfigInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config           = runtimeconfig.Config
	ClassNames       = runtimeconfig.ClassNames
	IconsConfig      = runtimeconfig.IconsConfig
	LoggingConfig    = runtimeconfig.LoggingConfig
	IconResolverFunc = runtimeconfig.IconResolverFunc
)

// DefaultConfig returns the baseline configuration: URL auto-detection on,
// plain link transformation off, no local assets.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
