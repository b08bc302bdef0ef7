package logging

import (
	"context"
	"strings"

	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

const (
	rootModule     = "entitychips"
	registryModule = "entitychips.registry"
	annotateModule = "entitychips.annotate"
	iconsModule    = "entitychips.icons"
	markdownModule = "entitychips.markdown"
)

const (
	fieldDocumentPath = "document_path"
	fieldSlug         = "slug"
)

// ModuleLogger returns a module-scoped logger, defaulting to a no-op
// implementation when no provider is supplied. The returned logger attaches
// the module identifier as structured context so downstream entries can be
// filtered predictably.
func ModuleLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	if module == "" {
		module = rootModule
	}

	logger := NoOp()
	if provider != nil {
		if provided := provider.GetLogger(module); provided != nil {
			logger = provided
		}
	}

	return WithFields(logger, map[string]any{
		"module": module,
	})
}

// RegistryLogger returns the logger namespace reserved for the entity registry.
func RegistryLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, registryModule)
}

// AnnotateLogger returns the logger namespace reserved for the span replacer.
func AnnotateLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, annotateModule)
}

// IconsLogger returns the logger namespace reserved for icon resolution and fetching.
func IconsLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, iconsModule)
}

// MarkdownLogger returns the logger namespace reserved for markdown workflows.
func MarkdownLogger(provider interfaces.LoggerProvider) interfaces.Logger {
	return ModuleLogger(provider, markdownModule)
}

// WithDocumentContext enriches the provided logger with the document path and
// the entity slug being processed. Empty values are ignored.
func WithDocumentContext(logger interfaces.Logger, path, slug string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldDocumentPath] = trimmed
	}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	return WithFields(logger, fields)
}

// NoOp returns a logger that drops every log entry. It satisfies the Logger
// contract so services can safely operate when logging is disabled.
func NoOp() interfaces.Logger {
	return noopLogger{}
}

type noopLogger struct{}

var (
	_ interfaces.Logger       = noopLogger{}
	_ interfaces.FieldsLogger = noopLogger{}
)

func (noopLogger) Trace(string, ...any) {}
func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}
func (noopLogger) Fatal(string, ...any) {}

func (n noopLogger) WithFields(map[string]any) interfaces.Logger {
	return n
}

func (n noopLogger) WithContext(context.Context) interfaces.Logger {
	return n
}
