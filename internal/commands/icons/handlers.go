package iconscmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-entitychips/internal/commands"
	"github.com/goliatone/go-entitychips/internal/icons/fetch"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/internal/registry"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

const (
	fetchOperation = "icons.fetch"

	TextCodeUnknownSlug = "ICONS_UNKNOWN_SLUG"
)

var _ command.Commander[FetchIconsCommand] = (*FetchIconsHandler)(nil)

// EntitySource lists the entities icons are fetched for.
type EntitySource interface {
	All() []registry.Entity
}

// Runner executes one fetch run.
type Runner interface {
	Run(ctx context.Context, targets []fetch.Target) (fetch.Summary, error)
}

// RunnerFactory builds a runner for the per-command fetch config.
type RunnerFactory func(cfg fetch.Config) Runner

// DefaultRunnerFactory returns fetch.Fetcher instances logging to logger.
func DefaultRunnerFactory(logger interfaces.Logger, opts ...fetch.Option) RunnerFactory {
	return func(cfg fetch.Config) Runner {
		return fetch.New(cfg, append([]fetch.Option{fetch.WithLogger(logger)}, opts...)...)
	}
}

// FetchIconsHandler runs the icon fetcher over the registry.
type FetchIconsHandler struct {
	inner *commands.Handler[FetchIconsCommand]
}

// NewFetchIconsHandler binds a handler to source. base supplies the output
// directory, template, size and pacing; the command toggles Force and DryRun.
func NewFetchIconsHandler(source EntitySource, base fetch.Config, factory RunnerFactory, logger interfaces.Logger, opts ...commands.HandlerOption[FetchIconsCommand]) *FetchIconsHandler {
	baseLogger := logging.Ensure(logger)
	if factory == nil {
		factory = DefaultRunnerFactory(baseLogger)
	}

	exec := func(ctx context.Context, msg FetchIconsCommand) error {
		targets, err := selectTargets(source, msg.Slugs)
		if err != nil {
			return err
		}

		cfg := base
		cfg.Force = cfg.Force || msg.Force
		cfg.DryRun = cfg.DryRun || msg.DryRun

		summary, err := factory(cfg).Run(ctx, targets)
		if err != nil {
			return err
		}

		entry := logging.WithFields(baseLogger, map[string]any{
			"targets":    len(targets),
			"downloaded": summary.Downloaded,
			"skipped":    summary.Skipped,
			"failed":     summary.Failed,
			"dry_run":    cfg.DryRun,
		})
		if summary.Failed > 0 {
			entry.Warn("icons.command.fetch.partial")
			if msg.Strict {
				return summary.Err()
			}
			return nil
		}
		entry.Info("icons.command.fetch.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[FetchIconsCommand]{
		commands.WithLogger[FetchIconsCommand](baseLogger),
		commands.WithOperation[FetchIconsCommand](fetchOperation),
		commands.WithMessageFields(func(msg FetchIconsCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Slugs) > 0 {
				fields["slugs"] = strings.Join(msg.Slugs, ",")
			}
			if msg.Force {
				fields["force"] = true
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[FetchIconsCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &FetchIconsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[FetchIconsCommand].
func (h *FetchIconsHandler) Execute(ctx context.Context, msg FetchIconsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func selectTargets(source EntitySource, slugs []string) ([]fetch.Target, error) {
	if source == nil {
		return nil, nil
	}
	entities := source.All()
	if len(slugs) == 0 {
		return fetch.Targets(entities), nil
	}

	bySlug := make(map[string]registry.Entity, len(entities))
	for _, entity := range entities {
		bySlug[entity.Slug] = entity
	}
	picked := make([]registry.Entity, 0, len(slugs))
	for _, slug := range slugs {
		entity, ok := bySlug[strings.ToLower(strings.TrimSpace(slug))]
		if !ok {
			return nil, goerrors.New("unknown entity slug", goerrors.CategoryNotFound).
				WithTextCode(TextCodeUnknownSlug).
				WithMetadata(map[string]any{"slug": slug})
		}
		picked = append(picked, entity)
	}
	return fetch.Targets(picked), nil
}
