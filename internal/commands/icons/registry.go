package iconscmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-entitychips/internal/commands"
	"github.com/goliatone/go-entitychips/internal/icons/fetch"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// Config carries the fetch defaults and an optional runner factory.
type Config struct {
	Fetch   fetch.Config
	Factory RunnerFactory
}

// HandlerSet groups the handlers produced by RegisterIconCommands.
type HandlerSet struct {
	Fetch *FetchIconsHandler
}

// RegisterIconCommands builds the fetch handler and registers it with reg
// when reg is non-nil.
func RegisterIconCommands(reg CommandRegistry, source EntitySource, provider interfaces.LoggerProvider, cfg Config, opts ...commands.HandlerOption[FetchIconsCommand]) (*HandlerSet, error) {
	if source == nil {
		return nil, errors.New("icon command registration: entity source is nil")
	}

	logger := commands.CommandLogger(provider, "icons")
	handler := NewFetchIconsHandler(source, cfg.Fetch, cfg.Factory, logger, opts...)

	if reg != nil {
		if err := reg.RegisterCommand(handler); err != nil {
			return nil, err
		}
	}
	return &HandlerSet{Fetch: handler}, nil
}

// RegisterFetchCron refreshes icons on the schedule described by cfg.
func RegisterFetchCron(reg CronRegistrar, handler *FetchIconsHandler, cfg command.HandlerConfig, msg FetchIconsCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
