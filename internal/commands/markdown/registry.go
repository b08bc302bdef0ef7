package markdowncmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-entitychips/internal/commands"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CronRegistrar matches the function signature used by go-command registries.
type CronRegistrar func(command.HandlerConfig, any) error

// Config describes where documents are read from and written to.
type Config struct {
	BasePath string
	Output   Output
}

// HandlerSet groups the handlers produced by RegisterMarkdownCommands.
type HandlerSet struct {
	Render *RenderDocumentsHandler
}

// RegisterMarkdownCommands builds the render handler and registers it with
// reg when reg is non-nil.
func RegisterMarkdownCommands(reg CommandRegistry, service interfaces.MarkdownService, provider interfaces.LoggerProvider, cfg Config, opts ...commands.HandlerOption[RenderDocumentsCommand]) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("markdown command registration: service is nil")
	}

	logger := commands.CommandLogger(provider, "markdown")
	render := NewRenderDocumentsHandler(service, cfg.BasePath, cfg.Output, logger, opts...)

	if reg != nil {
		if err := reg.RegisterCommand(render); err != nil {
			return nil, err
		}
	}
	return &HandlerSet{Render: render}, nil
}

// RegisterRenderCron schedules msg for periodic rebuilds through reg.
func RegisterRenderCron(reg CronRegistrar, handler *RenderDocumentsHandler, cfg command.HandlerConfig, msg RenderDocumentsCommand) error {
	if reg == nil || handler == nil {
		return nil
	}
	return reg(cfg, func() error {
		return handler.Execute(context.Background(), msg)
	})
}
