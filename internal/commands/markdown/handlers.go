package markdowncmd

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-entitychips/internal/commands"
	"github.com/goliatone/go-entitychips/internal/logging"
	"github.com/goliatone/go-entitychips/pkg/interfaces"
)

const (
	renderOperation = "markdown.render_documents"

	TextCodeNotFound = "MARKDOWN_PATH_NOT_FOUND"
	TextCodeOutput   = "MARKDOWN_OUTPUT_FAILED"
)

var _ command.Commander[RenderDocumentsCommand] = (*RenderDocumentsHandler)(nil)

// Output receives every rendered document.
type Output interface {
	Write(doc *interfaces.Document) error
}

// DirectoryOutput mirrors the source tree under Dir, swapping the Markdown
// extension for .html.
type DirectoryOutput struct {
	Dir string
}

func (o DirectoryOutput) Write(doc *interfaces.Document) error {
	rel := strings.TrimSuffix(filepath.FromSlash(doc.FilePath), filepath.Ext(doc.FilePath)) + ".html"
	target := filepath.Join(o.Dir, rel)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	return os.WriteFile(target, doc.BodyHTML, 0o644)
}

// StreamOutput writes every document's HTML to W, one after the other.
type StreamOutput struct {
	W io.Writer
}

func (o StreamOutput) Write(doc *interfaces.Document) error {
	_, err := o.W.Write(doc.BodyHTML)
	return err
}

// RenderDocumentsHandler renders documents through the Markdown service.
type RenderDocumentsHandler struct {
	inner *commands.Handler[RenderDocumentsCommand]
}

// NewRenderDocumentsHandler binds a handler to service. basePath resolves
// command paths to decide between a file and a directory render.
func NewRenderDocumentsHandler(service interfaces.MarkdownService, basePath string, output Output, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDocumentsCommand]) *RenderDocumentsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg RenderDocumentsCommand) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		info, err := os.Stat(filepath.Join(basePath, msg.Path))
		if err != nil {
			category := goerrors.CategoryBadInput
			if errors.Is(err, os.ErrNotExist) {
				category = goerrors.CategoryNotFound
			}
			return goerrors.Wrap(err, category, "render path").
				WithTextCode(TextCodeNotFound).
				WithMetadata(map[string]any{"path": msg.Path})
		}

		loadOpts := interfaces.LoadOptions{
			Recursive: msg.Recursive,
			Pattern:   msg.Pattern,
			Parser:    parseOptions(msg),
		}

		var docs []*interfaces.Document
		if info.IsDir() {
			docs, err = service.LoadDirectory(ctx, msg.Path, loadOpts)
		} else {
			var doc *interfaces.Document
			doc, err = service.Load(ctx, msg.Path, loadOpts)
			docs = []*interfaces.Document{doc}
		}
		if err != nil {
			return err
		}

		for _, doc := range docs {
			if doc == nil || output == nil {
				continue
			}
			if err := output.Write(doc); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "write rendered document").
					WithTextCode(TextCodeOutput).
					WithMetadata(map[string]any{"path": doc.FilePath})
			}
		}

		logging.WithFields(baseLogger, map[string]any{
			"path":      msg.Path,
			"documents": len(docs),
		}).Info("markdown.command.render_documents.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDocumentsCommand]{
		commands.WithLogger[RenderDocumentsCommand](baseLogger),
		commands.WithOperation[RenderDocumentsCommand](renderOperation),
		commands.WithMessageFields(func(msg RenderDocumentsCommand) map[string]any {
			fields := map[string]any{"path": msg.Path}
			if msg.Pattern != "" {
				fields["pattern"] = msg.Pattern
			}
			if msg.Sanitize {
				fields["sanitize"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDocumentsCommand](nil)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDocumentsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderDocumentsCommand].
func (h *RenderDocumentsHandler) Execute(ctx context.Context, msg RenderDocumentsCommand) error {
	return h.inner.Execute(ctx, msg)
}

func parseOptions(msg RenderDocumentsCommand) interfaces.ParseOptions {
	opts := interfaces.ParseOptions{Sanitize: msg.Sanitize}
	if msg.AutoDetectURLs != nil || msg.TransformMarkdownLinks != nil {
		opts.Chips = &interfaces.ChipOptions{
			AutoDetectURLs:         msg.AutoDetectURLs,
			TransformMarkdownLinks: msg.TransformMarkdownLinks,
		}
	}
	return opts
}
