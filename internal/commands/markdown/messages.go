package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const renderDocumentsMessageType = "entitychips.markdown.render_documents"

// RenderDocumentsCommand renders a Markdown file, or every Markdown file in a
// directory, with entity chips applied.
type RenderDocumentsCommand struct {
	// Path is a file or directory relative to the service base path.
	Path string `json:"path"`
	// Pattern overrides the loader's file globs for directory renders.
	Pattern string `json:"pattern,omitempty"`
	// Recursive overrides the loader's recursion default when set.
	Recursive *bool `json:"recursive,omitempty"`
	// Sanitize runs the output through the allow-list policy.
	Sanitize bool `json:"sanitize,omitempty"`
	// AutoDetectURLs and TransformMarkdownLinks override the chip toggles for
	// every rendered document.
	AutoDetectURLs         *bool `json:"auto_detect_urls,omitempty"`
	TransformMarkdownLinks *bool `json:"transform_markdown_links,omitempty"`
}

// Type implements command.Message.
func (RenderDocumentsCommand) Type() string { return renderDocumentsMessageType }

// Validate ensures a path is present before handlers execute.
func (cmd RenderDocumentsCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Path, validation.Required, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("entitychips.markdown.render_documents.path_required", "path is required")
			}
			return nil
		})),
	)
}
