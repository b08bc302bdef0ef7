package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entitychips"
)

func newAnnotateCommand(a *app) *cobra.Command {
	var asMarkdown bool

	cmd := &cobra.Command{
		Use:   "annotate [text]",
		Short: "Annotate text from the arguments or stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if len(args) == 0 {
				raw, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				text = string(raw)
			}

			if asMarkdown {
				html, err := a.module.Parser(entitychips.ParseOptions{}).Parse([]byte(text))
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(html)
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), a.module.RenderHTML(strings.TrimRight(text, "\n")))
			return err
		},
	}
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "treat the input as Markdown")
	return cmd
}
