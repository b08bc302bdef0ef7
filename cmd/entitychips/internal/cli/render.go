package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-entitychips"
	markdowncmd "github.com/goliatone/go-entitychips/internal/commands/markdown"
)

type renderFlags struct {
	out        string
	pattern    string
	sanitize   bool
	safe       bool
	flat       bool
	autoDetect bool
	transform  bool
	every      time.Duration
}

func newRenderCommand(a *app) *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render <path>",
		Short: "Render a Markdown file or directory to HTML",
		Long: `Render Markdown with entity chips applied. <path> is relative to the
project root. Without --out the HTML is written to stdout. With --every the
render repeats on that interval until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.module.Markdown("", entitychips.ParseOptions{SafeMode: f.safe})
			if err != nil {
				return err
			}

			var output markdowncmd.Output = markdowncmd.StreamOutput{W: cmd.OutOrStdout()}
			if f.out != "" {
				output = markdowncmd.DirectoryOutput{Dir: f.out}
			}

			set, err := markdowncmd.RegisterMarkdownCommands(nil, svc, a.module.LoggerProvider(), markdowncmd.Config{
				BasePath: a.module.Config().ProjectRoot,
				Output:   output,
			})
			if err != nil {
				return err
			}

			msg := markdowncmd.RenderDocumentsCommand{
				Path:     args[0],
				Pattern:  f.pattern,
				Sanitize: f.sanitize,
			}
			if cmd.Flags().Changed("flat") {
				recursive := !f.flat
				msg.Recursive = &recursive
			}
			if cmd.Flags().Changed("auto-detect-urls") {
				msg.AutoDetectURLs = &f.autoDetect
			}
			if cmd.Flags().Changed("transform-links") {
				msg.TransformMarkdownLinks = &f.transform
			}
			if f.every > 0 {
				s := &scheduler{errs: cmd.ErrOrStderr()}
				if err := markdowncmd.RegisterRenderCron(s.Register, set.Render, everyExpression(f.every), msg); err != nil {
					return err
				}
				s.Run(cmd.Context())
				return nil
			}
			return set.Render.Execute(cmd.Context(), msg)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.out, "out", "o", "", "directory to write .html files into")
	flags.StringVar(&f.pattern, "pattern", "", "comma separated file globs for directory renders")
	flags.BoolVar(&f.sanitize, "sanitize", false, "run output through the allow-list sanitizer")
	flags.BoolVar(&f.safe, "safe", false, "drop raw HTML written in the Markdown source")
	flags.BoolVar(&f.flat, "flat", false, "do not descend into subdirectories")
	flags.BoolVar(&f.autoDetect, "auto-detect-urls", true, "turn bare platform URLs into chips")
	flags.BoolVar(&f.transform, "transform-links", false, "turn plain Markdown links into link chips")
	flags.DurationVar(&f.every, "every", 0, "re-render on this interval until interrupted")
	return cmd
}
