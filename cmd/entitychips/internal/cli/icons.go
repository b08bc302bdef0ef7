package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	iconscmd "github.com/goliatone/go-entitychips/internal/commands/icons"
	"github.com/goliatone/go-entitychips/internal/icons/fetch"
	"github.com/goliatone/go-entitychips/internal/logging"
)

// summaryRunner reports the counts of every completed run.
type summaryRunner struct {
	inner iconscmd.Runner
	out   io.Writer
}

func (r *summaryRunner) Run(ctx context.Context, targets []fetch.Target) (fetch.Summary, error) {
	s, err := r.inner.Run(ctx, targets)
	if err == nil {
		fmt.Fprintf(r.out, "downloaded %d, skipped %d, failed %d\n", s.Downloaded, s.Skipped, s.Failed)
	}
	return s, err
}

func newIconsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "icons",
		Short: "Manage local entity icon assets",
	}
	cmd.AddCommand(newIconsFetchCommand(a))
	return cmd
}

func newIconsFetchCommand(a *app) *cobra.Command {
	var msg iconscmd.FetchIconsCommand
	var every time.Duration

	cmd := &cobra.Command{
		Use:   "fetch [slug...]",
		Short: "Download favicons for registry entities",
		RunE: func(cmd *cobra.Command, args []string) error {
			base := iconscmd.DefaultRunnerFactory(logging.IconsLogger(a.module.LoggerProvider()))
			factory := func(cfg fetch.Config) iconscmd.Runner {
				return &summaryRunner{inner: base(cfg), out: cmd.OutOrStdout()}
			}

			set, err := iconscmd.RegisterIconCommands(nil, a.module.Registry(), a.module.LoggerProvider(), iconscmd.Config{
				Fetch:   a.module.IconFetchConfig(),
				Factory: factory,
			})
			if err != nil {
				return err
			}

			msg.Slugs = args
			if every > 0 {
				s := &scheduler{errs: cmd.ErrOrStderr()}
				if err := iconscmd.RegisterFetchCron(s.Register, set.Fetch, everyExpression(every), msg); err != nil {
					return err
				}
				s.Run(cmd.Context())
				return nil
			}
			return set.Fetch.Execute(cmd.Context(), msg)
		},
	}

	flags := cmd.Flags()
	flags.BoolVar(&msg.Force, "force", false, "re-download icons that already exist")
	flags.BoolVar(&msg.DryRun, "dry-run", false, "report what would be fetched without writing")
	flags.BoolVar(&msg.Strict, "strict", false, "exit with an error when any icon fails")
	flags.DurationVar(&every, "every", 0, "refresh icons on this interval until interrupted")
	return cmd
}
