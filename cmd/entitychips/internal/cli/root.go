package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/goliatone/go-entitychips"
	"github.com/goliatone/go-entitychips/cmd/entitychips/internal/bootstrap"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	version = v
}

type app struct {
	v       *viper.Viper
	cfgFile string
	module  *entitychips.Module
	opts    []entitychips.Option
}

// NewRootCommand assembles the entitychips command tree. opts are passed to
// every module the commands build.
func NewRootCommand(opts ...entitychips.Option) *cobra.Command {
	a := &app{v: bootstrap.NewViper(), opts: opts}

	root := &cobra.Command{
		Use:           "entitychips",
		Short:         "Render entity mentions and platform links as inline chips",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: <root>/entitychips.{yaml,toml,json})")
	flags.String("root", "", "project root holding the override file and icon assets")
	_ = a.v.BindPFlag("project_root", flags.Lookup("root"))

	root.AddCommand(
		newRenderCommand(a),
		newAnnotateCommand(a),
		newEntitiesCommand(a),
		newIconsCommand(a),
	)
	return root
}

// Execute runs the root command. An interrupt cancels the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup() error {
	cfg, err := bootstrap.LoadConfig(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	module, err := bootstrap.BuildModule(cfg, a.opts...)
	if err != nil {
		return err
	}
	a.module = module
	return nil
}
