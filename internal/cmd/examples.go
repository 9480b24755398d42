package cmd

import (
	"context"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
)

// examples returns the examples subcommand.
func examples() (*cli.Command, error) {
	var options apiscope.ExamplesOptions

	return cli.New(
		"examples",
		cli.Short("List the examples usable with --example"),
		cli.Flag(&options.Config, "config", flag.NoShortHand, "Path to the config file"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			app := apiscope.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Examples(ctx, options)
		}),
	)
}
