package cmd

import (
	"context"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
)

const learnLong = `
Learn walks through consuming the API step by step in the chosen language,
ending with a complete example.

With '--table' the API is also called and a JavaScript snippet is printed that
builds an HTML table from the response, with one column per field of the first
record.
`

// learn returns the learn subcommand.
func learn() (*cli.Command, error) {
	var options apiscope.LearnOptions

	return cli.New(
		"learn",
		cli.Short("Learn how to consume an API"),
		cli.Long(learnLong),
		cli.Arg(&options.URL, "url", urlUsage, cli.ArgDefault(noURL)),
		cli.Flag(&options.Method, "method", 'm', "The HTTP method, GET if not set"),
		cli.Flag(&options.Headers, "headers", 'H', "Request headers as a JSON object"),
		cli.Flag(&options.Body, "body", 'b', "Request body as JSON"),
		cli.Flag(&options.Language, "language", 'l', "Language to learn: fetch, axios, python or curl", cli.FlagDefault("fetch")),
		cli.Flag(&options.Example, "example", 'e', "Fill the request from a named example"),
		cli.Flag(&options.Table, "table", flag.NoShortHand, "Call the API and print a table building snippet"),
		cli.Flag(&options.Timeout, "timeout", flag.NoShortHand, "Timeout for the call made by --table"),
		cli.Flag(&options.Config, "config", flag.NoShortHand, "Path to the config file"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			options.URL = argURL(options.URL)
			app := apiscope.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Learn(ctx, options)
		}),
	)
}
