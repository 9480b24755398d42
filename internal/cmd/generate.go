package cmd

import (
	"context"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
)

const generateLong = `
Generate renders a ready to copy snippet that performs the request in one of
several languages: fetch, axios, python or curl. Pass '--language all' to get
every one of them.

Headers are given as a JSON object and the body as any JSON value. The body is
only ever included for POST, PUT and PATCH requests.

If no URL is given and apiscope is run interactively, a form asks for the request.
`

// generate returns the generate subcommand.
func generate() (*cli.Command, error) {
	var options apiscope.GenerateOptions

	return cli.New(
		"generate",
		cli.Short("Generate client code for an API request"),
		cli.Long(generateLong),
		cli.Arg(&options.URL, "url", urlUsage, cli.ArgDefault(noURL)),
		cli.Flag(&options.Method, "method", 'm', "The HTTP method, GET if not set"),
		cli.Flag(&options.Headers, "headers", 'H', "Request headers as a JSON object"),
		cli.Flag(&options.Body, "body", 'b', "Request body as JSON"),
		cli.Flag(
			&options.Language,
			"language",
			'l',
			"Language to generate: fetch, axios, python, curl or all",
			cli.FlagDefault("fetch"),
		),
		cli.Flag(&options.Example, "example", 'e', "Fill the request from a named example"),
		cli.Flag(&options.Config, "config", flag.NoShortHand, "Path to the config file"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			options.URL = argURL(options.URL)
			app := apiscope.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Generate(ctx, options)
		}),
	)
}
