package cmd

import (
	"context"

	"go.followtheprocess.codes/apiscope/internal/apiscope"
	"go.followtheprocess.codes/cli"
	"go.followtheprocess.codes/cli/flag"
)

const fetchLong = `
Fetch calls the API and shows the JSON response. Lists in the response are
shown as tables, one per list, with images, links and nested JSON called out.
Responses without any lists are shown as indented JSON.

The '--timeout', '--connection-timeout' and '--max-rows' flags override the
values in the config file which otherwise default to 30s, 10s and 100.

When the response has more than one list, '--tab' picks which table to show,
'--pick' asks interactively and '--all' shows them all.

The result may also be written as JSON or YAML with '--format', or saved as a
standalone HTML page with '--html'.
`

// fetch returns the fetch subcommand.
func fetch() (*cli.Command, error) {
	var options apiscope.FetchOptions

	return cli.New(
		"fetch",
		cli.Short("Call an API and explore the response"),
		cli.Long(fetchLong),
		cli.Arg(&options.URL, "url", urlUsage, cli.ArgDefault(noURL)),
		cli.Flag(&options.Method, "method", 'm', "The HTTP method, GET if not set"),
		cli.Flag(&options.Headers, "headers", 'H', "Request headers as a JSON object"),
		cli.Flag(&options.Body, "body", 'b', "Request body as JSON"),
		cli.Flag(&options.Example, "example", 'e', "Fill the request from a named example"),
		cli.Flag(&options.Format, "format", 'f', "Output format: table, json, yaml or html", cli.FlagDefault("table")),
		cli.Flag(&options.HTML, "html", flag.NoShortHand, "Also save the result as an HTML page to this file"),
		cli.Flag(&options.Tab, "tab", 't', "Number of the table to show, starting at 1"),
		cli.Flag(&options.All, "all", 'a', "Show every table"),
		cli.Flag(&options.Pick, "pick", 'p', "Choose the table to show interactively"),
		cli.Flag(&options.MaxRows, "max-rows", flag.NoShortHand, "Maximum number of rows per table"),
		cli.Flag(&options.Timeout, "timeout", flag.NoShortHand, "Timeout for the call"),
		cli.Flag(&options.ConnectionTimeout, "connection-timeout", flag.NoShortHand, "Connection timeout for the call"),
		cli.Flag(&options.Config, "config", flag.NoShortHand, "Path to the config file"),
		cli.Flag(&options.Debug, "debug", 'd', "Enable debug logging"),
		cli.Run(func(ctx context.Context, cmd *cli.Command) error {
			options.URL = argURL(options.URL)
			app := apiscope.New(options.Debug, version, cmd.Stdin(), cmd.Stdout(), cmd.Stderr())
			return app.Fetch(ctx, options)
		}),
	)
}
