// Package cmd implements apiscope's CLI.
package cmd

import (
	"go.followtheprocess.codes/cli"
)

// noURL stands in for a URL left off the command line. An empty default would
// make the url argument required.
const noURL = "-"

const urlUsage = "The URL to call, left off to use --example or fill in a form"

var (
	version = "dev"
	commit  = ""
	date    = ""
)

// Build builds and returns the apiscope CLI.
func Build() (*cli.Command, error) {
	return cli.New(
		"apiscope",
		cli.Short("Explore JSON APIs from the command line"),
		cli.Version(version),
		cli.Commit(commit),
		cli.BuildDate(date),
		cli.Example("Generate a fetch snippet for an API", "apiscope generate https://jsonplaceholder.typicode.com/users"),
		cli.Example(
			"Generate a snippet in every language for a POST request",
			`apiscope generate https://api.example.com/users --method POST --body '{"name": "Leanne"}' --language all`,
		),
		cli.Example("Call an API and explore the response as tables", "apiscope fetch https://jsonplaceholder.typicode.com/users"),
		cli.Example("Call a built in example and save an HTML page", "apiscope fetch --example restcountries --html countries.html"),
		cli.Example("Learn how to consume an API in Python", "apiscope learn https://jsonplaceholder.typicode.com/users --language python"),
		cli.Example("List the built in examples", "apiscope examples"),
		cli.SubCommands(generate, fetch, learn, examples),
	)
}

// argURL maps the url argument back to the URL the app should use, "" when
// none was given.
func argURL(raw string) string {
	if raw == noURL {
		return ""
	}

	return raw
}
