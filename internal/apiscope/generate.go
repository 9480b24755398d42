package apiscope

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/codegen"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/hue"
	"golang.org/x/sync/errgroup"
)

// AllLanguages is the --language value that generates a snippet for every language.
const AllLanguages = "all"

// headingStyle is the style of the language headings when generating every language.
const headingStyle = hue.Bold | hue.Cyan

// GenerateOptions are the options passed to the generate subcommand.
type GenerateOptions struct {
	// URL is the target URL
	URL string

	// Method is the HTTP method, empty means GET
	Method string

	// Headers is a JSON object of request headers
	Headers string

	// Body is the JSON request body
	Body string

	// Language is the target language, or "all"
	Language string

	// Example is the name of a preset used to fill in the request
	Example string

	// Config is the path to the config file, empty means the default location
	Config string

	// Debug enables debug logging
	Debug bool
}

// Validate reports whether the GenerateOptions is valid, returning a non-nil
// error if it's not.
func (g GenerateOptions) Validate() error {
	if _, err := languages(g.Language); err != nil {
		return err
	}

	return nil
}

// Generate implements the generate subcommand.
func (a App) Generate(ctx context.Context, options GenerateOptions) error {
	logger := a.logger.Prefixed("generate")

	logger.Debug("Generate configuration", slog.String("options", fmt.Sprintf("%+v", options)))

	if err := options.Validate(); err != nil {
		return err
	}

	config, err := LoadConfig(options.Config)
	if err != nil {
		return err
	}

	fields, err := a.resolveRequest(ctx, logger, config, options.Example, requestFields{
		URL:     options.URL,
		Method:  options.Method,
		Headers: options.Headers,
		Body:    options.Body,
	})
	if err != nil {
		return err
	}

	spec, err := request.New(fields.URL, fields.Method, fields.Headers, fields.Body)
	if err != nil {
		return a.reportFailure(err, fields)
	}

	targets, err := languages(options.Language)
	if err != nil {
		return err
	}

	snippets := make([]codegen.Snippet, len(targets))

	group := errgroup.Group{}

	for i, language := range targets {
		group.Go(func() error {
			snippet, err := codegen.Generate(language, spec)
			if err != nil {
				return fmt.Errorf("could not generate %s snippet: %w", language, err)
			}

			snippets[i] = snippet

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return err
	}

	logger.Debug("Generated snippets", slog.Int("count", len(snippets)))

	if len(snippets) == 1 {
		fmt.Fprint(a.stdout, snippets[0].Source)
		return nil
	}

	for i, snippet := range snippets {
		if i > 0 {
			fmt.Fprintln(a.stdout)
		}

		fmt.Fprintln(a.stdout, headingStyle.Text(snippet.Language.Title()))
		fmt.Fprint(a.stdout, snippet.Source)
	}

	return nil
}

// languages returns the languages named by name, which may be "all".
func languages(name string) ([]codegen.Language, error) {
	if strings.EqualFold(strings.TrimSpace(name), AllLanguages) {
		return codegen.Languages(), nil
	}

	language, err := codegen.ParseLanguage(name)
	if err != nil {
		return nil, err
	}

	return []codegen.Language{language}, nil
}
