package apiscope

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.followtheprocess.codes/apiscope/internal/codegen"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/apiscope/internal/table"
	"go.followtheprocess.codes/msg"
)

// LearnOptions are the options passed to the learn subcommand.
type LearnOptions struct {
	// URL is the target URL
	URL string

	// Method is the HTTP method, empty means GET
	Method string

	// Headers is a JSON object of request headers
	Headers string

	// Body is the JSON request body
	Body string

	// Language is the language the tutorial is written for
	Language string

	// Example is the name of a preset used to fill in the request
	Example string

	// Config is the path to the config file, empty means the default location
	Config string

	// Timeout bounds the call made by --table, 0 means the configured value
	Timeout time.Duration

	// Table fetches the URL and prints a snippet building an HTML table from the response
	Table bool

	// Debug enables debug logging
	Debug bool
}

// Validate reports whether the LearnOptions is valid, returning a non-nil
// error if it's not.
func (l LearnOptions) Validate() error {
	if _, err := codegen.ParseLanguage(l.Language); err != nil {
		return err
	}

	if l.Timeout < 0 {
		return fmt.Errorf("timeout cannot be negative, got %s", l.Timeout)
	}

	return nil
}

// Learn implements the learn subcommand.
func (a App) Learn(ctx context.Context, options LearnOptions) error {
	logger := a.logger.Prefixed("learn")

	logger.Debug("Learn configuration", slog.String("options", fmt.Sprintf("%+v", options)))

	if err := options.Validate(); err != nil {
		return err
	}

	language, err := codegen.ParseLanguage(options.Language)
	if err != nil {
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

	tutorial, err := codegen.Tutorial(language, spec)
	if err != nil {
		return err
	}

	fmt.Fprint(a.stdout, tutorial)

	if !options.Table {
		return nil
	}

	settings, err := config.Resolve(options.Timeout, 0, 0)
	if err != nil {
		return err
	}

	result, err := a.call(ctx, logger, settings, fields)
	if err != nil {
		return a.reportFailure(err, fields)
	}

	records := codegen.TableRecords(result.Body)
	if len(records) == 0 {
		msg.Fwarn(a.stderr, "The response has no records to build a table from")
		return nil
	}

	columns := table.Columns(records[0])

	logger.Debug("Building table snippet", slog.Int("records", len(records)), slog.Any("columns", columns))

	snippet, err := codegen.TableSnippet(spec.URL, columns)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout)
	fmt.Fprint(a.stdout, snippet)

	return nil
}
