package apiscope

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	"go.followtheprocess.codes/apiscope/internal/present"
	"go.followtheprocess.codes/log"
	"go.followtheprocess.codes/msg"
	"golang.org/x/term"
)

// FetchOptions are the options passed to the fetch subcommand.
type FetchOptions struct {
	// URL is the target URL
	URL string

	// Method is the HTTP method, empty means GET
	Method string

	// Headers is a JSON object of request headers
	Headers string

	// Body is the JSON request body
	Body string

	// Example is the name of a preset used to fill in the request
	Example string

	// Format is the output format: table, json, yaml or html
	Format string

	// HTML is the name of a file to also write the result to as an HTML page
	HTML string

	// Config is the path to the config file, empty means the default location
	Config string

	// Tab is the 1 based index of the table to show, 0 means the first
	Tab int

	// MaxRows is the maximum number of rows per table, 0 means the configured value
	MaxRows int

	// Timeout bounds the entire call, 0 means the configured value
	Timeout time.Duration

	// ConnectionTimeout bounds connection setup, 0 means the configured value
	ConnectionTimeout time.Duration

	// All shows every table rather than just one
	All bool

	// Pick asks which table to show interactively
	Pick bool

	// Debug enables debug logging
	Debug bool
}

// Validate reports whether the FetchOptions is valid, returning a non-nil
// error if it's not.
func (f FetchOptions) Validate() error {
	if _, err := present.ParseFormat(f.Format); err != nil {
		return err
	}

	switch {
	case f.Tab < 0:
		return fmt.Errorf("tab cannot be negative, got %d", f.Tab)
	case f.MaxRows < 0:
		return fmt.Errorf("max-rows cannot be negative, got %d", f.MaxRows)
	case f.Timeout < 0:
		return fmt.Errorf("timeout cannot be negative, got %s", f.Timeout)
	case f.ConnectionTimeout < 0:
		return fmt.Errorf("connection-timeout cannot be negative, got %s", f.ConnectionTimeout)
	case f.All && f.Tab != 0:
		return errors.New("--all and --tab cannot be used together")
	case f.All && f.Pick:
		return errors.New("--all and --pick cannot be used together")
	case f.Pick && f.Tab != 0:
		return errors.New("--pick and --tab cannot be used together")
	default:
		return nil
	}
}

// Fetch implements the fetch subcommand.
func (a App) Fetch(ctx context.Context, options FetchOptions) error {
	logger := a.logger.Prefixed("fetch")

	logger.Debug("Fetch configuration", slog.String("options", fmt.Sprintf("%+v", options)))

	if err := options.Validate(); err != nil {
		return err
	}

	format, err := present.ParseFormat(options.Format)
	if err != nil {
		return err
	}

	config, err := LoadConfig(options.Config)
	if err != nil {
		return err
	}

	settings, err := config.Resolve(options.Timeout, options.ConnectionTimeout, options.MaxRows)
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

	result, err := a.call(ctx, logger, settings, fields)
	if err != nil {
		return a.reportFailure(err, fields)
	}

	switch {
	case options.Tab > 0:
		if err := result.View.Select(options.Tab - 1); err != nil {
			return fmt.Errorf("invalid --tab: %w", err)
		}
	case options.Pick && result.View.Tabbed() && a.interactive():
		if err := a.pickTable(ctx, &result.View); err != nil {
			return fmt.Errorf("could not pick a table: %w", err)
		}
	}

	exporter, err := present.For(format, options.All)
	if err != nil {
		return err
	}

	if err := exporter.Export(a.stdout, result); err != nil {
		return err
	}

	if options.HTML != "" {
		if err := writeHTML(options.HTML, result); err != nil {
			return err
		}

		logger.Debug("Wrote HTML page", slog.String("path", options.HTML))
		msg.Fsuccess(a.stderr, "Wrote HTML page to %s", options.HTML)
	}

	return nil
}

// call performs a single live call with the given settings.
func (a App) call(ctx context.Context, logger *log.Logger, settings Settings, fields requestFields) (orchestrator.Result, error) {
	logger.Debug(
		"Calling API",
		slog.String("url", fields.URL),
		slog.String("method", methodOrDefault(fields.Method)),
		slog.Duration("timeout", settings.Timeout),
		slog.Int("max-rows", settings.MaxRows),
	)

	client := NewHTTPClient(settings.ConnectionTimeout, settings.Timeout)
	defer client.CloseIdleConnections()

	orch := orchestrator.New(
		orchestrator.Config{
			UserAgent: a.userAgent(),
			Timeout:   settings.Timeout,
			MaxRows:   settings.MaxRows,
		},
		&client,
		newNotifier(a.stderr, isTerminal(a.stderr), a.logger),
		a.logger,
	)

	return orch.Do(ctx, orchestrator.Input{
		URL:     fields.URL,
		Method:  fields.Method,
		Headers: fields.Headers,
		Body:    fields.Body,
	})
}

// writeHTML writes result as a standalone HTML page to path.
func writeHTML(path string, result orchestrator.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create HTML file: %w", err)
	}
	defer file.Close()

	if err := (present.HTMLExporter{}).Export(file, result); err != nil {
		return err
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("could not write HTML file: %w", err)
	}

	return nil
}

// isTerminal reports whether v is a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd()))
}
