// Package apiscope implements the functionality of the program, the CLI in package cmd is simply the
// entrypoint to exported functions and methods in this package.
package apiscope

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	"go.followtheprocess.codes/apiscope/internal/present"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/log"
)

// ErrCallFailed is returned when a live call fails, the details have already been
// shown to the user by the time it is returned.
var ErrCallFailed = errors.New("call failed")

// App represents the apiscope program.
type App struct {
	stdin   io.Reader   // Interactive input is read from here
	stdout  io.Writer   // Normal program output is written here
	stderr  io.Writer   // Logs, notifications and errors are written here
	logger  *log.Logger // The logger for the application
	version string      // The app version
}

// New returns a new [App].
func New(debug bool, version string, stdin io.Reader, stdout, stderr io.Writer) App {
	level := log.LevelInfo
	if debug {
		level = log.LevelDebug
	}

	logger := log.New(stderr, log.Prefix("apiscope"), log.WithLevel(level))

	return App{
		stdin:   stdin,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logger,
		version: version,
	}
}

// userAgent returns the User-Agent sent with live calls.
func (a App) userAgent() string {
	return "go.followtheprocess.codes/apiscope " + a.version
}

// interactive reports whether the app can prompt the user, which requires stdin
// to be a terminal.
func (a App) interactive() bool {
	return isTerminal(a.stdin)
}

// requestFields is the raw request as typed by the user, before any validation.
type requestFields struct {
	URL     string
	Method  string
	Headers string
	Body    string
}

// resolveRequest fills in fields from the named example (if any) and, if there is still
// no URL and the user is at a terminal, from the interactive request form.
//
// Fields given explicitly always win over the example.
func (a App) resolveRequest(ctx context.Context, logger *log.Logger, config Config, example string, fields requestFields) (requestFields, error) {
	if example != "" {
		preset, err := config.Preset(example)
		if err != nil {
			return requestFields{}, err
		}

		logger.Debug("Using example", slog.String("example", preset.Name), slog.String("url", preset.URL))

		fields = preset.fill(fields)
	}

	if fields.URL == "" && a.interactive() {
		logger.Debug("No URL given, showing request form")

		if err := a.requestForm(ctx, &fields); err != nil {
			return requestFields{}, fmt.Errorf("could not read request from form: %w", err)
		}
	}

	return fields, nil
}

// reportFailure shows a failed call or an invalid request to the user, returning
// the error to hand back to the CLI.
func (a App) reportFailure(err error, fields requestFields) error {
	var report *orchestrator.Report
	if !errors.As(err, &report) {
		report = orchestrator.Classify(err, fields.URL, methodOrDefault(fields.Method))
	}

	present.WriteReport(a.stderr, report)

	return fmt.Errorf("%w: %s", ErrCallFailed, report.Kind)
}

// methodOrDefault returns method or GET if it's empty.
func methodOrDefault(method string) string {
	if method == "" {
		return string(request.MethodGet)
	}

	return method
}
