// Package orchestrator performs a single live call to an API and turns the response
// into stats and tables ready to show to a user.
//
// Every failure, whatever its cause, comes back as a classified [Report].
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.followtheprocess.codes/apiscope/internal/jsonv"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/apiscope/internal/shape"
	"go.followtheprocess.codes/apiscope/internal/table"
	"go.followtheprocess.codes/log"
)

const (
	// DefaultTimeout is the default amount of time allowed for a whole call.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxBodySize is the default largest response body that will be read, 50 MiB.
	DefaultMaxBodySize = 50 << 20

	bytesPerKB = 1024
)

// Doer is the HTTP client used to make calls, satisfied by [http.Client].
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures an [Orchestrator].
type Config struct {
	// UserAgent is sent unless the user supplies their own
	UserAgent string

	// Timeout bounds the entire call, 0 means [DefaultTimeout]
	Timeout time.Duration

	// MaxRows is the maximum number of rows per table, 0 means [table.DefaultMaxRows]
	MaxRows int

	// MaxBodySize is the largest response body in bytes, 0 means [DefaultMaxBodySize]
	MaxBodySize int64
}

// Input is the raw, unvalidated description of a call as the user typed it.
type Input struct {
	URL     string // Target URL
	Method  string // HTTP method, empty means GET
	Headers string // JSON object text, may be empty
	Body    string // JSON text, may be empty
}

// Stats summarises a successful call.
type Stats struct {
	// Timestamp is when the call completed
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`

	// StatusCode is the HTTP status code of the response
	StatusCode int `json:"statusCode" yaml:"statusCode"`

	// Size is the size in bytes of the compact JSON encoding of the decoded body
	Size int `json:"size" yaml:"size"`

	// Records is the length of a list response, or the combined length of the
	// lists found in it
	Records int `json:"records" yaml:"records"`

	// Duration is the round trip time of the call
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// SizeKB returns the size in kilobytes to two decimal places e.g. "1.25 KB".
func (s Stats) SizeKB() string {
	return strconv.FormatFloat(float64(s.Size)/bytesPerKB, 'f', 2, 64) + " KB"
}

// Result is everything produced by a successful call.
type Result struct {
	// ID uniquely identifies the call in logs
	ID string `json:"id" yaml:"id"`

	// Request is the validated request that was sent
	Request request.Spec `json:"request" yaml:"request"`

	// Stats summarises the call
	Stats Stats `json:"stats" yaml:"stats"`

	// Body is the decoded response body
	Body jsonv.Value `json:"body" yaml:"body"`

	// Analysis is the shape of the body
	Analysis shape.Analysis `json:"analysis" yaml:"analysis"`

	// View is the rendered body
	View table.View `json:"view" yaml:"view"`
}

// Orchestrator performs calls.
type Orchestrator struct {
	client   Doer
	notifier Notifier
	logger   *log.Logger
	now      func() time.Time
	config   Config
}

// New returns a new [Orchestrator].
func New(config Config, client Doer, notifier Notifier, logger *log.Logger) *Orchestrator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}

	if config.MaxRows <= 0 {
		config.MaxRows = table.DefaultMaxRows
	}

	if config.MaxBodySize <= 0 {
		config.MaxBodySize = DefaultMaxBodySize
	}

	if notifier == nil {
		notifier = NopNotifier{}
	}

	return &Orchestrator{
		client:   client,
		notifier: notifier,
		logger:   logger.Prefixed("orchestrator"),
		now:      time.Now,
		config:   config,
	}
}

// Do performs a single call described by in.
//
// The input is validated before anything touches the network. The loading indicator
// is shown while the call is in flight and always hidden again before the outcome is
// notified, even if something panics. Any returned error is a *[Report].
func (o *Orchestrator) Do(ctx context.Context, in Input) (result Result, err error) {
	id := uuid.NewString()
	logger := o.logger.With(slog.String("call", id))

	method := strings.ToUpper(strings.TrimSpace(in.Method))
	if method == "" {
		method = string(request.MethodGet)
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			logger.Error("Recovered from panic during call", slog.Any("panic", recovered))

			result = Result{}
			err = &Report{
				Kind:    Unknown,
				Message: fmt.Sprintf("unexpected failure: %v", recovered),
				URL:     in.URL,
				Method:  method,
			}
		}

		if err != nil {
			report := Classify(err, in.URL, method)
			o.notifier.Notify(LevelError, report.Error())
			err = report
		}
	}()

	spec, err := request.New(in.URL, in.Method, in.Headers, in.Body)
	if err != nil {
		return Result{}, err
	}

	logger.Debug("Validated request", slog.Any("request", spec))

	result, err = o.callLoading(ctx, logger, spec)
	if err != nil {
		return Result{}, err
	}

	result.ID = id

	o.notifier.Notify(LevelSuccess, "API consumed successfully")

	return result, nil
}

// callLoading performs the call with the loading indicator shown, hiding it again
// before returning however the call ends.
func (o *Orchestrator) callLoading(ctx context.Context, logger *log.Logger, spec request.Spec) (Result, error) {
	o.notifier.StartLoading("Calling " + spec.URL)
	defer o.notifier.StopLoading()

	return o.call(ctx, logger, spec)
}

// call sends spec and processes the response.
func (o *Orchestrator) call(ctx context.Context, logger *log.Logger, spec request.Spec) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	req, err := o.newRequest(ctx, spec)
	if err != nil {
		return Result{}, err
	}

	start := o.now()

	res, err := o.client.Do(req)
	if err != nil {
		return Result{}, timedOut(ctx, fmt.Errorf("HTTP response error: %w", err))
	}
	defer res.Body.Close()

	logger.Debug(
		"Received HTTP response",
		slog.String("url", spec.URL),
		slog.Int("status", res.StatusCode),
		slog.String("content-type", res.Header.Get("Content-Type")),
	)

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return Result{}, &StatusError{Code: res.StatusCode, Status: statusText(res)}
	}

	// Read one byte past the limit to tell a body of exactly the limit from a bigger one
	raw, err := io.ReadAll(io.LimitReader(res.Body, o.config.MaxBodySize+1))
	if err != nil {
		return Result{}, timedOut(ctx, fmt.Errorf("could not read HTTP response body: %w", err))
	}

	if int64(len(raw)) > o.config.MaxBodySize {
		return Result{}, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, o.config.MaxBodySize)
	}

	duration := o.now().Sub(start)

	body, err := jsonv.Parse(raw)
	if err != nil {
		return Result{}, &DecodeError{Err: err}
	}

	analysis := shape.Analyze(body)
	view := table.Renderer{MaxRows: o.config.MaxRows}.Render(analysis, body)

	stats := Stats{
		StatusCode: res.StatusCode,
		Size:       len(body.Compact()),
		Records:    analysis.Records(),
		Timestamp:  o.now(),
		Duration:   duration,
	}

	logger.Debug(
		"Analysed response",
		slog.Int("records", stats.Records),
		slog.Int("lists", len(analysis.Lists)),
		slog.Bool("raw", analysis.Raw),
		slog.Duration("duration", duration),
	)

	result := Result{
		Request:  spec,
		Stats:    stats,
		Body:     body,
		Analysis: analysis,
		View:     view,
	}

	return result, nil
}

// newRequest builds the outgoing HTTP request for spec.
func (o *Orchestrator) newRequest(ctx context.Context, spec request.Spec) (*http.Request, error) {
	var body io.Reader

	payload, hasPayload := spec.Payload()
	if hasPayload {
		body = strings.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, spec.Method.String(), spec.URL, body)
	if err != nil {
		return nil, fmt.Errorf("HTTP request is invalid: %w", err)
	}

	for _, header := range spec.Headers {
		req.Header.Set(header.Key, header.Value)
	}

	if hasPayload && !spec.Headers.Has("Content-Type") {
		req.Header.Set("Content-Type", "application/json")
	}

	if o.config.UserAgent != "" && !spec.Headers.Has("User-Agent") {
		req.Header.Set("User-Agent", o.config.UserAgent)
	}

	if !spec.Headers.Has("Accept") {
		req.Header.Set("Accept", "application/json")
	}

	return req, nil
}

// timedOut wraps err with [ErrTimeout] if ctx hit its deadline.
func timedOut(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}

	return err
}

// statusText returns the reason phrase of res e.g. "Not Found".
func statusText(res *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(res.Status, strconv.Itoa(res.StatusCode)))
	if text == "" {
		text = http.StatusText(res.StatusCode)
	}

	return text
}
