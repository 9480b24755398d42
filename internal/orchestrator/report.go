package orchestrator

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"

	"go.followtheprocess.codes/apiscope/internal/request"
)

var (
	// ErrTimeout is returned when a call does not complete within the configured timeout.
	ErrTimeout = errors.New("the request took too long")

	// ErrTooLarge is returned when a response body is bigger than the configured limit.
	ErrTooLarge = errors.New("response body is too large")
)

// statusMarker matches the "HTTP 404" style marker in error messages.
//
//nolint:gochecknoglobals // Compiled once
var statusMarker = regexp.MustCompile(`\bHTTP (\d{3})\b`)

// StatusError is returned when the server answers with a non 2xx status.
type StatusError struct {
	Status string // Status text e.g. "Not Found"
	Code   int    // Status code e.g. 404
}

// Error implements the error interface for [StatusError].
func (s *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", s.Code, s.Status)
}

// DecodeError is returned when a successful response body is not valid JSON.
type DecodeError struct {
	Err error // The underlying decode error
}

// Error implements the error interface for [DecodeError].
func (d *DecodeError) Error() string {
	return fmt.Sprintf("the response is not valid JSON: %v", d.Err)
}

// Unwrap returns the underlying decode error.
func (d *DecodeError) Unwrap() error {
	return d.Err
}

// Kind is the category of a failed call.
type Kind int

const (
	Unknown       Kind = iota // Anything not otherwise classified
	InvalidInput              // Missing URL or unsupported method
	InvalidJSON               // Headers, body or response were not valid JSON
	Timeout                   // The call took longer than the timeout
	NetworkOrCORS             // The server could not be reached
	HTTPStatus                // The server answered with a non 2xx status
)

// String implements [fmt.Stringer] for [Kind].
func (k Kind) String() string {
	switch k {
	case Unknown:
		return "Unknown error"
	case InvalidInput:
		return "Invalid input"
	case InvalidJSON:
		return "Invalid JSON"
	case Timeout:
		return "Timeout"
	case NetworkOrCORS:
		return "Network/CORS error"
	case HTTPStatus:
		return "HTTP error"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler] for [Kind].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Report is a classified, user presentable description of a failed call.
//
// Every error returned from [Orchestrator.Do] is a *Report.
type Report struct {
	// Err is the error that caused the failure
	Err error `json:"-" yaml:"-"`

	// Message is the human readable explanation
	Message string `json:"message" yaml:"message"`

	// URL is the target URL of the call, as the user gave it
	URL string `json:"url" yaml:"url"`

	// Method is the HTTP method of the call
	Method string `json:"method" yaml:"method"`

	// Hints are remediation suggestions, only given for network failures
	Hints []string `json:"hints,omitempty" yaml:"hints,omitempty"`

	// Kind is the category of failure
	Kind Kind `json:"kind" yaml:"kind"`

	// StatusCode is the HTTP status the server answered with, only set for HTTPStatus
	StatusCode int `json:"statusCode,omitempty" yaml:"statusCode,omitempty"`
}

// Error implements the error interface for [Report].
func (r *Report) Error() string {
	return fmt.Sprintf("%s: %s", r.Kind, r.Message)
}

// Unwrap returns the underlying error.
func (r *Report) Unwrap() error {
	return r.Err
}

// networkHints are the suggestions given when the server cannot be reached.
func networkHints() []string {
	return []string{
		"Check that the URL is correct",
		"Check the CORS policy of the server",
		"Try going through a CORS proxy",
		"Check your internet connection",
	}
}

// Classify turns any error from a call into a [Report].
//
// Classification is ordered: an existing Report is returned unchanged, then
// invalid input and JSON errors, then timeouts, then transport failures, then
// anything carrying an HTTP status, and everything else is [Unknown].
func Classify(err error, url, method string) *Report {
	if err == nil {
		return nil
	}

	var existing *Report
	if errors.As(err, &existing) {
		return existing
	}

	report := &Report{Err: err, URL: url, Method: method, Message: err.Error()}

	switch {
	case isInvalidJSON(err):
		report.Kind = InvalidJSON
	case isInvalidInput(err):
		report.Kind = InvalidInput
	case isTimeout(err):
		report.Kind = Timeout
		report.Message = "the request took too long to complete"
	case isNetwork(err):
		report.Kind = NetworkOrCORS
		report.Message = "could not connect to the API, check the URL and its CORS policy"
		report.Hints = networkHints()
	default:
		if code, ok := statusCode(err); ok {
			report.Kind = HTTPStatus
			report.StatusCode = code
		} else {
			report.Kind = Unknown
		}
	}

	return report
}

// isInvalidJSON reports whether err was caused by bad JSON from the user or the server.
func isInvalidJSON(err error) bool {
	var (
		jsonErr   *request.JSONError
		decodeErr *DecodeError
	)

	return errors.As(err, &jsonErr) || errors.As(err, &decodeErr)
}

// isInvalidInput reports whether err was caused by an incomplete or unsupported request.
func isInvalidInput(err error) bool {
	var methodErr *request.MethodError

	return errors.Is(err, request.ErrMissingURL) || errors.As(err, &methodErr)
}

// isTimeout reports whether err is a deadline being exceeded.
func isTimeout(err error) bool {
	if errors.Is(err, ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error

	return errors.As(err, &netErr) && netErr.Timeout()
}

// isNetwork reports whether err is a failure to reach the server at all.
func isNetwork(err error) bool {
	var (
		opErr        *net.OpError
		dnsErr       *net.DNSError
		certErr      *tls.CertificateVerificationError
		authorityErr x509.UnknownAuthorityError
		hostnameErr  x509.HostnameError
	)

	switch {
	case errors.As(err, &opErr), errors.As(err, &dnsErr), errors.As(err, &certErr):
		return true
	case errors.As(err, &authorityErr), errors.As(err, &hostnameErr):
		return true
	default:
		return errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF)
	}
}

// statusCode extracts the HTTP status from err, either from a [StatusError] or
// an "HTTP 404" style marker in its message.
func statusCode(err error) (int, bool) {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code, true
	}

	match := statusMarker.FindStringSubmatch(err.Error())
	if match == nil {
		return 0, false
	}

	code, convErr := strconv.Atoi(match[1])
	if convErr != nil {
		return 0, false
	}

	return code, true
}
