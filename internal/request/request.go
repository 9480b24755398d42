// Package request provides the canonical description of an outbound HTTP call, the
// [Spec], built from the raw text a user supplies for the URL, method, headers and body.
//
// Both the code generator and the live call share this parsing step so they reject
// exactly the same inputs.
package request

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
)

// ErrMissingURL is returned when a request is built without a target URL.
var ErrMissingURL = errors.New("a target URL is required")

// JSONError is returned when user supplied header or body text is not valid JSON.
type JSONError struct {
	Err   error  // The underlying decode error
	Field string // "headers" or "body"
}

// Error implements the error interface for [JSONError].
func (j *JSONError) Error() string {
	return fmt.Sprintf("invalid JSON in %s: %v", j.Field, j.Err)
}

// Unwrap returns the underlying decode error.
func (j *JSONError) Unwrap() error {
	return j.Err
}

// MethodError is returned when a request uses an unsupported HTTP method.
type MethodError struct {
	Method string // The method as given
}

// Error implements the error interface for [MethodError].
func (m *MethodError) Error() string {
	return fmt.Sprintf("unsupported HTTP method %q, allowed values are GET, POST, PUT, PATCH, DELETE", m.Method)
}

// Spec is a single validated HTTP request.
//
// A Spec is immutable once built by [New].
type Spec struct {
	// The complete target URL, only validated for presence
	URL string `json:"url" yaml:"url"`

	// The HTTP method
	Method Method `json:"method" yaml:"method"`

	// Request headers in the order the user wrote them
	Headers Headers `json:"headers,omitempty" yaml:"headers,omitempty"`

	// Request body, undefined if the user supplied none
	Body jsonv.Value `json:"body,omitzero" yaml:"body,omitempty"`
}

// New builds a [Spec] from raw user input.
//
// The URL must be present, the method one of the supported [Method]s. Header and body
// text are optional but when given, must be valid JSON, and headers must be a JSON object.
// Any failure is reported before anything else happens, a partial Spec is never returned.
func New(url, method, headers, body string) (Spec, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return Spec{}, ErrMissingURL
	}

	m, err := ParseMethod(method)
	if err != nil {
		return Spec{}, err
	}

	parsedHeaders, err := ParseHeaders(headers)
	if err != nil {
		return Spec{}, err
	}

	parsedBody, err := ParseBody(body)
	if err != nil {
		return Spec{}, err
	}

	spec := Spec{
		URL:     url,
		Method:  m,
		Headers: parsedHeaders,
		Body:    parsedBody,
	}

	return spec, nil
}

// ParseBody parses user supplied body text, which may be any JSON value.
//
// Empty (or whitespace only) text is not an error, it means there is no body.
func ParseBody(text string) (jsonv.Value, error) {
	if strings.TrimSpace(text) == "" {
		return jsonv.Value{}, nil
	}

	body, err := jsonv.ParseString(text)
	if err != nil {
		return jsonv.Value{}, &JSONError{Field: "body", Err: err}
	}

	return body, nil
}

// HasBody reports whether the body should be embedded in the request, that is
// the method carries a body and the body itself is not empty.
func (s Spec) HasBody() bool {
	return s.Method.CarriesBody() && !s.Body.IsEmpty()
}

// HasHeaders reports whether any headers were given.
func (s Spec) HasHeaders() bool {
	return len(s.Headers) > 0
}

// Payload returns the compact JSON body to send on the wire, and whether there
// is one to send.
//
// Unlike [Spec.HasBody], any supplied body is sent as long as the method carries one,
// even an empty object.
func (s Spec) Payload() (string, bool) {
	if !s.Method.CarriesBody() || !s.Body.Exists() {
		return "", false
	}

	return s.Body.Compact(), true
}

// String implements [fmt.Stringer] for a [Spec] and formats it the way it
// would appear as a raw HTTP request.
func (s Spec) String() string {
	builder := &strings.Builder{}

	fmt.Fprintf(builder, "%s %s\n", s.Method, s.URL)

	for _, header := range s.Headers {
		fmt.Fprintf(builder, "%s: %s\n", header.Key, header.Value)
	}

	if payload, ok := s.Payload(); ok {
		fmt.Fprintf(builder, "\n%s\n", payload)
	}

	return builder.String()
}

// LogValue implements [slog.LogValuer] for a [Spec].
func (s Spec) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("method", string(s.Method)),
		slog.String("url", s.URL),
		slog.Int("headers", len(s.Headers)),
		slog.Bool("body", s.HasBody()),
	)
}

// Method is a supported HTTP method.
type Method string

// Supported methods.
const (
	MethodGet    Method = http.MethodGet
	MethodPost   Method = http.MethodPost
	MethodPut    Method = http.MethodPut
	MethodPatch  Method = http.MethodPatch
	MethodDelete Method = http.MethodDelete
)

// Methods returns all the supported methods.
func Methods() []Method {
	return []Method{MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete}
}

// ParseMethod parses a method name, case insensitively. An empty name means GET.
func ParseMethod(name string) (Method, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return MethodGet, nil
	}

	for _, method := range Methods() {
		if string(method) == name {
			return method, nil
		}
	}

	return "", &MethodError{Method: name}
}

// CarriesBody reports whether requests with this method may have a body.
func (m Method) CarriesBody() bool {
	switch m {
	case MethodPost, MethodPut, MethodPatch:
		return true
	default:
		return false
	}
}

// String implements [fmt.Stringer] for [Method].
func (m Method) String() string {
	return string(m)
}
