package request

import (
	"fmt"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
)

// Header is a single HTTP header.
type Header struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Headers is an ordered set of HTTP headers.
//
// Order is significant, it's the order in which the user wrote them and the order
// in which they appear in generated code.
type Headers []Header

// ParseHeaders parses user supplied header text, which must be a JSON object.
//
// Empty (or whitespace only) text means no headers. Non-string values are kept as
// their compact JSON text so {"X-Retries": 3} becomes "X-Retries: 3".
func ParseHeaders(text string) (Headers, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	value, err := jsonv.ParseString(text)
	if err != nil {
		return nil, &JSONError{Field: "headers", Err: err}
	}

	if value.Kind() != jsonv.Object {
		return nil, &JSONError{
			Field: "headers",
			Err:   fmt.Errorf("headers must be a JSON object, got %s", value.Kind()),
		}
	}

	headers := make(Headers, 0, value.Len())
	for _, member := range value.Members() {
		text := member.Value.Text()
		if member.Value.Kind() != jsonv.String {
			text = member.Value.Compact()
		}

		headers = append(headers, Header{Key: member.Key, Value: text})
	}

	return headers, nil
}

// Get returns the value of the header key, matched case insensitively, and
// whether it was present.
func (h Headers) Get(key string) (string, bool) {
	for _, header := range h {
		if strings.EqualFold(header.Key, key) {
			return header.Value, true
		}
	}

	return "", false
}

// Has reports whether the header key is present, matched case insensitively.
func (h Headers) Has(key string) bool {
	_, ok := h.Get(key)
	return ok
}

// Object returns the headers as a JSON object, in order.
func (h Headers) Object() jsonv.Value {
	members := make([]jsonv.Member, 0, len(h))
	for _, header := range h {
		members = append(members, jsonv.Member{Key: header.Key, Value: jsonv.StringValue(header.Value)})
	}

	return jsonv.ObjectValue(members...)
}
