package jsonv

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrTrailingData is returned when a JSON document is followed by anything other than whitespace.
var ErrTrailingData = errors.New("unexpected data after top-level value")

// Parse decodes a single JSON document from data.
func Parse(data []byte) (Value, error) {
	return Decode(bytes.NewReader(data))
}

// ParseString decodes a single JSON document from s.
func ParseString(s string) (Value, error) {
	return Parse([]byte(s))
}

// Decode decodes a single JSON document from r, which must contain nothing but that
// document and surrounding whitespace.
func Decode(r io.Reader) (Value, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	value, err := decodeValue(decoder)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Value{}, io.ErrUnexpectedEOF
		}

		return Value{}, err
	}

	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return Value{}, ErrTrailingData
	}

	return value, nil
}

// UnmarshalJSON implements [json.Unmarshaler] for [Value].
func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}

	*v = parsed

	return nil
}

// decodeValue reads the next complete value from the token stream.
func decodeValue(decoder *json.Decoder) (Value, error) {
	token, err := decoder.Token()
	if err != nil {
		return Value{}, err
	}

	switch token := token.(type) {
	case nil:
		return NullValue(), nil
	case bool:
		return BoolValue(token), nil
	case json.Number:
		return NumberValue(token.String()), nil
	case string:
		return StringValue(token), nil
	case json.Delim:
		switch token {
		case '[':
			return decodeArray(decoder)
		case '{':
			return decodeObject(decoder)
		default:
			return Value{}, fmt.Errorf("unexpected delimiter %q", token)
		}
	default:
		return Value{}, fmt.Errorf("unexpected JSON token %T", token)
	}
}

// decodeArray decodes the rest of an array after its opening '['.
func decodeArray(decoder *json.Decoder) (Value, error) {
	items := []Value{}

	for decoder.More() {
		item, err := decodeValue(decoder)
		if err != nil {
			return Value{}, err
		}

		items = append(items, item)
	}

	// Consume the closing ']'
	if _, err := decoder.Token(); err != nil {
		return Value{}, err
	}

	return ArrayValue(items...), nil
}

// decodeObject decodes the rest of an object after its opening '{'.
func decodeObject(decoder *json.Decoder) (Value, error) {
	obj := Value{kind: Object, members: []Member{}}
	index := make(map[string]int)

	for decoder.More() {
		token, err := decoder.Token()
		if err != nil {
			return Value{}, err
		}

		key, ok := token.(string)
		if !ok {
			return Value{}, fmt.Errorf("object key must be a string, got %T", token)
		}

		value, err := decodeValue(decoder)
		if err != nil {
			return Value{}, err
		}

		obj.set(index, key, value)
	}

	// Consume the closing '}'
	if _, err := decoder.Token(); err != nil {
		return Value{}, err
	}

	return obj, nil
}
