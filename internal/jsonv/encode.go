package jsonv

import (
	"bytes"
	"encoding/json"
	"strings"

	"go.yaml.in/yaml/v4"
)

// dialect controls the spelling of the JSON keywords when writing a [Value]
// as source text.
type dialect struct {
	True  string
	False string
	Null  string
}

//nolint:gochecknoglobals // Effectively constants
var (
	jsonDialect   = dialect{True: "true", False: "false", Null: "null"}
	pythonDialect = dialect{True: "True", False: "False", Null: "None"}
)

// Compact returns the compact JSON encoding of v, with no insignificant whitespace.
//
// Undefined values encode as null.
func (v Value) Compact() string {
	builder := &strings.Builder{}
	write(builder, v, jsonDialect, "", "")

	return builder.String()
}

// Indent returns the JSON encoding of v with each nested element on a new line
// beginning with prefix followed by one or more copies of indent according to
// the nesting depth, the same layout as [json.MarshalIndent].
//
// The first line carries no prefix so the result may be spliced into existing text.
func (v Value) Indent(prefix, indent string) string {
	builder := &strings.Builder{}
	write(builder, v, jsonDialect, prefix, indent)

	return builder.String()
}

// Python returns v written as a Python literal using the same layout as [Value.Indent].
func (v Value) Python(prefix, indent string) string {
	builder := &strings.Builder{}
	write(builder, v, pythonDialect, prefix, indent)

	return builder.String()
}

// MarshalJSON implements [json.Marshaler] for [Value].
func (v Value) MarshalJSON() ([]byte, error) {
	return []byte(v.Compact()), nil
}

// MarshalYAML implements [yaml.Marshaler] for [Value], preserving object key order.
func (v Value) MarshalYAML() (any, error) {
	return v.yamlNode(), nil
}

// yamlNode converts v to the equivalent yaml node tree.
func (v Value) yamlNode() *yaml.Node {
	switch v.kind {
	case Bool:
		text := "false"
		if v.boolean {
			text = "true"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: text}
	case Number:
		tag := "!!float"
		if isInteger(v.text) {
			tag = "!!int"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: v.text}
	case String:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.text}
	case Array:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.items {
			node.Content = append(node.Content, item.yamlNode())
		}

		return node
	case Object:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, member := range v.members {
			key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: member.Key}
			node.Content = append(node.Content, key, member.Value.yamlNode())
		}

		return node
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// write writes v to builder in the given dialect. An empty indent means compact output.
func write(builder *strings.Builder, v Value, d dialect, prefix, indent string) {
	switch v.kind {
	case Bool:
		if v.boolean {
			builder.WriteString(d.True)
		} else {
			builder.WriteString(d.False)
		}
	case Number:
		builder.WriteString(v.text)
	case String:
		builder.WriteString(Quote(v.text))
	case Array:
		if len(v.items) == 0 {
			builder.WriteString("[]")
			return
		}

		builder.WriteByte('[')

		for i, item := range v.items {
			if i > 0 {
				builder.WriteByte(',')
			}

			newline(builder, prefix, indent)
			write(builder, item, d, prefix+indent, indent)
		}

		newlineClose(builder, prefix, indent)
		builder.WriteByte(']')
	case Object:
		if len(v.members) == 0 {
			builder.WriteString("{}")
			return
		}

		builder.WriteByte('{')

		for i, member := range v.members {
			if i > 0 {
				builder.WriteByte(',')
			}

			newline(builder, prefix, indent)
			builder.WriteString(Quote(member.Key))
			builder.WriteByte(':')

			if indent != "" {
				builder.WriteByte(' ')
			}

			write(builder, member.Value, d, prefix+indent, indent)
		}

		newlineClose(builder, prefix, indent)
		builder.WriteByte('}')
	default:
		builder.WriteString(d.Null)
	}
}

// newline starts a new line for a nested element, only when indenting.
func newline(builder *strings.Builder, prefix, indent string) {
	if indent == "" {
		return
	}

	builder.WriteByte('\n')
	builder.WriteString(prefix)
	builder.WriteString(indent)
}

// newlineClose starts the line holding a closing bracket, only when indenting.
func newlineClose(builder *strings.Builder, prefix, indent string) {
	if indent == "" {
		return
	}

	builder.WriteByte('\n')
	builder.WriteString(prefix)
}

// Quote returns s as a double quoted JSON string literal.
//
// Unlike [json.Marshal], the HTML characters <, > and & are left as they are.
func Quote(s string) string {
	buf := &bytes.Buffer{}

	encoder := json.NewEncoder(buf)
	encoder.SetEscapeHTML(false)

	// Encoding a plain string cannot fail
	_ = encoder.Encode(s) //nolint:errcheck // See above

	return strings.TrimSuffix(buf.String(), "\n")
}
