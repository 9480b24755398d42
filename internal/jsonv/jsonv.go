// Package jsonv implements an ordered JSON value model.
//
// Decoding into map[string]any loses the order in which object keys appeared in the source
// document, but everything downstream of the decoder (column order in tables, the order
// in which nested lists are discovered, and byte-identical generated code) depends on it.
// A [Value] therefore keeps object members as an ordered slice.
package jsonv

import (
	"strconv"
	"strings"
)

// Kind is the kind of a JSON [Value].
type Kind int

const (
	Undefined Kind = iota // The zero Value, an absent value e.g. a missing object key
	Null                  // JSON null
	Bool                  // JSON true or false
	Number                // JSON number, kept as its source literal
	String                // JSON string
	Array                 // JSON array
	Object                // JSON object
)

// String implements [fmt.Stringer] for [Kind].
func (k Kind) String() string {
	switch k {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Member is a single key/value pair of a JSON object.
type Member struct {
	Key   string // The object key
	Value Value  // The value stored under Key
}

// Value is a decoded JSON value.
//
// The zero Value is [Undefined], which is distinct from an explicit JSON null.
type Value struct {
	text    string   // String contents, or the literal of a number
	items   []Value  // Array items
	members []Member // Object members in insertion order
	kind    Kind     // The kind of value
	boolean bool     // Value of a Bool
}

// NullValue returns a JSON null.
func NullValue() Value {
	return Value{kind: Null}
}

// BoolValue returns a JSON boolean.
func BoolValue(b bool) Value {
	return Value{kind: Bool, boolean: b}
}

// NumberValue returns a JSON number from its literal text e.g. "42" or "9.5".
func NumberValue(literal string) Value {
	return Value{kind: Number, text: literal}
}

// IntValue returns a JSON number holding n.
func IntValue(n int) Value {
	return NumberValue(strconv.Itoa(n))
}

// StringValue returns a JSON string.
func StringValue(s string) Value {
	return Value{kind: String, text: s}
}

// ArrayValue returns a JSON array of items.
func ArrayValue(items ...Value) Value {
	if items == nil {
		items = []Value{}
	}

	return Value{kind: Array, items: items}
}

// ObjectValue returns a JSON object made of members.
//
// If a key is repeated, the later value replaces the earlier one but the key keeps
// its original position, the same as most JSON parsers.
func ObjectValue(members ...Member) Value {
	obj := Value{kind: Object, members: make([]Member, 0, len(members))}
	index := make(map[string]int, len(members))
	for _, member := range members {
		obj.set(index, member.Key, member.Value)
	}

	return obj
}

// Kind returns the kind of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// Exists reports whether v is anything other than [Undefined].
func (v Value) Exists() bool {
	return v.kind != Undefined
}

// IsZero reports whether v is the zero (undefined) Value, it allows encoders
// to omit undefined values.
func (v Value) IsZero() bool {
	return v.kind == Undefined
}

// IsNull reports whether v is null or undefined.
func (v Value) IsNull() bool {
	return v.kind == Null || v.kind == Undefined
}

// Bool returns the value of a boolean, false for any other kind.
func (v Value) Bool() bool {
	return v.kind == Bool && v.boolean
}

// Text returns the contents of a string or the literal of a number, and the empty
// string for any other kind.
func (v Value) Text() string {
	if v.kind == String || v.kind == Number {
		return v.text
	}

	return ""
}

// Items returns the items of an array, nil for any other kind.
func (v Value) Items() []Value {
	if v.kind != Array {
		return nil
	}

	return v.items
}

// Members returns the members of an object in insertion order, nil for any other kind.
func (v Value) Members() []Member {
	if v.kind != Object {
		return nil
	}

	return v.members
}

// Keys returns the keys of an object in insertion order, nil for any other kind.
func (v Value) Keys() []string {
	if v.kind != Object {
		return nil
	}

	keys := make([]string, 0, len(v.members))
	for _, member := range v.members {
		keys = append(keys, member.Key)
	}

	return keys
}

// Get looks up key in an object, returning the value and whether it was present.
func (v Value) Get(key string) (Value, bool) {
	for _, member := range v.Members() {
		if member.Key == key {
			return member.Value, true
		}
	}

	return Value{}, false
}

// Len returns the number of items in an array, members in an object or characters
// in a string. It is 0 for every other kind.
func (v Value) Len() int {
	switch v.kind {
	case Array:
		return len(v.items)
	case Object:
		return len(v.members)
	case String:
		return len([]rune(v.text))
	default:
		return 0
	}
}

// IsEmpty reports whether v carries no content: an empty object, array or string,
// or any scalar that has no enumerable content (numbers, booleans and null).
func (v Value) IsEmpty() bool {
	return v.Len() == 0
}

// String implements [fmt.Stringer] for [Value] and returns the compact JSON encoding.
func (v Value) String() string {
	return v.Compact()
}

// set stores value under key, replacing in place if key is already present.
// index maps every key in v.members to its position and is kept up to date.
func (v *Value) set(index map[string]int, key string, value Value) {
	if i, ok := index[key]; ok {
		v.members[i].Value = value
		return
	}

	index[key] = len(v.members)
	v.members = append(v.members, Member{Key: key, Value: value})
}

// isInteger reports whether a number literal has no fraction or exponent.
func isInteger(literal string) bool {
	return !strings.ContainsAny(literal, ".eE")
}
