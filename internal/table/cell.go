package table

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
)

const (
	linkLimit = 30 // Max characters shown of a link
	textLimit = 50 // Max characters shown of plain text
	ellipsis  = "..."
)

// imageExtension matches strings that end in a common image file extension.
//
//nolint:gochecknoglobals // Compiled once
var imageExtension = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp|svg)$`)

// imageKeywords are substrings that mark a string as probably pointing at an image.
//
//nolint:gochecknoglobals // Effectively a constant
var imageKeywords = []string{"image", "img", "photo", "picture", "avatar", "thumbnail"}

// CellKind is the display kind of a [Cell].
type CellKind int

const (
	Null   CellKind = iota // A null or missing value
	Image                  // A string that looks like an image URL
	Link                   // A string that looks like a URL
	JSON                   // A nested object or list, collapsed by default
	Bool                   // A boolean
	Number                 // A number
	Text                   // Anything else
)

// String implements [fmt.Stringer] for [CellKind].
func (k CellKind) String() string {
	switch k {
	case Null:
		return "null"
	case Image:
		return "image"
	case Link:
		return "link"
	case JSON:
		return "json"
	case Bool:
		return "bool"
	case Number:
		return "number"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("CellKind(%d)", int(k))
	}
}

// MarshalText implements [encoding.TextMarshaler] for [CellKind].
func (k CellKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Cell is a single formatted table cell.
type Cell struct {
	// Text is what is shown in the cell: truncated text, a link label, a collapsed
	// JSON label etc.
	Text string `json:"text" yaml:"text"`

	// Full is the complete value, the link target, image source, hover text or the
	// expanded JSON
	Full string `json:"full,omitempty" yaml:"full,omitempty"`

	// Kind is how the cell should be displayed
	Kind CellKind `json:"kind" yaml:"kind"`
}

// FormatCell formats a single value for display in a table.
//
// The first matching rule wins: null or missing, image URL, link, nested JSON, boolean,
// number and finally plain text. Every JSON value matches exactly one rule.
func FormatCell(value jsonv.Value) Cell {
	switch value.Kind() {
	case jsonv.Undefined, jsonv.Null:
		return Cell{Kind: Null, Text: "null"}
	case jsonv.String:
		text := value.Text()

		switch {
		case IsImageURL(text):
			return Cell{Kind: Image, Text: text, Full: text}
		case strings.HasPrefix(text, "http"):
			return Cell{Kind: Link, Text: Truncate(text, linkLimit), Full: text}
		default:
			return Cell{Kind: Text, Text: Truncate(text, textLimit), Full: text}
		}
	case jsonv.Object:
		return Cell{
			Kind: JSON,
			Text: fmt.Sprintf("{...} (%d %s)", value.Len(), plural(value.Len(), "key", "keys")),
			Full: value.Indent("", "  "),
		}
	case jsonv.Array:
		return Cell{
			Kind: JSON,
			Text: fmt.Sprintf("[...] (%d %s)", value.Len(), plural(value.Len(), "item", "items")),
			Full: value.Indent("", "  "),
		}
	case jsonv.Bool:
		text := "false"
		if value.Bool() {
			text = "true"
		}

		return Cell{Kind: Bool, Text: text}
	case jsonv.Number:
		return Cell{Kind: Number, Text: value.Text()}
	default:
		return Cell{Kind: Text, Text: value.Compact()}
	}
}

// IsImageURL reports whether s looks like it points at an image, either because
// it ends in an image extension (any case) or contains one of the usual image words.
func IsImageURL(s string) bool {
	if imageExtension.MatchString(s) {
		return true
	}

	for _, keyword := range imageKeywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}

	return false
}

// Truncate shortens s to at most limit characters followed by "...". Strings that
// already fit are returned as they are.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}

	return string([]rune(s)[:limit]) + ellipsis
}

// plural returns one if n is 1, else many.
func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
