// Package present writes the result of a live call for people and programs to read.
//
// The [Exporter] interface does this in a format agnostic way, with terminal tables,
// a standalone HTML page, JSON and YAML implementations.
package present

import (
	"fmt"
	"io"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
)

// Format is an output format for a result.
type Format string

// Supported formats.
const (
	FormatTable Format = "table" // Styled terminal tables
	FormatJSON  Format = "json"  // A JSON document
	FormatYAML  Format = "yaml"  // A YAML document
	FormatHTML  Format = "html"  // A standalone HTML page
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatTable, FormatJSON, FormatYAML, FormatHTML}
}

// ParseFormat parses a format name, case insensitively. An empty name means [FormatTable].
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatTable, nil
	}

	for _, format := range Formats() {
		if string(format) == name {
			return format, nil
		}
	}

	return "", fmt.Errorf("unsupported format %q, allowed values are table, json, yaml, html", name)
}

// Exporter is the interface defining a mechanism for writing out the result
// of a call.
type Exporter interface {
	// Export writes result to w.
	Export(w io.Writer, result orchestrator.Result) error
}

// For returns the [Exporter] for format.
//
// all only affects the terminal exporter, where it shows every table rather than
// just the active one.
func For(format Format, all bool) (Exporter, error) {
	switch format {
	case FormatTable:
		return TerminalExporter{All: all}, nil
	case FormatJSON:
		return JSONExporter{}, nil
	case FormatYAML:
		return YAMLExporter{}, nil
	case FormatHTML:
		return HTMLExporter{}, nil
	default:
		return nil, fmt.Errorf("no exporter for format %q", format)
	}
}
