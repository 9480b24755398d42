// Package shape inspects a decoded JSON response and finds the lists inside it that
// are worth showing as tables.
package shape

import (
	"fmt"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
)

// RootLabel is the label given to a list that is the whole response.
const RootLabel = "root"

// List is a single list found in a response.
type List struct {
	// Label identifies the list, "root" for a list response or "array_<n>" where n is
	// the order in which the list was discovered
	Label string `json:"label" yaml:"label"`

	// Path is the dotted key path from the root to the list, empty for the root
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Items are the elements of the list, in their original order
	Items []jsonv.Value `json:"-" yaml:"-"`
}

// Len returns the number of items in the list.
func (l List) Len() int {
	return len(l.Items)
}

// Analysis describes the shape of a response.
type Analysis struct {
	// Lists are the lists found in the response in discovery order
	Lists []List `json:"lists,omitempty" yaml:"lists,omitempty"`

	// IsRootList is true if the response itself is a list
	IsRootList bool `json:"isRootList" yaml:"isRootList"`

	// Raw is true if no lists were found and the response is best shown as it is
	Raw bool `json:"raw" yaml:"raw"`
}

// Analyze inspects value and returns its [Analysis].
//
// A list response is its own single list. For an object every nested value is scanned
// depth first in key order and every list found is extracted, lists are never looked
// inside of. Anything else, or an object with no lists in it, is raw.
//
// Analyze is pure, the same value always produces the same analysis.
func Analyze(value jsonv.Value) Analysis {
	switch value.Kind() {
	case jsonv.Array:
		return Analysis{
			IsRootList: true,
			Lists:      []List{{Label: RootLabel, Items: value.Items()}},
		}
	case jsonv.Object:
		var lists []List

		find(value, "", &lists)

		return Analysis{Lists: lists, Raw: len(lists) == 0}
	default:
		return Analysis{Raw: true}
	}
}

// Records returns the number of records in the response: the length of a root list
// or the combined length of every list found.
func (a Analysis) Records() int {
	total := 0
	for _, list := range a.Lists {
		total += list.Len()
	}

	return total
}

// String implements [fmt.Stringer] for an [Analysis], summarising the lists found.
func (a Analysis) String() string {
	if a.Raw {
		return "raw\n"
	}

	builder := &strings.Builder{}
	for _, list := range a.Lists {
		path := list.Path
		if path == "" {
			path = "."
		}

		fmt.Fprintf(builder, "%s %s (%d)\n", list.Label, path, list.Len())
	}

	return builder.String()
}

// find appends every list nested inside obj to lists, depth first in key order.
func find(obj jsonv.Value, path string, lists *[]List) {
	for _, member := range obj.Members() {
		childPath := member.Key
		if path != "" {
			childPath = path + "." + member.Key
		}

		switch member.Value.Kind() {
		case jsonv.Array:
			*lists = append(*lists, List{
				Label: fmt.Sprintf("array_%d", len(*lists)),
				Path:  childPath,
				Items: member.Value.Items(),
			})
		case jsonv.Object:
			find(member.Value, childPath, lists)
		}
	}
}
