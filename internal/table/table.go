// Package table turns the lists found in a response into bounded, formatted tables.
package table

import (
	"fmt"
	"strconv"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
	"go.followtheprocess.codes/apiscope/internal/shape"
)

// DefaultMaxRows is the number of rows shown per table when no limit is configured.
const DefaultMaxRows = 100

// ScalarColumn is the single column used for lists of plain values.
const ScalarColumn = "value"

// Table is a single rendered list.
type Table struct {
	Label     string   `json:"label"          yaml:"label"`
	Path      string   `json:"path,omitempty" yaml:"path,omitempty"`
	Columns   []string `json:"columns"        yaml:"columns"`
	Rows      [][]Cell `json:"rows"           yaml:"rows"`
	Total     int      `json:"total"          yaml:"total"`
	Displayed int      `json:"displayed"      yaml:"displayed"`
}

// Empty reports whether the list had no items.
func (t Table) Empty() bool {
	return t.Total == 0
}

// Truncated reports whether some rows were left out.
func (t Table) Truncated() bool {
	return t.Displayed < t.Total
}

// Summary returns a one line description of the table: its record and column
// counts and whether it was cut short.
func (t Table) Summary() string {
	summary := fmt.Sprintf(
		"%d %s, %d %s",
		t.Total, plural(t.Total, "record", "records"),
		len(t.Columns), plural(len(t.Columns), "column", "columns"),
	)

	if t.Truncated() {
		summary += fmt.Sprintf(", showing %d of %d", t.Displayed, t.Total)
	}

	return summary
}

// Renderer renders shape analyses into views.
type Renderer struct {
	// MaxRows is the maximum number of rows in a table, 0 means [DefaultMaxRows]
	MaxRows int
}

// Render builds the [View] of value from its analysis.
//
// A raw analysis gives the whole value pretty printed, otherwise there is one
// table per list in discovery order with the first table active.
func (r Renderer) Render(analysis shape.Analysis, value jsonv.Value) View {
	if analysis.Raw {
		return View{Raw: true, RawText: value.Indent("", "  ")}
	}

	tables := make([]Table, 0, len(analysis.Lists))
	for _, list := range analysis.Lists {
		tables = append(tables, r.table(list))
	}

	return View{Tables: tables}
}

// table renders a single list.
func (r Renderer) table(list shape.List) Table {
	limit := r.MaxRows
	if limit <= 0 {
		limit = DefaultMaxRows
	}

	total := len(list.Items)
	displayed := min(total, limit)

	tbl := Table{
		Label:     list.Label,
		Path:      list.Path,
		Total:     total,
		Displayed: displayed,
		Rows:      make([][]Cell, 0, displayed),
	}

	if total == 0 {
		return tbl
	}

	tbl.Columns = Columns(list.Items[0])
	scalar := isScalar(list.Items[0])

	for _, item := range list.Items[:displayed] {
		row := make([]Cell, 0, len(tbl.Columns))
		for _, column := range tbl.Columns {
			row = append(row, FormatCell(lookup(item, column, scalar)))
		}

		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl
}

// Columns returns the table columns implied by the first item of a list: the keys of
// an object, the indices of a list, or [ScalarColumn] for anything else.
func Columns(first jsonv.Value) []string {
	switch first.Kind() {
	case jsonv.Object:
		return first.Keys()
	case jsonv.Array:
		columns := make([]string, 0, first.Len())
		for i := range first.Len() {
			columns = append(columns, strconv.Itoa(i))
		}

		return columns
	default:
		return []string{ScalarColumn}
	}
}

// lookup returns the value of column in item. Items that don't have the column
// give an undefined value.
func lookup(item jsonv.Value, column string, scalar bool) jsonv.Value {
	if scalar {
		if column == ScalarColumn {
			return item
		}

		return jsonv.Value{}
	}

	switch item.Kind() {
	case jsonv.Object:
		value, _ := item.Get(column)
		return value
	case jsonv.Array:
		index, err := strconv.Atoi(column)
		if err != nil || index < 0 || index >= item.Len() {
			return jsonv.Value{}
		}

		return item.Items()[index]
	default:
		return jsonv.Value{}
	}
}

// isScalar reports whether v is neither an object nor a list.
func isScalar(v jsonv.Value) bool {
	return v.Kind() != jsonv.Object && v.Kind() != jsonv.Array
}

// View is everything shown for one response: either the raw value or a set of tables
// of which exactly one is active.
type View struct {
	RawText string  `json:"raw,omitempty"    yaml:"raw,omitempty"`
	Tables  []Table `json:"tables,omitempty" yaml:"tables,omitempty"`
	Raw     bool    `json:"-"                yaml:"-"`
	active  int
}

// Tabbed reports whether the view has more than one table and so needs a tab selector.
func (v View) Tabbed() bool {
	return len(v.Tables) > 1
}

// Active returns the index of the active table.
func (v View) Active() int {
	return v.active
}

// Select makes table i the active one, it only changes which table is visible.
func (v *View) Select(i int) error {
	if i < 0 || i >= len(v.Tables) {
		return fmt.Errorf("no table %d, there are %d", i+1, len(v.Tables))
	}

	v.active = i

	return nil
}

// Visible returns the tables currently visible: just the active one, or none
// for a raw view.
func (v View) Visible() []Table {
	if v.Raw || len(v.Tables) == 0 {
		return nil
	}

	return v.Tables[v.active : v.active+1]
}

// TabLabels returns the label of each tab e.g. "Set 1 (20)".
func (v View) TabLabels() []string {
	labels := make([]string, 0, len(v.Tables))
	for i, tbl := range v.Tables {
		labels = append(labels, fmt.Sprintf("Set %d (%d)", i+1, tbl.Total))
	}

	return labels
}

// String implements [fmt.Stringer] for a [View], giving a plain text outline used
// for debugging and golden tests.
func (v View) String() string {
	if v.Raw {
		return v.RawText + "\n"
	}

	builder := &strings.Builder{}
	for i, tbl := range v.Tables {
		marker := " "
		if i == v.active {
			marker = "*"
		}

		fmt.Fprintf(builder, "%s %s [%s] %s\n", marker, tbl.Label, strings.Join(tbl.Columns, ", "), tbl.Summary())

		for _, row := range tbl.Rows {
			cells := make([]string, 0, len(row))
			for _, cell := range row {
				cells = append(cells, cell.Kind.String()+":"+cell.Text)
			}

			fmt.Fprintf(builder, "    %s\n", strings.Join(cells, " | "))
		}
	}

	return builder.String()
}
