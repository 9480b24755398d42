package present

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	tbl "go.followtheprocess.codes/apiscope/internal/table"
	"go.followtheprocess.codes/hue"
	"go.followtheprocess.codes/msg"
)

// Styles.
const (
	// labelStyle is the style of the labels in the stats summary.
	labelStyle = hue.Bold

	// dimmed is the style used for informational content like durations,
	// summaries and null cells.
	dimmed = hue.BrightBlack | hue.Italic

	// activeTab is the style of the active tab in the tab bar.
	activeTab = hue.Cyan | hue.Bold

	// inactiveTab is the style of the other tabs in the tab bar.
	inactiveTab = hue.BrightBlack

	// timeFormat is the layout used for the completion time.
	timeFormat = "15:04:05"
)

// cellStyles maps each cell kind to the style its text is printed in.
//
//nolint:gochecknoglobals // Effectively a constant
var cellStyles = map[tbl.CellKind]hue.Style{
	tbl.Null:   dimmed,
	tbl.Image:  hue.Cyan | hue.Italic,
	tbl.Link:   hue.Blue,
	tbl.JSON:   hue.Cyan,
	tbl.Number: hue.Yellow,
}

// Table cell styles.
//
//nolint:gochecknoglobals // Effectively constants
var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// TerminalExporter is an [Exporter] that writes the result as styled text and tables.
type TerminalExporter struct {
	// All shows every table rather than just the active one
	All bool
}

// Export implements [Exporter] for [TerminalExporter].
func (t TerminalExporter) Export(w io.Writer, result orchestrator.Result) error {
	WriteStats(w, result.Stats)
	fmt.Fprintln(w)

	return WriteView(w, result.View, t.All)
}

// WriteStats writes the summary of a call.
func WriteStats(w io.Writer, stats orchestrator.Stats) {
	fmt.Fprintf(w, "%s  %s\n", labelStyle.Text("Status: "), statusStyle(stats.StatusCode).Text(fmt.Sprint(stats.StatusCode)))
	fmt.Fprintf(w, "%s  %s\n", labelStyle.Text("Size:   "), stats.SizeKB())
	fmt.Fprintf(w, "%s  %d\n", labelStyle.Text("Records:"), stats.Records)
	fmt.Fprintf(
		w,
		"%s  %s %s\n",
		labelStyle.Text("Time:   "),
		stats.Timestamp.Local().Format(timeFormat),
		dimmed.Text("("+stats.Duration.Round(time.Millisecond).String()+")"),
	)
}

// WriteView writes the raw value or the visible tables of view. If all is true every
// table is written, not just the active one.
func WriteView(w io.Writer, view tbl.View, all bool) error {
	if view.Raw {
		fmt.Fprintln(w, view.RawText)
		return nil
	}

	if view.Tabbed() {
		fmt.Fprintln(w, tabBar(view))
		fmt.Fprintln(w)
	}

	tables := view.Visible()
	if all {
		tables = view.Tables
	}

	for i, t := range tables {
		if i > 0 {
			fmt.Fprintln(w)
		}

		if all && view.Tabbed() {
			fmt.Fprintln(w, hue.Bold.Text(printable(view.TabLabels()[i])))
		}

		writeTable(w, t)
	}

	return nil
}

// WriteReport writes a failed call as an error panel.
func WriteReport(w io.Writer, report *orchestrator.Report) {
	msg.Ferror(w, "%s", report.Kind)

	fmt.Fprintf(w, "  %s %s\n", labelStyle.Text("Message:"), report.Message)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Text("URL:    "), report.URL)
	fmt.Fprintf(w, "  %s %s\n", labelStyle.Text("Method: "), report.Method)

	if report.StatusCode != 0 {
		fmt.Fprintf(w, "  %s %d\n", labelStyle.Text("Status: "), report.StatusCode)
	}

	if len(report.Hints) > 0 {
		fmt.Fprintf(w, "\n  %s\n", hue.Yellow.Text("Possible fixes:"))

		for _, hint := range report.Hints {
			fmt.Fprintf(w, "    - %s\n", hint)
		}
	}
}

// writeTable writes a single table with its summary line.
func writeTable(w io.Writer, t tbl.Table) {
	fmt.Fprintln(w, dimmed.Text(t.Summary()))

	if t.Empty() {
		fmt.Fprintln(w, dimmed.Text("no data to show"))
		return
	}

	headers := make([]string, 0, len(t.Columns))
	for _, column := range t.Columns {
		headers = append(headers, printable(column))
	}

	rows := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, styleCell(cell))
		}

		rows = append(rows, cells)
	}

	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}

			return cellStyle
		})

	fmt.Fprintln(w, rendered.String())
}

// tabBar renders the tab labels with the active one highlighted.
func tabBar(view tbl.View) string {
	labels := view.TabLabels()
	styled := make([]string, 0, len(labels))

	for i, label := range labels {
		if i == view.Active() {
			styled = append(styled, activeTab.Text("["+printable(label)+"]"))
		} else {
			styled = append(styled, inactiveTab.Text(" "+printable(label)+" "))
		}
	}

	return strings.Join(styled, " ")
}

// styleCell returns the display text of a cell in its style.
func styleCell(cell tbl.Cell) string {
	text := printable(cell.Text)

	if cell.Kind == tbl.Bool {
		if text == "true" {
			return hue.Green.Text(text)
		}

		return hue.Red.Text(text)
	}

	style, ok := cellStyles[cell.Kind]
	if !ok {
		return text
	}

	return style.Text(text)
}

// printable escapes control characters in text from a response so they are shown
// rather than interpreted by the terminal, e.g. ESC becomes \x1b.
func printable(text string) string {
	if !strings.ContainsFunc(text, unicode.IsControl) {
		return text
	}

	builder := &strings.Builder{}
	for _, r := range text {
		if !unicode.IsControl(r) {
			builder.WriteRune(r)
			continue
		}

		quoted := strconv.QuoteRune(r)
		builder.WriteString(quoted[1 : len(quoted)-1])
	}

	return builder.String()
}

// statusStyle returns the style of an HTTP status code.
func statusStyle(code int) hue.Style {
	if code >= http.StatusBadRequest {
		return hue.Red | hue.Bold
	}

	return hue.Green | hue.Bold
}
