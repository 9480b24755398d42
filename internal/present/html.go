package present

import (
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"time"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
)

//go:embed templates/page.html.tmpl
var pageTempl string

// pageFunctions are custom template functions available in the page template.
//
//nolint:gochecknoglobals // This has to be here
var pageFunctions = template.FuncMap{
	"clock": func(t time.Time) string {
		return t.Local().Format(timeFormat)
	},
}

// pageTemplate is the parsed HTML page template.
//
//nolint:gochecknoglobals // Having the template as a global means it's parsed only once
var pageTemplate = template.Must(template.New("page").Funcs(pageFunctions).Parse(pageTempl))

// HTMLExporter is an [Exporter] that writes the result as a standalone HTML page
// with tabs, image previews, links and collapsible JSON cells.
type HTMLExporter struct{}

// Export implements [Exporter] for [HTMLExporter].
func (h HTMLExporter) Export(w io.Writer, result orchestrator.Result) error {
	if err := pageTemplate.Execute(w, result); err != nil {
		return fmt.Errorf("could not render HTML page: %w", err)
	}

	return nil
}
