// Package codegen renders ready to copy client code that performs a [request.Spec] in a
// number of target ecosystems.
//
// Every snippet is rendered from an embedded text/template, the output is a pure function
// of the request and the language so the same input always produces byte-identical source.
package codegen

import (
	"embed"
	"fmt"
	"io"
	"strings"
	"text/template"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
	"go.followtheprocess.codes/apiscope/internal/request"
)

const (
	jsIndent     = "  "   // Indent used for JavaScript object literals
	pythonIndent = "    " // Indent used for Python dict literals
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// shellEscaper escapes the characters with special meaning inside a double quoted
// shell string.
//
//nolint:gochecknoglobals // Effectively a constant
var shellEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"$", `\$`,
	"`", "\\`",
)

// functions are the custom template functions available to every template.
//
//nolint:gochecknoglobals // This has to be here
var functions = template.FuncMap{
	"quote":   quote,
	"dquote":  dquote,
	"squote":  squote,
	"lower":   lower,
	"inc":     func(i int) int { return i + 1 },
	"compact": jsonv.Value.Compact,
	"json": func(v jsonv.Value, prefix string) string {
		return v.Indent(prefix, jsIndent)
	},
	"python": func(v jsonv.Value, prefix string) string {
		return v.Python(prefix, pythonIndent)
	},
}

// templates holds every parsed template, keyed by file name.
//
//nolint:gochecknoglobals // Having the templates as a global means they're parsed only once
var templates = template.Must(template.New("codegen").Funcs(functions).ParseFS(templateFS, "templates/*.tmpl"))

// Snippet is a generated piece of source code.
type Snippet struct {
	Language Language `json:"language" yaml:"language"`
	Source   string   `json:"source"   yaml:"source"`
}

// Generator is the interface defining a mechanism for turning a [request.Spec]
// into source code.
type Generator interface {
	// Generate writes source code performing spec to w.
	Generate(w io.Writer, spec request.Spec) error
}

// TemplateGenerator is a [Generator] backed by one of the embedded templates.
type TemplateGenerator struct {
	tmpl     *template.Template
	language Language
}

// For returns the [Generator] for language.
func For(language Language) (TemplateGenerator, error) {
	name := language.template()
	if name == "" {
		return TemplateGenerator{}, fmt.Errorf("no generator for language %q", language)
	}

	tmpl := templates.Lookup(name)
	if tmpl == nil {
		return TemplateGenerator{}, fmt.Errorf("missing template %s for language %q", name, language)
	}

	return TemplateGenerator{tmpl: tmpl, language: language}, nil
}

// Language returns the language this generator renders.
func (g TemplateGenerator) Language() Language {
	return g.language
}

// Generate implements [Generator] for [TemplateGenerator].
func (g TemplateGenerator) Generate(w io.Writer, spec request.Spec) error {
	if spec.URL == "" {
		return request.ErrMissingURL
	}

	if err := g.tmpl.Execute(w, spec); err != nil {
		return fmt.Errorf("could not render %s snippet: %w", g.language, err)
	}

	return nil
}

// Generate renders spec as source code in the given language.
func Generate(language Language, spec request.Spec) (Snippet, error) {
	generator, err := For(language)
	if err != nil {
		return Snippet{}, err
	}

	builder := &strings.Builder{}
	if err := generator.Generate(builder, spec); err != nil {
		return Snippet{}, err
	}

	return Snippet{Language: language, Source: builder.String()}, nil
}

// quote returns the text of v as a double quoted string literal, valid in both
// JavaScript and Python.
func quote(v any) string {
	return jsonv.Quote(fmt.Sprint(v))
}

// dquote returns the text of v as a double quoted shell word.
func dquote(v any) string {
	return `"` + shellEscaper.Replace(fmt.Sprint(v)) + `"`
}

// squote returns the text of v as a single quoted shell word.
func squote(v any) string {
	return "'" + strings.ReplaceAll(fmt.Sprint(v), "'", `'\''`) + "'"
}

// lower returns the text of v in lower case.
func lower(v any) string {
	return strings.ToLower(fmt.Sprint(v))
}
