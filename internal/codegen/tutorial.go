package codegen

import (
	"fmt"
	"strings"

	"go.followtheprocess.codes/apiscope/internal/jsonv"
	"go.followtheprocess.codes/apiscope/internal/request"
)

// tutorialData is the data passed to the tutorial template.
type tutorialData struct {
	Language Language
	Snippet  string
	Steps    []string
	Spec     request.Spec
}

// tableData is the data passed to the table snippet template.
type tableData struct {
	URL     string
	Columns []string
}

// Tutorial renders a short annotated walkthrough of how to consume the API described
// by spec in the given language, finishing with the generated snippet.
func Tutorial(language Language, spec request.Spec) (string, error) {
	snippet, err := Generate(language, spec)
	if err != nil {
		return "", err
	}

	data := tutorialData{
		Language: language,
		Snippet:  strings.TrimRight(snippet.Source, "\n"),
		Steps:    steps(language, spec),
		Spec:     spec,
	}

	builder := &strings.Builder{}
	if err := templates.ExecuteTemplate(builder, "tutorial.txt.tmpl", data); err != nil {
		return "", fmt.Errorf("could not render tutorial: %w", err)
	}

	return builder.String(), nil
}

// TableSnippet renders a JavaScript snippet that fetches url and builds an HTML
// table with one column per entry in columns.
func TableSnippet(url string, columns []string) (string, error) {
	if strings.TrimSpace(url) == "" {
		return "", request.ErrMissingURL
	}

	builder := &strings.Builder{}
	if err := templates.ExecuteTemplate(builder, "table.js.tmpl", tableData{URL: url, Columns: columns}); err != nil {
		return "", fmt.Errorf("could not render table snippet: %w", err)
	}

	return builder.String(), nil
}

// TableRecords returns the records a generated table snippet would iterate over: the
// value itself if it's a list, else its "results" list, else the value as a single record.
func TableRecords(v jsonv.Value) []jsonv.Value {
	if v.Kind() == jsonv.Array {
		return v.Items()
	}

	if results, ok := v.Get("results"); ok && results.Kind() == jsonv.Array {
		return results.Items()
	}

	return []jsonv.Value{v}
}

// steps returns the walkthrough steps for language.
func steps(language Language, spec request.Spec) []string {
	var out []string

	switch language {
	case Fetch:
		out = []string{
			"fetch is built in to browsers and Node.js 18+, there is nothing to install.",
			fmt.Sprintf("Call fetch with the URL and an options object whose method is %q.", spec.Method),
			"Check response.ok, fetch only rejects on network failures, not on HTTP error statuses.",
			"Decode the body with response.json().",
		}
	case Axios:
		out = []string{
			"Install the client with `npm install axios`.",
			fmt.Sprintf("Describe the call as a config object with method %q and the URL.", strings.ToLower(spec.Method.String())),
			"axios decodes JSON responses for you, the result is in response.data.",
			"Non 2xx statuses reject, inspect error.response to see what the server sent back.",
		}
	case Python:
		out = []string{
			"Install the client with `pip install requests`.",
			fmt.Sprintf("Call requests.request with %q and the URL, always pass a timeout.", spec.Method),
			"Call response.raise_for_status() to turn HTTP error statuses into exceptions.",
			"Decode the body with response.json().",
		}
	case Curl:
		out = []string{
			"curl ships with most operating systems, run the command in a terminal.",
			fmt.Sprintf("-X %s selects the method, the URL is quoted so the shell leaves it alone.", spec.Method),
			"Add --fail to make curl exit non zero on HTTP error statuses.",
		}
	}

	if spec.HasHeaders() {
		out = append(out, fmt.Sprintf("The request sends %d header(s), keep any API keys out of source control.", len(spec.Headers)))
	}

	if spec.HasBody() {
		out = append(out, "The body is sent as JSON, which is why the Content-Type is application/json.")
	}

	return out
}
