package present

import (
	"encoding/json"
	"fmt"
	"io"

	"go.followtheprocess.codes/apiscope/internal/orchestrator"
	"go.yaml.in/yaml/v4"
)

const yamlIndent = 2

// JSONExporter is an [Exporter] that writes the result as a JSON document.
type JSONExporter struct{}

// Export implements [Exporter] for [JSONExporter].
func (j JSONExporter) Export(w io.Writer, result orchestrator.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("could not encode JSON: %w", err)
	}

	return nil
}

// YAMLExporter is an [Exporter] that writes the result as a YAML document.
type YAMLExporter struct{}

// Export implements [Exporter] for [YAMLExporter].
func (y YAMLExporter) Export(w io.Writer, result orchestrator.Result) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(yamlIndent)

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("could not encode YAML: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("could not flush YAML: %w", err)
	}

	return nil
}
