package apiscope

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Example table styles.
//
//nolint:gochecknoglobals // Effectively constants
var (
	exampleHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	exampleCellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// ExamplesOptions are the options passed to the examples subcommand.
type ExamplesOptions struct {
	// Config is the path to the config file, empty means the default location
	Config string

	// Debug enables debug logging
	Debug bool
}

// Examples implements the examples subcommand, listing every preset usable with --example.
func (a App) Examples(ctx context.Context, options ExamplesOptions) error {
	logger := a.logger.Prefixed("examples")

	config, err := LoadConfig(options.Config)
	if err != nil {
		return err
	}

	presets := config.AllPresets()

	logger.Debug("Listing examples", slog.Int("count", len(presets)))

	rows := make([][]string, 0, len(presets))
	for _, preset := range presets {
		rows = append(rows, []string{preset.Name, methodOrDefault(preset.Method), preset.URL, preset.Description})
	}

	rendered := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Method", "URL", "Description").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return exampleHeaderStyle
			}

			return exampleCellStyle
		})

	fmt.Fprintln(a.stdout, rendered.String())

	return nil
}
