package apiscope

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"go.followtheprocess.codes/apiscope/internal/request"
	"go.followtheprocess.codes/apiscope/internal/table"
)

// requestForm asks the user for the request interactively, any fields already set
// are used as the starting values.
func (a App) requestForm(ctx context.Context, fields *requestFields) error {
	fields.Method = methodOrDefault(strings.ToUpper(fields.Method))

	methods := make([]string, 0, len(request.Methods()))
	for _, method := range request.Methods() {
		methods = append(methods, method.String())
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("URL").
				Description("The endpoint to call").
				Placeholder("https://jsonplaceholder.typicode.com/users").
				Value(&fields.URL).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return request.ErrMissingURL
					}

					return nil
				}),
			huh.NewSelect[string]().
				Title("Method").
				Options(huh.NewOptions(methods...)...).
				Value(&fields.Method),
			huh.NewText().
				Title("Headers").
				Description("A JSON object, leave empty for none").
				Value(&fields.Headers).
				Validate(func(s string) error {
					_, err := request.ParseHeaders(s)
					return err
				}),
			huh.NewText().
				Title("Body").
				Description("JSON, only sent with POST, PUT and PATCH").
				Value(&fields.Body).
				Validate(func(s string) error {
					_, err := request.ParseBody(s)
					return err
				}),
		),
	)

	return a.runForm(ctx, form)
}

// pickTable asks the user which of the tables in view to show.
func (a App) pickTable(ctx context.Context, view *table.View) error {
	labels := view.TabLabels()

	options := make([]huh.Option[int], 0, len(labels))
	for i, label := range labels {
		options = append(options, huh.NewOption(label, i))
	}

	choice := view.Active()

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[int]().
				Title("Which data set?").
				Options(options...).
				Value(&choice),
		),
	)

	if err := a.runForm(ctx, form); err != nil {
		return err
	}

	return view.Select(choice)
}

// runForm runs form against the app's stdin, drawing it on stderr so stdout stays
// free for output.
func (a App) runForm(ctx context.Context, form *huh.Form) error {
	return form.
		WithInput(a.stdin).
		WithOutput(a.stderr).
		WithAccessible(os.Getenv("ACCESSIBLE") != "").
		RunWithContext(ctx)
}
