package cmd

import (
	"fmt"

	gridrender "github.com/bnema/class-schedule-cli/internal/adapters/render/grid"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newGridCmd(app *app) *cobra.Command {
	var width int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "grid",
		Short: "Draw the week as a day by hour grid",
		RunE: func(cmd *cobra.Command, _ []string) error {
			projected, err := app.service.Grid(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, projected)
			}

			rendered, err := app.gridRenderer(projected, gridrender.RenderOptions{
				CellWidth: width,
				Today:     domain.WeekdayOf(app.now().Weekday()),
			})
			if err != nil {
				return fmt.Errorf("render grid: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Column width per day (default 16)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the projected grid as JSON")

	return cmd
}
