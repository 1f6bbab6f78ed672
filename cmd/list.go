package cmd

import (
	"fmt"

	gridrender "github.com/bnema/class-schedule-cli/internal/adapters/render/grid"
	"github.com/bnema/class-schedule-cli/internal/application"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newListCmd(app *app) *cobra.Command {
	var day string
	var today bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List class sessions by day and start time",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var query application.ListQuery
			switch {
			case today:
				query.Day = domain.WeekdayOf(app.now().Weekday())
			case day != "":
				parsed, err := domain.ParseWeekday(day)
				if err != nil {
					return err
				}
				query.Day = parsed
			}

			sessions, err := app.service.ListSessions(cmd.Context(), query)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, sessions)
			}

			rendered, err := app.listRenderer(sessions, gridrender.ListOptions{Day: query.Day})
			if err != nil {
				return fmt.Errorf("render list: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().StringVar(&day, "day", "", "Only list sessions on this weekday")
	cmd.Flags().BoolVar(&today, "today", false, "Only list today's sessions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print sessions as JSON")
	cmd.MarkFlagsMutuallyExclusive("day", "today")

	return cmd
}
