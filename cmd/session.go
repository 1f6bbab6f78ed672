package cmd

import (
	"errors"
	"fmt"
	"strings"

	gridrender "github.com/bnema/class-schedule-cli/internal/adapters/render/grid"
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/spf13/cobra"
)

type sessionFlags struct {
	subject string
	teacher string
	room    string
	day     string
	start   string
	end     string
	color   string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.subject, "subject", "", "Subject taught")
	cmd.Flags().StringVar(&f.teacher, "teacher", "", "Teacher name")
	cmd.Flags().StringVar(&f.room, "room", "", "Room")
	cmd.Flags().StringVar(&f.day, "day", "", "Weekday (e.g. Monday or mon)")
	cmd.Flags().StringVar(&f.start, "start", "", "Start time, 24h HH:MM")
	cmd.Flags().StringVar(&f.end, "end", "", "End time, 24h HH:MM")
	cmd.Flags().StringVar(&f.color, "color", "", fmt.Sprintf("Color token (%s)", strings.Join(gridrender.ColorTokens(), ", ")))
}

// apply overlays every flag the user set onto base.
func (f *sessionFlags) apply(cmd *cobra.Command, base domain.SessionFields) (domain.SessionFields, error) {
	var errs []error
	changed := cmd.Flags().Changed

	if changed("subject") {
		base.Subject = f.subject
	}
	if changed("teacher") {
		base.Teacher = f.teacher
	}
	if changed("room") {
		base.Room = f.room
	}
	if changed("day") {
		day, err := domain.ParseWeekday(f.day)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: "day", Reason: err.Error()})
		}
		base.Day = day
	}
	if changed("start") {
		start, err := domain.ParseTimeOfDay(f.start)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: "start", Reason: err.Error()})
		}
		base.Start = start
	}
	if changed("end") {
		end, err := domain.ParseTimeOfDay(f.end)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: "end", Reason: err.Error()})
		}
		base.End = end
	}
	if changed("color") {
		color, err := gridrender.ParseColor(f.color)
		if err != nil {
			errs = append(errs, &domain.ValidationError{Field: "color", Reason: err.Error()})
		}
		base.Color = color
	}

	return base, errors.Join(errs...)
}

func newSessionCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Add, edit, delete or show one class session",
	}

	cmd.AddCommand(
		newSessionAddCmd(app),
		newSessionEditCmd(app),
		newSessionDeleteCmd(app),
		newSessionShowCmd(app),
	)

	return cmd
}

func newSessionAddCmd(app *app) *cobra.Command {
	var flags sessionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a class session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			fields, err := flags.apply(cmd, domain.SessionFields{})
			if err != nil {
				return describeError(err)
			}

			id, err := app.service.AddSession(cmd.Context(), fields)
			if err != nil {
				return describeError(err)
			}

			session, err := app.service.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, session)
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Added session %s: %s\n", sanitizeForTerminal(string(id)), describeSession(session))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the created session as JSON")
	for _, name := range []string{"subject", "teacher", "room", "day", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func newSessionEditCmd(app *app) *cobra.Command {
	var flags sessionFlags
	var sessionID string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Replace a class session's details",
		Long:  "Replace a class session's details. Fields whose flags are omitted keep their current value; the whole record is validated and replaced at once.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := domain.SessionID(sessionID)
			current, err := app.service.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}

			fields, err := flags.apply(cmd, current.Fields())
			if err != nil {
				return describeError(err)
			}

			if err := app.service.UpdateSession(cmd.Context(), id, fields); err != nil {
				return describeError(err)
			}

			updated, err := app.service.GetSession(cmd.Context(), id)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Updated session %s: %s\n", sanitizeForTerminal(sessionID), describeSession(updated))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "id", "", "Session ID")
	_ = cmd.MarkFlagRequired("id")
	flags.register(cmd)

	return cmd
}

func newSessionDeleteCmd(app *app) *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a class session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.service.DeleteSession(cmd.Context(), domain.SessionID(sessionID)); err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted session %s\n", sanitizeForTerminal(sessionID))
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "id", "", "Session ID")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func newSessionShowCmd(app *app) *cobra.Command {
	var sessionID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one class session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := app.service.GetSession(cmd.Context(), domain.SessionID(sessionID))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd, session)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "id: %s\n", sanitizeForTerminal(string(session.ID)))
			_, _ = fmt.Fprintf(out, "subject: %s\n", sanitizeForTerminal(session.Subject))
			_, _ = fmt.Fprintf(out, "teacher: %s\n", sanitizeForTerminal(session.Teacher))
			_, _ = fmt.Fprintf(out, "room: %s\n", sanitizeForTerminal(session.Room))
			_, _ = fmt.Fprintf(out, "day: %s\n", session.Day)
			_, _ = fmt.Fprintf(out, "time: %s-%s (%s)\n", session.Start, session.End, domain.FormatDuration(session.DurationMinutes()))
			if session.Color != "" {
				_, _ = fmt.Fprintf(out, "color: %s\n", session.Color)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "id", "", "Session ID")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the session as JSON")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}
