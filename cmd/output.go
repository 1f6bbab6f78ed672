package cmd

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/spf13/cobra"
)

func writeJSON(cmd *cobra.Command, value any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

// describeError flattens validation failures into one line per field.
func describeError(err error) error {
	invalid := domain.ValidationErrors(err)
	if len(invalid) == 0 {
		return err
	}

	lines := make([]string, 0, len(invalid))
	for _, verr := range invalid {
		lines = append(lines, fmt.Sprintf("  - %s %s", verr.Field, verr.Reason))
	}
	return fmt.Errorf("%w:\n%s", domain.ErrValidation, strings.Join(lines, "\n"))
}

func describeSession(session domain.ClassSession) string {
	return fmt.Sprintf("%s (%s %s-%s, %s)",
		sanitizeForTerminal(session.Subject),
		session.Day,
		session.Start,
		session.End,
		domain.FormatDuration(session.DurationMinutes()),
	)
}

func sanitizeForTerminal(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
