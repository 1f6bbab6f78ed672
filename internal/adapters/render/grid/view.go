package grid

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	defaultCellWidth = 16
	minCellWidth     = 8
	slotLabelWidth   = 6
)

type RenderOptions struct {
	// CellWidth is the width of one day column. Zero uses the default.
	CellWidth int
	// Today marks one day header. Empty marks none.
	Today domain.Weekday
}

func (o RenderOptions) cellWidth() int {
	switch {
	case o.CellWidth <= 0:
		return defaultCellWidth
	case o.CellWidth < minCellWidth:
		return minCellWidth
	default:
		return o.CellWidth
	}
}

type ListOptions struct {
	// Day is the day the list was filtered to, if any.
	Day domain.Weekday
}

func renderGridView(grid domain.Grid, opts RenderOptions, s styles) string {
	total := len(grid.Placements) + len(grid.Unplaced)
	lines := []string{
		s.title.Render("Weekly schedule"),
		s.header.Render(fmt.Sprintf("sessions: %d", total)),
	}

	if total == 0 {
		lines = append(lines, s.empty.Render("No classes scheduled."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	width := opts.cellWidth()
	cells := cellLines(grid, width, s)

	table := []string{headerRow(grid.Days, opts.Today, width, s)}
	for slotIndex, slot := range grid.Slots {
		table = append(table, slotRow(slot, cells, slotIndex, width, s))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, table...)))

	if len(grid.Unplaced) > 0 {
		outside := []string{s.warning.Render("Outside grid hours:")}
		for _, session := range grid.Unplaced {
			outside = append(outside, sessionLine(session, true, s))
		}
		lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, outside...)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// cellLines returns, per day and slot, the text lines drawn in that cell.
// A session writes its label in its anchor slot and a marker in every later
// slot it still covers.
func cellLines(grid domain.Grid, width int, s styles) [][][]string {
	cells := make([][][]string, len(grid.Days))
	for day := range cells {
		cells[day] = make([][]string, len(grid.Slots))
	}

	textWidth := width - 1
	for _, placement := range grid.Placements {
		if placement.DayIndex < 0 || placement.DayIndex >= len(grid.Days) {
			continue
		}
		if placement.SlotIndex < 0 || placement.SlotIndex >= len(grid.Slots) {
			continue
		}

		style := s.session(placement.Session.Color)
		subject := clean(placement.Session.Subject)
		label := truncate(fmt.Sprintf("%s %s", placement.Session.Start, subject), textWidth)
		anchor := &cells[placement.DayIndex][placement.SlotIndex]
		*anchor = append(*anchor, style.Render(label))

		spans := int(math.Ceil(placement.Offset + placement.Height))
		for k := 1; k < spans && placement.SlotIndex+k < len(grid.Slots); k++ {
			covered := &cells[placement.DayIndex][placement.SlotIndex+k]
			*covered = append(*covered, s.continuation.Render(truncate("┆ "+subject, textWidth)))
		}
	}

	return cells
}

func headerRow(days []domain.Weekday, today domain.Weekday, width int, s styles) string {
	columns := []string{s.slotLabel.Width(slotLabelWidth).Render("")}
	for _, day := range days {
		name := day.Short()
		if day == today {
			name += " *"
		}
		columns = append(columns, s.dayHeader.Width(width).Render(name))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func slotRow(slot domain.TimeOfDay, cells [][][]string, slotIndex, width int, s styles) string {
	height := 1
	for day := range cells {
		if n := len(cells[day][slotIndex]); n > height {
			height = n
		}
	}

	columns := []string{s.slotLabel.Width(slotLabelWidth).Height(height).Render(slot.String())}
	for day := range cells {
		content := strings.Join(cells[day][slotIndex], "\n")
		if content == "" {
			content = s.continuation.Render("·")
		}
		columns = append(columns, s.cell.Width(width).Height(height).Render(content))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, columns...)
}

func renderListView(sessions []domain.ClassSession, opts ListOptions, s styles) string {
	title := "Weekly classes"
	if opts.Day != "" {
		title = fmt.Sprintf("Classes on %s", opts.Day)
	}
	lines := []string{
		s.title.Render(title),
		s.header.Render(fmt.Sprintf("sessions: %d", len(sessions))),
	}

	if len(sessions) == 0 {
		lines = append(lines, s.empty.Render(emptyListMessage(opts.Day)))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	var (
		current domain.Weekday
		group   []string
	)
	flush := func() {
		if len(group) > 0 {
			lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, group...)))
		}
		group = nil
	}
	for i, session := range sessions {
		if i == 0 || session.Day != current {
			flush()
			current = session.Day
			group = append(group, s.dayHeader.Render(dayLabel(session.Day)))
		}
		group = append(group, sessionLine(session, false, s))
	}
	flush()

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func emptyListMessage(day domain.Weekday) string {
	if day == "" {
		return "No classes scheduled."
	}
	return fmt.Sprintf("No classes scheduled for %s.", day)
}

func dayLabel(day domain.Weekday) string {
	if day == "" {
		return "(no day)"
	}
	return clean(string(day))
}

func sessionLine(session domain.ClassSession, withDay bool, s styles) string {
	when := fmt.Sprintf("%s-%s", session.Start, session.End)
	if withDay {
		when = fmt.Sprintf("%s %s", session.Day.Short(), when)
	}

	parts := []string{
		s.detail.Render(when),
		s.meta.Render(fmt.Sprintf("(%s)", domain.FormatDuration(session.DurationMinutes()))),
		s.session(session.Color).Bold(true).Render(clean(session.Subject)),
		s.detail.Render(fmt.Sprintf("with %s in %s", clean(session.Teacher), clean(session.Room))),
		s.meta.Render(fmt.Sprintf("[%s]", clean(string(session.ID)))),
	}
	return "  " + strings.Join(parts, " ")
}

func truncate(value string, width int) string {
	runes := []rune(value)
	if width <= 0 {
		return ""
	}
	if len(runes) <= width {
		return value
	}
	if width == 1 {
		return "…"
	}
	return string(runes[:width-1]) + "…"
}

func clean(value string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
