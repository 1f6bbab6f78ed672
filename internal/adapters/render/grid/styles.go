package grid

import (
	"github.com/bnema/class-schedule-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	title        lipgloss.Style
	header       lipgloss.Style
	dayHeader    lipgloss.Style
	slotLabel    lipgloss.Style
	cell         lipgloss.Style
	continuation lipgloss.Style
	detail       lipgloss.Style
	meta         lipgloss.Style
	section      lipgloss.Style
	empty        lipgloss.Style
	warning      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:        lipgloss.NewStyle().Bold(true),
		header:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		dayHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		slotLabel:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		cell:         lipgloss.NewStyle().PaddingRight(1),
		continuation: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		detail:       lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		meta:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		section:      lipgloss.NewStyle().MarginTop(1),
		empty:        lipgloss.NewStyle().Faint(true),
		warning:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
	}
}

func (s styles) session(color domain.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(foreground(color))
}
