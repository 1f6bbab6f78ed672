package grid

import (
	"errors"
	"io"

	"github.com/bnema/class-schedule-cli/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	draw   func(styles) string
	styles styles
	output string
}

func newModel(draw func(styles) string) model {
	return model{
		draw:   draw,
		styles: newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.draw(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

// Render draws the weekly grid.
func Render(grid domain.Grid, opts RenderOptions) (string, error) {
	return run(newModel(func(s styles) string {
		return renderGridView(grid, opts, s)
	}))
}

// RenderList draws sessions, already in canonical order, grouped by day.
func RenderList(sessions []domain.ClassSession, opts ListOptions) (string, error) {
	return run(newModel(func(s styles) string {
		return renderListView(sessions, opts, s)
	}))
}

func run(m model) (string, error) {
	p := tea.NewProgram(
		m,
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
