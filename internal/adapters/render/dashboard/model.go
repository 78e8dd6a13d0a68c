package dashboard

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mktautomations/opsc/internal/domain"
)

var ErrUnexpectedRenderModel = errors.New("dashboard: unexpected final model")

// drawMsg asks the frame to lay itself out at width columns; zero leaves
// lines unclipped.
type drawMsg struct{ width int }

type frame struct {
	snapshot domain.AggregationSnapshot
	opts     RenderOptions
	styles   styles
	rendered string
}

func (f frame) Init() tea.Cmd {
	width := f.opts.Width
	return func() tea.Msg { return drawMsg{width: width} }
}

func (f frame) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	draw, ok := msg.(drawMsg)
	if !ok {
		return f, nil
	}

	out := renderView(f.snapshot, f.opts, f.styles)
	if draw.width > 0 {
		out = lipgloss.NewStyle().MaxWidth(draw.width).Render(out)
	}
	f.rendered = out
	return f, tea.Quit
}

func (f frame) View() string { return f.rendered }

// Render lays out the snapshot as a single frame without touching the
// terminal.
func Render(snapshot domain.AggregationSnapshot, opts RenderOptions) (string, error) {
	final, err := tea.NewProgram(
		frame{snapshot: snapshot, opts: opts, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	).Run()
	if err != nil {
		return "", err
	}

	f, ok := final.(frame)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}
	return f.rendered, nil
}
