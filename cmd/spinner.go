package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// elapsedAfter is how long a request runs before the spinner shows a timer.
const elapsedAfter = 2 * time.Second

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
	elapsedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type requestFinishedMsg struct{ err error }

type pendingModel struct {
	spin    spinner.Model
	label   string
	request tea.Cmd
	started time.Time
	now     func() time.Time
	result  error
	settled bool
}

func (m pendingModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.request)
}

func (m pendingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case requestFinishedMsg:
		m.result, m.settled = msg.err, true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m pendingModel) View() string {
	if m.settled {
		return ""
	}

	view := m.spin.View() + " " + m.label
	if waited := m.now().Sub(m.started); waited >= elapsedAfter {
		view += " " + elapsedStyle.Render(fmt.Sprintf("(%ds)", int(waited.Seconds())))
	}
	return view
}

// runWithSpinner animates label on output until request returns. Quiet runs
// the request inline with no terminal output.
func runWithSpinner(ctx context.Context, output io.Writer, label string, quiet bool, request func(context.Context) error) error {
	if quiet {
		return request(ctx)
	}

	model := pendingModel{
		spin:    spinner.New(spinner.WithSpinner(spinner.MiniDot), spinner.WithStyle(spinnerStyle)),
		label:   label,
		started: time.Now(),
		now:     time.Now,
		request: func() tea.Msg {
			return requestFinishedMsg{err: request(ctx)}
		},
	}

	final, err := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(output),
	).Run()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}

	done, ok := final.(pendingModel)
	if !ok {
		return fmt.Errorf("spinner finished with %T", final)
	}
	return done.result
}
