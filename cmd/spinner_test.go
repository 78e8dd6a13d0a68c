package cmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPendingModelShowsElapsedTimeForSlowRequests(t *testing.T) {
	t.Parallel()

	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	now := started
	model := pendingModel{
		spin:    spinner.New(),
		label:   "Sending prompt...",
		started: started,
		now:     func() time.Time { return now },
	}

	assert.Contains(t, model.View(), "Sending prompt...")
	assert.NotContains(t, model.View(), "(0s)")

	now = started.Add(3500 * time.Millisecond)
	assert.Contains(t, model.View(), "(3s)")
}

func TestPendingModelQuitsWithRequestResult(t *testing.T) {
	t.Parallel()

	failure := errors.New("boom")
	model := pendingModel{spin: spinner.New(), now: time.Now}

	next, cmd := model.Update(requestFinishedMsg{err: failure})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	done := next.(pendingModel)
	assert.ErrorIs(t, done.result, failure)
	assert.Empty(t, done.View())
}

func TestRunWithSpinnerQuietRunsInline(t *testing.T) {
	t.Parallel()

	called := false
	err := runWithSpinner(context.Background(), nil, "ignored", true, func(context.Context) error {
		called = true
		return nil
	})

	require.NoError(t, err)
	assert.True(t, called)
}
