package dashboard

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullSnapshot(now time.Time) domain.AggregationSnapshot {
	snapshot := domain.NewAggregationSnapshot([]domain.SourceName{domain.SourceContext, domain.SourceDashboard, domain.SourceCosts})
	snapshot.Apply(domain.Ok(domain.SourceContext, domain.MeContext{
		Profile: domain.Profile{UserID: 1, Email: "ana@example.com", Roles: []string{"admin"}},
	}))
	snapshot.Apply(domain.Ok(domain.SourceDashboard, domain.MeDashboard{
		UserID:      1,
		GeneratedAt: now.Add(-3 * time.Hour),
		KPIs: domain.DashboardKPIs{
			ProjectsCount:      1234,
			BlockedStagesCount: 2,
			FailedRunsCount7d:  5,
			QueuedRunsCount:    1,
			CostUSDTotal30d:    1234.25,
		},
		Projects: []domain.DashboardProject{
			{
				ProjectRef: domain.ProjectRef{
					ProjectID:       3,
					ProjectKey:      "ACME",
					ProjectName:     "Acme launch",
					LifecycleStatus: "active",
					MemberRole:      "owner",
				},
				BlockedStagesCount: 2,
				CostUSDTotal30d:    0.0042,
			},
		},
	}))
	snapshot.Apply(domain.Ok(domain.SourceCosts, domain.CostSummary{
		Days:           30,
		TotalCostUSD:   40,
		TotalRunsCount: 12,
		ByProvider: []domain.CostByProvider{
			{Provider: "gemini", TotalCostUSD: 10, RunsCount: 4},
			{Provider: "openai", TotalCostUSD: 30, RunsCount: 8},
		},
		ByModel: []domain.CostByModel{
			{Provider: "openai", ModelName: "gpt-4.1-mini", TotalCostUSD: 30, RunsCount: 8},
		},
	}))
	return snapshot
}

func TestRenderFullSnapshot(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	output, err := Render(fullSnapshot(now), RenderOptions{Now: now})
	require.NoError(t, err)

	assert.Contains(t, output, "Operations Console")
	assert.Contains(t, output, "user: ana@example.com (admin)")
	assert.Contains(t, output, "1,234")
	assert.Contains(t, output, "$1,234.25")
	assert.Contains(t, output, "generated 3 hours ago")
	assert.Contains(t, output, "Acme launch (ACME)")
	assert.Contains(t, output, "$0.0042")
	assert.Contains(t, output, "Costs (last 30 days)")
	assert.Contains(t, output, "75%")
	assert.Contains(t, output, "openai/gpt-4.1-mini")
	assert.NotContains(t, output, "[stale]")
	assert.Less(t, strings.Index(output, "openai"), strings.Index(output, "gemini"))
}

func TestRenderMarksStalePayloadAfterFailedRound(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	snapshot := fullSnapshot(now)
	snapshot.Apply(domain.Failed(domain.SourceCosts, 500))

	output, err := Render(snapshot, RenderOptions{Now: now, Message: "partial view loaded. Costs: server unavailable (500)"})
	require.NoError(t, err)

	assert.Contains(t, output, "[stale]")
	assert.Contains(t, output, "Costs (last 30 days)")
	assert.Contains(t, output, "partial view loaded.")
}

func TestRenderShowsUnavailableSourcesWithoutPayload(t *testing.T) {
	snapshot := domain.NewAggregationSnapshot([]domain.SourceName{domain.SourceContext, domain.SourceDashboard, domain.SourceCosts})
	snapshot.Apply(domain.Unreachable(domain.SourceCosts))

	output, err := Render(snapshot, RenderOptions{})
	require.NoError(t, err)

	assert.Contains(t, output, "user: unknown")
	assert.Contains(t, output, "costs: error")
	assert.Contains(t, output, "dashboard: idle")
	assert.Contains(t, output, "Costs unavailable.")
	assert.Contains(t, output, "No dashboard data yet.")
}

func TestFormatUSD(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		in   float64
		want string
	}{
		{in: 0, want: "$0"},
		{in: 0.0042, want: "$0.0042"},
		{in: 12.5, want: "$12.5"},
		{in: 1234.25, want: "$1,234.25"},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.want, formatUSD(tc.in))
	}
}

func TestRenderClipsLinesToWidth(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	output, err := Render(fullSnapshot(now), RenderOptions{Now: now, Width: 30})
	require.NoError(t, err)

	for _, line := range strings.Split(output, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 30, line)
	}
	assert.Contains(t, output, "Operations Console")
}
