package dashboard

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/mktautomations/opsc/internal/domain"
)

const defaultMaxRows = 10

type RenderOptions struct {
	Now time.Time
	// Message is the advisory summary of the last round.
	Message string
	MaxRows int
	// Width clips every line to this many columns when positive.
	Width int
}

var sourceOrder = []domain.SourceName{domain.SourceContext, domain.SourceDashboard, domain.SourceCosts}

func renderView(snapshot domain.AggregationSnapshot, opts RenderOptions, s styles) string {
	if opts.MaxRows <= 0 {
		opts.MaxRows = defaultMaxRows
	}

	lines := []string{
		s.title.Render("Operations Console"),
		s.header.Render(identityLine(snapshot)),
		statusLine(snapshot, s),
	}

	lines = append(lines, s.section.Render(renderKPIs(snapshot, opts, s)))
	lines = append(lines, s.section.Render(renderProjects(snapshot, opts, s)))
	lines = append(lines, s.section.Render(renderCosts(snapshot, opts, s)))

	if opts.Message != "" {
		lines = append(lines, s.section.Render(s.warning.Render(opts.Message)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func identityLine(snapshot domain.AggregationSnapshot) string {
	me, ok := snapshot.Context()
	if !ok {
		return "user: unknown"
	}

	line := "user: " + me.Profile.Email
	if len(me.Profile.Roles) > 0 {
		line += " (" + strings.Join(me.Profile.Roles, ", ") + ")"
	}
	return line
}

func statusLine(snapshot domain.AggregationSnapshot, s styles) string {
	parts := make([]string, 0, len(sourceOrder))
	for _, name := range sourceOrder {
		status, ok := snapshot.Status[name]
		if !ok {
			continue
		}
		var style lipgloss.Style
		switch status {
		case domain.SourceOK:
			style = s.statusOK
		case domain.SourceError:
			style = s.statusErr
		default:
			style = s.statusIdle
		}
		parts = append(parts, s.key.Render(string(name)+":")+" "+style.Render(string(status)))
	}
	return strings.Join(parts, "  ")
}

// staleMarker flags a section whose payload survived a failed round.
func staleMarker(snapshot domain.AggregationSnapshot, name domain.SourceName, s styles) string {
	if snapshot.Status[name] == domain.SourceError {
		return " " + s.warning.Render("[stale]")
	}
	return ""
}

func unavailable(snapshot domain.AggregationSnapshot, name domain.SourceName, s styles) string {
	if snapshot.Status[name] == domain.SourceError {
		return s.warning.Render(name.Label() + " unavailable.")
	}
	return s.empty.Render("No " + strings.ToLower(name.Label()) + " data yet.")
}

func renderKPIs(snapshot domain.AggregationSnapshot, opts RenderOptions, s styles) string {
	heading := s.heading.Render("Overview") + staleMarker(snapshot, domain.SourceDashboard, s)
	board, ok := snapshot.Dashboard()
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, heading, unavailable(snapshot, domain.SourceDashboard, s))
	}

	kpis := board.KPIs
	rows := []string{
		heading,
		kpiLine("projects", humanize.Comma(kpis.ProjectsCount), s),
		kpiLine("blocked stages", humanize.Comma(kpis.BlockedStagesCount), s),
		kpiLine("failed runs (7d)", humanize.Comma(kpis.FailedRunsCount7d), s),
		kpiLine("queued runs", humanize.Comma(kpis.QueuedRunsCount), s),
		kpiLine("published artifacts", humanize.Comma(kpis.PublishedArtifactsCount), s),
		kpiLine("cost (30d)", formatUSD(kpis.CostUSDTotal30d), s),
	}
	if !board.GeneratedAt.IsZero() {
		rows = append(rows, s.meta.Render("generated "+relative(board.GeneratedAt, opts.Now)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func kpiLine(label, value string, s styles) string {
	return s.key.Render(fmt.Sprintf("%-20s", label)) + " " + s.detail.Render(value)
}

func renderProjects(snapshot domain.AggregationSnapshot, opts RenderOptions, s styles) string {
	heading := s.heading.Render("Projects") + staleMarker(snapshot, domain.SourceDashboard, s)
	board, ok := snapshot.Dashboard()
	if !ok {
		return heading
	}
	if len(board.Projects) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, heading, s.empty.Render("No projects."))
	}

	rows := []string{heading}
	for i, project := range board.Projects {
		if i == opts.MaxRows {
			rows = append(rows, s.meta.Render(fmt.Sprintf("... %d more", len(board.Projects)-opts.MaxRows)))
			break
		}
		title := fmt.Sprintf("%s (%s)", project.ProjectName, project.ProjectKey)
		detail := fmt.Sprintf("%s · %s · blocked %d · failed %d · queued %d · %s",
			orNA(project.MemberRole),
			orNA(project.LifecycleStatus),
			project.BlockedStagesCount,
			project.FailedRunsCount7d,
			project.QueuedRunsCount,
			formatUSD(project.CostUSDTotal30d),
		)
		if !project.UpdatedAt.IsZero() {
			detail += " · updated " + relative(project.UpdatedAt, opts.Now)
		}
		rows = append(rows, s.project.Render(title)+" "+s.detail.Render(detail))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCosts(snapshot domain.AggregationSnapshot, opts RenderOptions, s styles) string {
	costs, ok := snapshot.Costs()
	title := "Costs"
	if ok {
		title = fmt.Sprintf("Costs (last %d days", costs.Days)
		if costs.ProjectID != nil {
			title += fmt.Sprintf(", project %d", *costs.ProjectID)
		}
		title += ")"
	}
	heading := s.heading.Render(title) + staleMarker(snapshot, domain.SourceCosts, s)
	if !ok {
		return lipgloss.JoinVertical(lipgloss.Left, heading, unavailable(snapshot, domain.SourceCosts, s))
	}

	rows := []string{
		heading,
		kpiLine("total", fmt.Sprintf("%s across %s runs", formatUSD(costs.TotalCostUSD), humanize.Comma(costs.TotalRunsCount)), s),
	}

	providers := slices.Clone(costs.ByProvider)
	slices.SortStableFunc(providers, func(a, b domain.CostByProvider) int {
		return compareDesc(a.TotalCostUSD, b.TotalCostUSD)
	})
	for _, provider := range providers {
		share := sharePercent(provider.TotalCostUSD, costs.TotalCostUSD)
		rows = append(rows, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.key.Render(fmt.Sprintf("%-20s", provider.Provider)),
			" ",
			renderShareBar(share, 20, s),
			" ",
			s.detail.Render(fmt.Sprintf("%3.0f%% %s (%d runs)", share, formatUSD(provider.TotalCostUSD), provider.RunsCount)),
		))
	}

	models := slices.Clone(costs.ByModel)
	slices.SortStableFunc(models, func(a, b domain.CostByModel) int {
		return compareDesc(a.TotalCostUSD, b.TotalCostUSD)
	})
	for i, entry := range models {
		if i == opts.MaxRows {
			break
		}
		rows = append(rows, s.meta.Render(fmt.Sprintf("  %s/%s %s (%d runs)", entry.Provider, entry.ModelName, formatUSD(entry.TotalCostUSD), entry.RunsCount)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderShareBar(percent float64, width int, s styles) string {
	if width <= 0 {
		return ""
	}

	filled := int(math.Round(float64(width) * clampPercent(percent) / 100.0))
	filled = min(max(filled, 0), width)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", width-filled)),
		s.barBracket.Render("]"),
	)
}

func sharePercent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return clampPercent(part / total * 100)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func compareDesc(a, b float64) int {
	switch {
	case a > b:
		return -1
	case a < b:
		return 1
	default:
		return 0
	}
}

// formatUSD keeps four decimals for sub-dollar amounts, where model costs
// usually land.
func formatUSD(v float64) string {
	if v != 0 && math.Abs(v) < 1 {
		return fmt.Sprintf("$%.4f", v)
	}
	return "$" + humanize.CommafWithDigits(v, 2)
}

func relative(t, now time.Time) string {
	if now.IsZero() {
		return t.Format(time.RFC3339)
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func orNA(v string) string {
	if strings.TrimSpace(v) == "" {
		return "n/a"
	}
	return v
}
