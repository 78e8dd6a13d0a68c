package cmd

import (
	"context"
	"encoding/json"
	"fmt"

	dashboardrender "github.com/mktautomations/opsc/internal/adapters/render/dashboard"
	"github.com/mktautomations/opsc/internal/application"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	"github.com/spf13/cobra"
)

type dashboardOutput struct {
	Round     uint64                                    `json:"round"`
	Status    map[domain.SourceName]domain.SourceStatus `json:"status"`
	Message   string                                    `json:"message,omitempty"`
	Context   *domain.MeContext                         `json:"context,omitempty"`
	Dashboard *domain.MeDashboard                       `json:"dashboard,omitempty"`
	Costs     *domain.CostSummary                       `json:"costs,omitempty"`
}

func newDashboardCmd(app *app) *cobra.Command {
	var (
		projectID int64
		width     int
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the operations dashboard and cost summary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if projectID < 0 {
				return fmt.Errorf("invalid --project %d", projectID)
			}

			var report application.RoundReport
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading dashboard...", app.quiet || asJSON, func(ctx context.Context) error {
				var refreshErr error
				report, refreshErr = app.aggregator.Refresh(ctx, domain.RoundFilter{ProjectID: projectID})
				return refreshErr
			})
			if err != nil {
				return describe("Dashboard", err)
			}

			snapshot := app.aggregator.Snapshot()
			if asJSON {
				return writeDashboardJSON(cmd, report, snapshot)
			}

			rendered, err := app.dashboardRenderer(snapshot, dashboardrender.RenderOptions{
				Now:     app.now(),
				Message: report.Message,
				Width:   width,
			})
			if err != nil {
				return fmt.Errorf("render dashboard: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Restrict the cost summary to one project")
	cmd.Flags().IntVar(&width, "width", 0, "Clip dashboard lines to this many columns (0 disables)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the snapshot as JSON")

	return cmd
}

func writeDashboardJSON(cmd *cobra.Command, report application.RoundReport, snapshot domain.AggregationSnapshot) error {
	output := dashboardOutput{
		Round:   report.Round,
		Status:  snapshot.Status,
		Message: report.Message,
	}
	if me, ok := snapshot.Context(); ok {
		output.Context = &me
	}
	if board, ok := snapshot.Dashboard(); ok {
		output.Dashboard = &board
	}
	if costs, ok := snapshot.Costs(); ok {
		output.Costs = &costs
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func (a *app) source(name domain.SourceName) (ports.SourceDescriptor, bool) {
	for _, source := range a.sources {
		if source.Name == name {
			return source, true
		}
	}
	return ports.SourceDescriptor{}, false
}
