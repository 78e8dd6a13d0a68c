package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/mktautomations/opsc/internal/ports"
	"github.com/spf13/cobra"
)

var errLedgerUnavailable = errors.New("run ledger unavailable: check ledger.path")

type runsOutput struct {
	Runs   []runRow  `json:"runs"`
	Totals runTotals `json:"totals"`
}

type runTotals struct {
	RunsCount    int64   `json:"total_runs_count"`
	CostUSD      float64 `json:"total_cost_usd"`
	InputTokens  int64   `json:"token_input_count"`
	OutputTokens int64   `json:"token_output_count"`
}

func newRunTotals(totals domain.RunTotals) runTotals {
	return runTotals{
		RunsCount:    totals.Runs,
		CostUSD:      totals.CostUSD,
		InputTokens:  totals.InputTokens,
		OutputTokens: totals.OutputTokens,
	}
}

type runRow struct {
	RunID        int64   `json:"run_id"`
	Kind         string  `json:"kind"`
	ProjectID    int64   `json:"project_id"`
	AgentID      int64   `json:"agent_id"`
	Provider     string  `json:"provider"`
	Model        string  `json:"model_name"`
	CostUSD      float64 `json:"cost_usd"`
	InputTokens  int64   `json:"token_input_count"`
	OutputTokens int64   `json:"token_output_count"`
	RecordedAt   string  `json:"recorded_at"`
}

func newRunsCmd(app *app) *cobra.Command {
	var (
		filter ports.RunFilter
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List generation runs recorded on this machine",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if app.ledger == nil {
				return errLedgerUnavailable
			}

			records, err := app.ledger.List(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}
			totals, err := app.ledger.Totals(cmd.Context(), filter)
			if err != nil {
				return fmt.Errorf("sum runs: %w", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				payload := runsOutput{Runs: make([]runRow, 0, len(records)), Totals: newRunTotals(totals)}
				for _, record := range records {
					payload.Runs = append(payload.Runs, runRow{
						RunID:        record.RunID,
						Kind:         string(record.Kind),
						ProjectID:    record.Key.ProjectID,
						AgentID:      record.Key.AgentID,
						Provider:     record.Provider,
						Model:        record.Model,
						CostUSD:      record.CostUSD,
						InputTokens:  record.InputTokens,
						OutputTokens: record.OutputTokens,
						RecordedAt:   record.RecordedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(payload)
			}

			if len(records) == 0 {
				_, err := fmt.Fprintln(out, "No runs recorded.")
				return err
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "RUN\tKIND\tPROJECT\tAGENT\tMODEL\tTOKENS\tCOST\tWHEN")
			now := app.now()
			for _, record := range records {
				_, _ = fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s/%s\t%s/%s\t$%.4f\t%s\n",
					record.RunID,
					record.Kind,
					record.Key.ProjectID,
					record.Key.AgentID,
					orDash(record.Provider),
					orDash(record.Model),
					humanize.Comma(record.InputTokens),
					humanize.Comma(record.OutputTokens),
					record.CostUSD,
					humanize.RelTime(record.RecordedAt, now, "ago", "from now"),
				)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "\n%s runs, $%.4f total, %s input / %s output tokens\n",
				humanize.Comma(totals.Runs),
				totals.CostUSD,
				humanize.Comma(totals.InputTokens),
				humanize.Comma(totals.OutputTokens),
			)
			return err
		},
	}

	cmd.Flags().Int64Var(&filter.ProjectID, "project", 0, "Only runs for this project")
	cmd.Flags().Int64Var(&filter.AgentID, "agent", 0, "Only runs for this agent")
	cmd.Flags().IntVar(&filter.Limit, "limit", 20, "Maximum rows (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}
