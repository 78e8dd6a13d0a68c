package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/mktautomations/opsc/internal/adapters/export"
	"github.com/spf13/cobra"
)

func newExportCmd(app *app) *cobra.Command {
	var (
		format    string
		outPath   string
		projectID int64
		agentID   int64
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export saved outputs as JSON, YAML or Markdown",
		RunE: func(cmd *cobra.Command, _ []string) error {
			exporter, err := export.NewExporter(format)
			if err != nil {
				return err
			}

			key := savedOutputsKey(cmd, app, projectID, agentID)
			outputs, err := app.engine.ListSavedOutputs(cmd.Context(), key.ProjectID, key.AgentID)
			if err != nil {
				return describe("Saved outputs", err)
			}

			var w io.Writer = cmd.OutOrStdout()
			if outPath != "" {
				file, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer file.Close()
				w = file
			}

			if err := exporter.Export(outputs, w); err != nil {
				return fmt.Errorf("export saved outputs: %w", err)
			}
			if outPath != "" {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d saved outputs to %s\n", len(outputs), outPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json, yaml or md")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to a file instead of stdout")
	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id (defaults to the chat context)")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "Agent id (defaults to the chat context)")

	return cmd
}
