package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mktautomations/opsc/internal/adapters/render/transcript"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/spf13/cobra"
)

func newChatCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with an agent and save replies",
	}

	cmd.AddCommand(
		newChatUseCmd(app),
		newChatSendCmd(app),
		newChatShowCmd(app),
		newChatPromoteCmd(app),
		newChatSavedCmd(app),
		newChatClearCmd(app),
		newChatSpecialtiesCmd(app),
	)

	return cmd
}

func newChatUseCmd(app *app) *cobra.Command {
	var (
		projectID int64
		agentID   int64
		clear     bool
	)

	cmd := &cobra.Command{
		Use:   "use",
		Short: "Select the project and agent for the conversation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if projectID < 0 || agentID < 0 {
				return errors.New("project and agent ids must be positive")
			}
			key := domain.ConversationKey{ProjectID: projectID, AgentID: agentID}
			if err := app.engine.SetContext(cmd.Context(), key); err != nil {
				return describe("Saved outputs", err)
			}
			if clear {
				if err := app.engine.ClearHistory(cmd.Context()); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Context: %s\n", key)
			if saved := app.engine.SavedOutputs(); len(saved) > 0 {
				_, _ = fmt.Fprintf(out, "%d saved outputs for this context\n", len(saved))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "Agent id")
	cmd.Flags().BoolVar(&clear, "clear", false, "Also clear the turn history")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("agent")

	return cmd
}

func newChatSendCmd(app *app) *cobra.Command {
	var (
		opts        domain.GenerationOptions
		temperature float64
		specialty   string
	)

	cmd := &cobra.Command{
		Use:   "send PROMPT...",
		Short: "Send a prompt with the recent turns as context",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("temperature") {
				opts.Temperature = &temperature
			}
			if specialty != "" {
				applied, err := app.studio.ApplySpecialty(cmd.Context(), specialty, opts)
				if err != nil {
					return describe("Specialties", err)
				}
				opts = applied
			}

			prompt := strings.Join(args, " ")
			var reply domain.Turn
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Generating...", app.quiet, func(ctx context.Context) error {
				var sendErr error
				reply, sendErr = app.engine.SubmitTurn(ctx, prompt, opts)
				return sendErr
			})
			if err != nil {
				return describe("Generation", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, reply.Content)
			if reply.Run != nil {
				index := len(app.engine.Context().Turns) - 1
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[turn %d · run %d · %s/%s · $%.4f]\n", index, reply.Run.RunID, reply.Run.Provider, reply.Run.Model, reply.Run.CostUSD)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.SystemPrompt, "system", "", "System prompt")
	cmd.Flags().StringVar(&opts.ProviderPreference, "provider", "auto", "Provider preference")
	cmd.Flags().StringVar(&opts.Model, "model", "", "Model name")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "Sampling temperature")
	cmd.Flags().IntVar(&opts.MaxOutputTokens, "max-tokens", 0, "Maximum output tokens")
	cmd.Flags().Int64Var(&opts.StageID, "stage", 0, "Stage id")
	cmd.Flags().StringVar(&specialty, "specialty", "", "Text specialty code supplying the system prompt and model")

	return cmd
}

func newChatShowCmd(app *app) *cobra.Command {
	var (
		plain bool
		width int
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the conversation transcript",
		RunE: func(cmd *cobra.Command, _ []string) error {
			style := ""
			if plain {
				style = "notty"
			}
			rendered, err := transcript.Render(app.engine.Context(), transcript.Options{Style: style, Width: width})
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Render without colors")
	cmd.Flags().IntVar(&width, "width", 0, "Wrap width")

	return cmd
}

func newChatPromoteCmd(app *app) *cobra.Command {
	var (
		label string
		notes string
	)

	cmd := &cobra.Command{
		Use:   "promote TURN",
		Short: "Save an assistant reply as a named output",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid turn index %q", args[0])
			}

			saved, err := app.engine.Promote(cmd.Context(), index, label, notes)
			if err != nil {
				return describe("Save", err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Saved output %d %q (conversation %d, message %d)\n", saved.ID, saved.Label, saved.ConversationID, saved.MessageID)
			return err
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "Label for the saved output")
	cmd.Flags().StringVar(&notes, "notes", "", "Optional notes")
	_ = cmd.MarkFlagRequired("label")

	return cmd
}

func newChatSavedCmd(app *app) *cobra.Command {
	var (
		projectID int64
		agentID   int64
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "saved",
		Short: "List saved outputs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			key := savedOutputsKey(cmd, app, projectID, agentID)
			outputs, err := app.engine.ListSavedOutputs(cmd.Context(), key.ProjectID, key.AgentID)
			if err != nil {
				return describe("Saved outputs", err)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(outputs)
			}
			if len(outputs) == 0 {
				_, err := fmt.Fprintln(out, "No saved outputs.")
				return err
			}
			for _, output := range outputs {
				_, _ = fmt.Fprintf(out, "%d\t%s\t%s\t%s\n", output.ID, output.Label, output.CreatedAt.Format("2006-01-02 15:04"), firstLine(output.Content))
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&projectID, "project", 0, "Project id (defaults to the chat context)")
	cmd.Flags().Int64Var(&agentID, "agent", 0, "Agent id (defaults to the chat context)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")

	return cmd
}

func newChatClearCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the turn history and keep the selected context",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.engine.ClearHistory(cmd.Context()); err != nil {
				return err
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "History cleared")
			return err
		},
	}
}

func newChatSpecialtiesCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "specialties",
		Short: "List text generation specialties",
		RunE: func(cmd *cobra.Command, _ []string) error {
			specialties, err := app.studio.ListTextSpecialties(cmd.Context())
			if err != nil {
				return describe("Specialties", err)
			}
			out := cmd.OutOrStdout()
			for _, specialty := range specialties {
				_, _ = fmt.Fprintf(out, "%s\t%s\t%s/%s\n", specialty.Code, specialty.Name, orDash(specialty.RecommendedProvider), orDash(specialty.RecommendedModel))
			}
			return nil
		},
	}
}

// savedOutputsKey fills unset filter flags from the chat context.
func savedOutputsKey(cmd *cobra.Command, app *app, projectID, agentID int64) domain.ConversationKey {
	current := app.engine.Context().Key
	if !cmd.Flags().Changed("project") {
		projectID = current.ProjectID
	}
	if !cmd.Flags().Changed("agent") {
		agentID = current.AgentID
	}
	return domain.ConversationKey{ProjectID: projectID, AgentID: agentID}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	const maxLen = 60
	if runes := []rune(line); len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return line
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
