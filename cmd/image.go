package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"mime"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mktautomations/opsc/internal/domain"
	"github.com/spf13/cobra"
)

func newImageCmd(app *app) *cobra.Command {
	var (
		request domain.ImageGeneration
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "image PROMPT...",
		Short: "Generate an image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.engine.Context().Key
			if !cmd.Flags().Changed("project") {
				request.Key.ProjectID = current.ProjectID
			}
			if !cmd.Flags().Changed("agent") {
				request.Key.AgentID = current.AgentID
			}
			if !request.Key.Complete() {
				return domain.ErrMissingContext
			}
			request.Prompt = strings.Join(args, " ")

			var result domain.ImageResult
			err := runWithSpinner(cmd.Context(), cmd.ErrOrStderr(), "Generating image...", app.quiet, func(ctx context.Context) error {
				var genErr error
				result, genErr = app.studio.GenerateImage(ctx, request)
				return genErr
			})
			if err != nil {
				return describe("Image", err)
			}

			out := cmd.OutOrStdout()
			switch {
			case result.ImageBase64 != "":
				data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
				if err != nil {
					return fmt.Errorf("decode image: %w", err)
				}
				path := outPath
				if path == "" {
					path = fmt.Sprintf("image-%d%s", result.Run.RunID, imageExtension(result.MimeType))
				}
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return fmt.Errorf("write image: %w", err)
				}
				_, _ = fmt.Fprintf(out, "Wrote %s (%s)\n", path, humanize.Bytes(uint64(len(data))))
			case result.ImageURL != "":
				_, _ = fmt.Fprintln(out, result.ImageURL)
			default:
				_, _ = fmt.Fprintln(out, "No image returned.")
			}
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "[run %d · %s/%s · $%.4f]\n", result.Run.RunID, result.Run.Provider, result.Run.Model, result.Run.CostUSD)
			return nil
		},
	}

	cmd.Flags().Int64Var(&request.Key.ProjectID, "project", 0, "Project id (defaults to the chat context)")
	cmd.Flags().Int64Var(&request.Key.AgentID, "agent", 0, "Agent id (defaults to the chat context)")
	cmd.Flags().StringVar(&request.Size, "size", "1024x1024", "Image size")
	cmd.Flags().StringVar(&request.ProviderPreference, "provider", "auto", "Provider preference")
	cmd.Flags().StringVar(&request.Model, "model", "", "Model name")
	cmd.Flags().Int64Var(&request.StageID, "stage", 0, "Stage id")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file for inline image data")

	return cmd
}

func imageExtension(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "", "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	}
	if extensions, err := mime.ExtensionsByType(mimeType); err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ".bin"
}
