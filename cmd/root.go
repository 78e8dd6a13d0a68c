package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd, app := buildRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	if app != nil {
		app.shutdown()
	}
	return err
}

func newRootCmd() *cobra.Command {
	rootCmd, _ := buildRootCmd()
	return rootCmd
}

func buildRootCmd() (*cobra.Command, *app) {
	rootCmd := &cobra.Command{
		Use:           "opsc",
		Short:         "Operations console for the AI platform",
		Long:          "opsc signs in to the AI platform backend, shows the operations dashboard with cost summaries, and runs chat sessions whose replies can be saved as named outputs.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd, nil
	}

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return app.start(cmd.Context())
	}
	rootCmd.PersistentFlags().BoolVarP(&app.quiet, "quiet", "q", false, "Disable progress spinners")

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newWhoamiCmd(app),
		newDashboardCmd(app),
		newChatCmd(app),
		newImageCmd(app),
		newRunsCmd(app),
		newExportCmd(app),
	)

	return rootCmd, app
}
