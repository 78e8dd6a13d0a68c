package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/mktautomations/opsc/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd(app *app) *cobra.Command {
	var (
		email          string
		accessKey      string
		accessKeyStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with an email and access key",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if accessKeyStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("read access key from stdin: %w", err)
				}
				accessKey = line
			}
			if strings.TrimSpace(accessKey) == "" {
				return errors.New("an access key is required: use --access-key or --access-key-stdin")
			}

			if err := app.session.Login(cmd.Context(), email, accessKey); err != nil {
				return describe("Login", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", strings.TrimSpace(email))
			return err
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&accessKey, "access-key", "", "Access key (prefer --access-key-stdin)")
	cmd.Flags().BoolVar(&accessKeyStdin, "access-key-stdin", false, "Read the access key from stdin")
	_ = cmd.MarkFlagRequired("email")
	cmd.MarkFlagsMutuallyExclusive("access-key", "access-key-stdin")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local session state",
		RunE: func(cmd *cobra.Command, _ []string) error {
			wasAuthenticated := app.session.Session().Authenticated()
			app.session.Logout(cmd.Context())
			app.session.WaitPending(cmd.Context())

			message := "Logged out"
			if !wasAuthenticated {
				message = "No active session; local state cleared"
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), message)
			return err
		},
	}
}

func newWhoamiCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session status and profile",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			credential, ok := app.session.Credential()
			if !ok {
				_, err := fmt.Fprintln(out, "status: anonymous")
				return err
			}

			descriptor, found := app.source(domain.SourceContext)
			if !found {
				_, err := fmt.Fprintln(out, "status: authenticated")
				return err
			}

			outcome := app.fetcher.Fetch(cmd.Context(), descriptor, credential, domain.RoundFilter{})
			switch outcome.Kind {
			case domain.OutcomeAuthFailure:
				return describe("Context", app.session.Invalidate(cmd.Context(), credential))
			case domain.OutcomeOk:
			default:
				_, _ = fmt.Fprintln(out, "status: authenticated")
				return errors.New(outcome.Message())
			}

			me, _ := outcome.Payload.(domain.MeContext)
			_, _ = fmt.Fprintln(out, "status: authenticated")
			_, _ = fmt.Fprintf(out, "email: %s\n", me.Profile.Email)
			_, _ = fmt.Fprintf(out, "user id: %d\n", me.Profile.UserID)
			if len(me.Profile.Roles) > 0 {
				_, _ = fmt.Fprintf(out, "roles: %s\n", strings.Join(me.Profile.Roles, ", "))
			}
			for _, project := range me.Projects {
				_, _ = fmt.Fprintf(out, "project %d\t%s\t%s\t%s\n", project.ProjectID, project.ProjectKey, project.ProjectName, project.MemberRole)
			}
			return nil
		},
	}
}
