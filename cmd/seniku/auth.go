package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/alif-arrizqy/allboom-app/internal/models"
	"github.com/spf13/cobra"
)

type statusOutput struct {
	Authenticated bool         `json:"authenticated" yaml:"authenticated"`
	User          *models.User `json:"user,omitempty" yaml:"user,omitempty"`
	Role          models.Role  `json:"role,omitempty" yaml:"role,omitempty"`
	ExpiresAt     *time.Time   `json:"accessTokenExpiresAt,omitempty" yaml:"accessTokenExpiresAt,omitempty"`
	Expired       bool         `json:"accessTokenExpired,omitempty" yaml:"accessTokenExpired,omitempty"`
}

func newLoginCmd(a *app) *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "login <nip|nis>",
		Short: "Log in with the NIP (teachers) or NIS (students)",
		Long: `Log in with the NIP (teachers) or NIS (students).

The password is read from the --password flag or, when it is not set, from the first line of stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("reading the password failed: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			user, err := a.api.Auth.Login(cmd.Context(), args[0], password)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Logged in as %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and remove the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !a.api.IsAuthenticated(cmd.Context()) {
				fmt.Fprintln(a.out, "Not logged in.")
				return a.api.Session().Teardown(cmd.Context())
			}
			return a.api.Logout(cmd.Context())
		},
	}
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			output := statusOutput{Authenticated: a.api.IsAuthenticated(ctx)}
			if !output.Authenticated {
				return a.print(output)
			}
			creds, err := a.api.Session().Credentials(ctx)
			if err != nil {
				return err
			}
			output.User = creds.User
			// Opaque tokens have no claims, the status is still printed.
			if claims, err := a.api.Session().Claims(ctx); err == nil {
				output.Role = claims.Role
				if claims.ExpiresAt != nil {
					expiresAt := claims.ExpiresAt.Time
					output.ExpiresAt = &expiresAt
					output.Expired = claims.Expired(time.Now())
				}
			}
			return a.print(output)
		},
	}
}
