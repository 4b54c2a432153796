package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ytkit/internal/auth"
	"ytkit/internal/services"
)

func newAuthCommand(ctx *commandContext) *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored Google credentials",
	}

	authCmd.AddCommand(newAuthSetupCommand(ctx))
	authCmd.AddCommand(newAuthCheckCommand(ctx))
	authCmd.AddCommand(newAuthRevokeCommand(ctx))

	return authCmd
}

func newAuthFlow(ctx *commandContext, cmd *cobra.Command) (*auth.Flow, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}
	store, err := ctx.tokenStore()
	if err != nil {
		return nil, err
	}
	return &auth.Flow{
		Store:            store,
		ClientSecretPath: cfg.Paths.ClientSecretPath,
		RedirectPort:     cfg.Auth.RedirectPort,
		RevokeURL:        cfg.Auth.RevokeURL,
		Logger:           ctx.log(),
		Out:              cmd.OutOrStdout(),
	}, nil
}

func newAuthSetupCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "setup",
		Short: "Run the OAuth consent flow and store credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := newAuthFlow(ctx, cmd)
			if err != nil {
				return err
			}
			return flow.Setup(cmd.Context())
		},
	}
}

func newAuthCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report the state of stored credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.tokenStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			rec, err := store.Load()
			if errors.Is(err, services.ErrNoCredentials) {
				fmt.Fprintf(out, "Token file:    %s\n", store.Path())
				fmt.Fprintln(out, "Status:        no credentials stored")
				fmt.Fprintln(out, "Run 'ytkit auth setup' to authorize.")
				return err
			}
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Token file:    %s\n", store.Path())
			fmt.Fprintf(out, "Client ID:     %s\n", rec.ClientID)
			fmt.Fprintf(out, "Scopes:        %s\n", strings.Join(rec.Scopes, " "))
			fmt.Fprintf(out, "Refresh token: %s\n", yesNo(rec.RefreshToken != ""))
			if rec.Expiry.IsZero() {
				fmt.Fprintln(out, "Expiry:        unknown")
			} else {
				fmt.Fprintf(out, "Expiry:        %s\n", rec.Expiry.UTC().Format("2006-01-02 15:04:05 MST"))
			}

			// Exercise the refresh path so a revoked grant is caught here
			// instead of on the next real command.
			if _, err := store.Token(cmd.Context()); err != nil {
				fmt.Fprintln(out, "Status:        refresh failed")
				return err
			}
			fmt.Fprintln(out, "Status:        valid")
			return nil
		},
	}
}

func newAuthRevokeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke",
		Short: "Revoke the stored grant and delete the token file",
		RunE: func(cmd *cobra.Command, args []string) error {
			flow, err := newAuthFlow(ctx, cmd)
			if err != nil {
				return err
			}
			return flow.Revoke(cmd.Context())
		},
	}
}
