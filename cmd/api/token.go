package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/worklog-backend-go/internal/config"
	"github.com/cmlabs-hris/worklog-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/jwt"
)

// tokenCmd mints an access token signed with JWT_SECRET_KEY, for local
// development without the identity provider.
func tokenCmd() *cobra.Command {
	var (
		username string
		groups   []string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed access token for local development",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
				GenerateAccessToken(auth.Identity{Username: username, Groups: groups})
			if err != nil {
				return fmt.Errorf("generate token: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(out, "expires %s\n", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "username claim")
	cmd.Flags().StringSliceVar(&groups, "groups", nil, "comma separated groups, e.g. managers")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
