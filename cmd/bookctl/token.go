package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"booklibrary/internal/config"
	"booklibrary/internal/platform/crypto"
)

func newTokenCmd() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the import endpoint",
		Long:  `Signs an HS256 token with JWT_SECRET. The token authorizes POST /v1/books/import.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cfg.JWTSecret == "" {
				return errors.New("JWT_SECRET is required")
			}
			switch role {
			case crypto.RoleImporter, crypto.RoleAdmin:
			default:
				return fmt.Errorf("role %q: want %s or %s", role, crypto.RoleImporter, crypto.RoleAdmin)
			}

			token, _, err := crypto.GenerateToken(cfg.JWTSecret, subject, role, ttl)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "bookctl", "Token subject")
	cmd.Flags().StringVar(&role, "role", crypto.RoleImporter, "Token role (IMPORTER or ADMIN)")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "Token lifetime")
	return cmd
}
