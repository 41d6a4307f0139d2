package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Joseda-hg/todobreeze/internal/web"
)

func tokenCmd(flags *globalFlags) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token <subject>",
		Short: "Mint a bearer token for the web server",
		Long: `Sign a token with auth_secret. The subject becomes the owner of every
task and project created with the token.

Examples:
  todobreeze token alice
  todobreeze token alice --ttl 720h`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(flags)
			if err != nil {
				return err
			}
			token, err := web.NewToken(cfg.AuthSecret, args[0], ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime, 0 for no expiry")
	return cmd
}
