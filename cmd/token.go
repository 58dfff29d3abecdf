package cmd

import (
	"fmt"
	"time"

	"inventory-tracker/core/config"
	"inventory-tracker/core/middleware/auth"

	"github.com/spf13/cobra"
)

var (
	tokenOwner string
	tokenTTL   time.Duration
)

// tokenCmd issues a bearer token for an owner.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API token for an owner",
	Long:  `Signs a bearer token with SERVER_JWT_SECRET whose subject is the owner id.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if tokenOwner == "" {
			return fmt.Errorf("--owner is required")
		}

		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ttl := tokenTTL
		if ttl <= 0 {
			ttl = cfg.Server.TokenTTL()
		}

		token, err := auth.Issue(auth.Config{Secret: cfg.Server.JWTSecret, Issuer: cfg.Server.JWTIssuer}, tokenOwner, ttl, time.Now())
		if err != nil {
			return err
		}

		fmt.Println(token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "Owner id")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "Token lifetime (defaults to SERVER_TOKEN_TTL_HOURS)")
	RootCmd.AddCommand(tokenCmd)
}
