package commands

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simaogato/portfolio-backend/internal/adapter/auth"
	"github.com/simaogato/portfolio-backend/pkg/config"
)

// tokenCmd represents the token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue a bearer token for an owner",
	Long: `Signs a JWT for the given owner with JWT_SECRET and prints it.
Without --owner a fresh owner id is generated.

Example:
  go run ./cmd/server token --owner 00000000-0000-0000-0000-00000000d3e0 --ttl 1h`,
	RunE: runToken,
}

var (
	tokenOwner string
	tokenTTL   time.Duration
)

func init() {
	rootCmd.AddCommand(tokenCmd)

	tokenCmd.Flags().StringVar(&tokenOwner, "owner", "", "owner id (UUID)")
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime (default TOKEN_TTL)")
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ownerID := uuid.New()
	if tokenOwner != "" {
		ownerID, err = uuid.Parse(tokenOwner)
		if err != nil {
			return fmt.Errorf("invalid owner id: %w", err)
		}
	}

	ttl := cfg.TokenTTL
	if tokenTTL > 0 {
		ttl = tokenTTL
	}

	token, err := auth.NewVerifier(cfg.JWTSecret).NewToken(ownerID, ttl)
	if err != nil {
		return fmt.Errorf("sign token: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
