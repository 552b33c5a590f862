package token

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lumishop/shopadmin/internal/application/apitoken/usecases"
	"github.com/lumishop/shopadmin/internal/infrastructure/database"
	"github.com/lumishop/shopadmin/internal/infrastructure/repository"
	infraToken "github.com/lumishop/shopadmin/internal/infrastructure/token"
	"github.com/lumishop/shopadmin/internal/interfaces/cli/bootstrap"
	"github.com/lumishop/shopadmin/internal/shared/logger"
)

var (
	opts          bootstrap.Options
	userEmail     string
	tokenName     string
	permissions   []string
	rateLimit     int
	expiresInDays int
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Manage API tokens",
	}

	opts.Bind(cmd)
	cmd.AddCommand(newIssueCommand())

	return cmd
}

func newIssueCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Issue an API token for a user",
		Long:  `Issue an API token without going through the admin UI. The plaintext token is printed once.`,
		RunE:  runIssue,
	}

	cmd.Flags().StringVar(&userEmail, "user", "", "Email of the token owner (required)")
	cmd.Flags().StringVar(&tokenName, "name", "", "Token name (required)")
	cmd.Flags().StringSliceVar(&permissions, "perm", nil, "Granted permission, repeatable (orders:read, orders:write, reports:read, products:read, *)")
	cmd.Flags().IntVar(&rateLimit, "rate-limit", 0, "Requests per minute (0 uses the configured default)")
	cmd.Flags().IntVar(&expiresInDays, "expires-in-days", 0, "Days until expiry (0 never expires)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("perm")

	return cmd
}

func runIssue(cmd *cobra.Command, args []string) error {
	env, err := bootstrap.LoadWithDatabase(opts)
	if err != nil {
		return err
	}
	defer logger.Sync()
	defer database.Close()

	db := database.Get()
	log := env.Log
	userRepo := repository.NewUserRepository(db, log)
	tokenRepo := repository.NewAPITokenRepository(db, log)

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	owner, err := userRepo.GetByEmail(ctx, userEmail)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if owner == nil {
		return fmt.Errorf("user %s not found", userEmail)
	}

	issue := usecases.NewIssueTokenUseCase(tokenRepo, userRepo, infraToken.NewGenerator(),
		usecases.RateLimitPolicy{
			Default: env.Config.APIToken.DefaultRateLimit,
			Max:     env.Config.APIToken.MaxRateLimit,
		}, log)

	issued, err := issue.Execute(ctx, usecases.IssueTokenCommand{
		UserID:        owner.ID(),
		Name:          tokenName,
		Permissions:   permissions,
		RateLimit:     rateLimit,
		ExpiresInDays: expiresInDays,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Token ID:    %s\n", issued.ID)
	fmt.Fprintf(out, "Permissions: %v\n", issued.Permissions)
	fmt.Fprintf(out, "Rate limit:  %d/min\n", issued.RateLimit)
	fmt.Fprintf(out, "Token:       %s\n", issued.Token)
	fmt.Fprintln(out, "Store the token now, it cannot be shown again.")
	return nil
}
