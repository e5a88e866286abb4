package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"cancel-flow-be/internal/config"
	"cancel-flow-be/internal/entity"
	"cancel-flow-be/internal/pkg/serverutils"
	"cancel-flow-be/internal/repository/implementation"
	"cancel-flow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	userIdFlag   string
	monthlyPrice int
	tokenTTL     time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create an active subscription and print a dev token",
	Long: `Create an active subscription in the configured PostgreSQL database and
print a bearer token for its user, ready for the /api/cancel endpoints.

Examples:
  seed                          # New user, $25.00 per month
  seed --user 5b0c... --price 2900`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if cfg.Database.Connection == "" {
			return fmt.Errorf("DB_CONNECTION_STRING is not set")
		}
		if cfg.Auth.JwtSecret == "" {
			return fmt.Errorf("JWT_SECRET is not set")
		}

		userId := uuid.New()
		if userIdFlag != "" {
			parsed, err := uuid.Parse(userIdFlag)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			userId = parsed
		}
		if monthlyPrice <= 0 {
			return fmt.Errorf("--price must be positive")
		}

		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		sub := &entity.Subscription{
			UserId:       userId,
			MonthlyPrice: monthlyPrice,
			Status:       entity.SubscriptionStatusActive,
		}
		if err := implementation.NewSubscriptionRepository(db).CreateSubscription(context.Background(), sub); err != nil {
			return fmt.Errorf("failed to create subscription: %w", err)
		}

		token, err := serverutils.GenerateToken(cfg.Auth.JwtSecret, userId, tokenTTL)
		if err != nil {
			return fmt.Errorf("failed to sign token: %w", err)
		}

		color.Cyan("Subscription seeded")
		color.Green("  user_id:         %s", sub.UserId)
		color.Green("  subscription_id: %s", sub.Id)
		color.Green("  monthly_price:   %d", sub.MonthlyPrice)
		color.Yellow("  Authorization: Bearer %s", token)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&userIdFlag, "user", "", "user id to own the subscription (default: new uuid)")
	rootCmd.Flags().IntVar(&monthlyPrice, "price", 2500, "monthly price in cents")
	rootCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}
