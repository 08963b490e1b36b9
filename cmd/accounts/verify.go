package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/poemonsense/antigravity-proxy-go/internal/auth"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify that every account's refresh token still works",
	RunE: func(cmd *cobra.Command, args []string) error {
		accounts := loadAccounts()
		if len(accounts) == 0 {
			fmt.Println("No accounts to verify.")
			return nil
		}

		fmt.Println("\nVerifying accounts...")

		ctx := context.Background()
		for _, acc := range accounts {
			tokens, err := auth.RefreshAccessToken(ctx, acc.RefreshToken)
			if err != nil {
				fmt.Printf("  ✗ %s - %v\n", acc.Email, err)
				continue
			}

			email, err := auth.GetUserEmail(ctx, tokens.AccessToken)
			if err != nil {
				fmt.Printf("  ✗ %s - %v\n", acc.Email, err)
				continue
			}

			fmt.Printf("  ✓ %s - OK\n", email)
		}

		return nil
	},
}
