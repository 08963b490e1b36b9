package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all configured accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ensureServerStopped()

		accounts := loadAccounts()
		if len(accounts) == 0 {
			fmt.Println("No accounts to clear.")
			return nil
		}

		displayAccounts(accounts)

		scanner := bufio.NewScanner(os.Stdin)
		confirm := prompt(scanner, "\nAre you sure you want to remove all accounts? [y/N]: ")
		if strings.ToLower(confirm) == "y" {
			if err := clearAllAccountsFromStore(); err != nil {
				fmt.Println("Error clearing accounts:", err)
			} else {
				fmt.Println("All accounts removed.")
			}
		} else {
			fmt.Println("Cancelled.")
		}

		return nil
	},
}
