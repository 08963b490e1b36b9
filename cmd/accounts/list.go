package main

import "github.com/spf13/cobra"

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configured accounts",
	RunE: func(cmd *cobra.Command, args []string) error {
		displayAccounts(loadAccounts())
		return nil
	},
}
