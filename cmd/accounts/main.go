// Package main provides the account management CLI tool.
// This file corresponds to src/cli/accounts.js in the Node.js version.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/poemonsense/antigravity-proxy-go/internal/config"
)

var serverPort = config.DefaultPort

var noBrowser bool

var rootCmd = &cobra.Command{
	Use:     "antigravity-accounts",
	Short:   "Manage Google accounts used by the Antigravity proxy's account pool",
	Version: "1.0.0",
	RunE:    runAccountsAdd, // bare invocation behaves like "add", matching the legacy CLI's default
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noBrowser, "no-browser", false, "Manual authorization code input (for headless servers)")

	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(clearCmd)

	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			serverPort = p
		}
	}
}

func main() {
	printBanner()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Println("╔════════════════════════════════════════╗")
	fmt.Println("║   Antigravity Proxy Account Manager    ║")
	fmt.Println("║   Use --no-browser for headless mode   ║")
	fmt.Println("╚════════════════════════════════════════╝")
}
