// Package main is the ecomission binary: the HTTP API plus operational
// subcommands for seeding the mission catalog and running planet decay.
//
// @title                       Eco-Mission API
// @version                     1.0
// @description                 Gamified sustainability tracker: missions, rewards, planet health, analytics and leaderboard.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

const appName = "ecomission"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Eco-Mission sustainability tracker",
		Long: `Eco-Mission rewards users for completing sustainability missions.

Configuration is read from the environment (and a .env file when present).
Run "ecomission serve" to start the HTTP API.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(serveCmd(), seedCmd(), decayCmd())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}
