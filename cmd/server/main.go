package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasklist/web/cmd/server/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "tasklist",
		Short: "Task list web application",
		Long:  `A session-authenticated to-do list web application: log in with the configured credentials, then create, complete, and delete tasks.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewSeedCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
