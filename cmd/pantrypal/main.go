package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations and seeders register themselves from init().
	_ "github.com/pantrypal/pantrypal/database/migrations"
	_ "github.com/pantrypal/pantrypal/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pantrypal",
	Short:         "Pantry Pal API server and maintenance commands",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
