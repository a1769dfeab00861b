package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pantrypal/pantrypal/config"
	"github.com/pantrypal/pantrypal/database/seeders"
	"github.com/pantrypal/pantrypal/pkg/database"
	"github.com/pantrypal/pantrypal/pkg/migration"
)

// withDB loads config, opens the database and closes it after fn.
func withDB(fn func(db *gorm.DB) error) error {
	if err := config.Load(); err != nil {
		return err
	}
	db, err := database.Connect()
	if err != nil {
		return err
	}
	defer database.Close(db)
	return fn(db)
}

// pantrypal migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
			return migration.New(db).WithOutput(cmd.OutOrStdout()).Run()
		})
	},
}

// pantrypal migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
			return migration.New(db).WithOutput(cmd.OutOrStdout()).Rollback()
		})
	},
}

// pantrypal migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			return migration.New(db).WithOutput(cmd.OutOrStdout()).PrintStatus()
		})
	},
}

// pantrypal seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the database to the sample pantry data",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withDB(func(db *gorm.DB) error {
			fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
			return seeders.RunAll(db, cmd.OutOrStdout())
		})
	},
}
