package main

import (
	"fmt"

	"alliance-srp/internal/adapters/persistence/models"
	"alliance-srp/internal/config"

	"github.com/spf13/cobra"
)

var migrateSeed bool

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, db, err := connect()
		if err != nil {
			return err
		}
		defer config.CloseDatabase()

		if err := models.AutoMigrate(db); err != nil {
			return fmt.Errorf("auto migrate: %w", err)
		}
		if migrateSeed {
			if err := config.NewSeeder(db).Run(); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}

func init() {
	migrateCmd.Flags().BoolVar(&migrateSeed, "seed", false, "Seed default ship classes and the admin account")
}
