package main

import (
	"fmt"
	"os"

	"alliance-srp/internal/adapters/http/routes"
	"alliance-srp/internal/config"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "srpctl",
	Short: "Alliance SRP administration tool",
	Long: `srpctl runs maintenance tasks against the SRP database:
ship class dataset management, payment queue export and account creation.

Configuration is read from .env and the environment, the same as the server.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(shipClassCmd, payoutsCmd, userCmd, migrateCmd)
}

// connect loads configuration and opens the database
func connect() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}
	return cfg, db, nil
}

// withContainer runs fn against a wired container and closes the database afterwards
func withContainer(fn func(c *routes.Container) error) error {
	cfg, db, err := connect()
	if err != nil {
		return err
	}
	defer config.CloseDatabase()
	return fn(routes.NewContainer(db, cfg))
}
