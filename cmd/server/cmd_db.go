package main

import (
	"fmt"

	"github.com/Skotchmaster/clothing_shop/internal/config"
	"github.com/Skotchmaster/clothing_shop/internal/db"
	"github.com/Skotchmaster/clothing_shop/internal/seed"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		gdb, err := db.Open(cmd.Context(), cfg.DatabaseDriver, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer db.Close(gdb)

		fmt.Println("Running migrations…")
		return db.Migrate(cmd.Context(), gdb)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load default settings and a demo catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), config.Load())
		if err != nil {
			return err
		}
		defer a.Close(cmd.Context())

		n, err := seed.Run(cmd.Context(), a.repo, a.settings, a.catalog)
		if err != nil {
			return err
		}
		fmt.Printf("Seeded %d products\n", n)
		return nil
	},
}
