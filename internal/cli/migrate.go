package cli

import (
	"civicos/internal/db"

	"github.com/spf13/cobra"
)

func MigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := db.Open(loadConfig())
			if err != nil {
				return err
			}
			return db.Migrate(gdb)
		},
	}
}

func SeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample politicians, bills and voting records",
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, err := db.Open(loadConfig())
			if err != nil {
				return err
			}
			if err := db.Migrate(gdb); err != nil {
				return err
			}
			return db.Seed(gdb)
		},
	}
}
