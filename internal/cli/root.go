package cli

import (
	"civicos/internal/config"
	"civicos/internal/utils"

	"github.com/spf13/cobra"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "civicos",
		Short:         "civicos serves the CivicOS civic engagement API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(ServeCommand(), MigrateCommand(), SeedCommand(), IngestCommand())
	return cmd
}

// loadConfig reads .env and the environment and configures logging.
func loadConfig() config.Config {
	cfg := config.Load()
	utils.SetupLogger(cfg.LogLevel, cfg.IsProduction())
	return cfg
}
