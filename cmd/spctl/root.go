package main

import (
	"database/sql"

	"spareparts-be/internal/config"
	"spareparts-be/internal/db"
	"spareparts-be/internal/logger"

	"github.com/spf13/cobra"
)

// env carries what every subcommand needs; tests swap openDB.
type env struct {
	openDB func() (*sql.DB, error)
}

func defaultEnv() *env {
	return &env{
		openDB: func() (*sql.DB, error) {
			cfg := config.LoadConfig()
			logger.Init(cfg.AppEnv)
			return db.NewDatabase(cfg)
		},
	}
}

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "spctl",
		Short:         "Operate the spare parts backend",
		Long:          "spctl runs schema migrations, prints store reports and inspects warranties against the configured database.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newMigrateCmd(e))
	cmd.AddCommand(newReportCmd(e))
	cmd.AddCommand(newWarrantyCmd(e))
	return cmd
}
