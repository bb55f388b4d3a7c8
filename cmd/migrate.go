package cmd

import (
	"github.com/spf13/cobra"

	"github.com/geobrowser/geo-stream/config"
	"github.com/geobrowser/geo-stream/log"
	"github.com/geobrowser/geo-stream/orm"
	"github.com/geobrowser/geo-stream/types"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the space address table in postgres",
		Long: `
Create the space address dedup table in the database at DB_DSN.

Only needed for the postgres store backend; run also migrates on start when DB_AUTO_MIGRATE is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			if cfg.GetStoreConfig().Backend != config.StoreBackendPostgres {
				return types.NewValidationError("STORE_BACKEND", "migrate requires the postgres backend")
			}
			logger := log.NewLogger(cfg)

			db, err := orm.OpenDB(cfg.GetDBConfig(), logger)
			if err != nil {
				return err
			}
			defer db.Close() //nolint:errcheck

			if err := db.ForceMigrate(cmd.Context()); err != nil {
				return err
			}
			logger.Info("migration complete")
			return nil
		},
	}

	return cmd
}
