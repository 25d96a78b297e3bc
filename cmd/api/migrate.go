package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmlabs-hris/worklog-backend-go/internal/config"
	"github.com/cmlabs-hris/worklog-backend-go/internal/pkg/database"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down]",
		Short:     "Apply or roll back the schema of the configured store",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(database.Up), string(database.Down)},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := database.Up
			if len(args) == 1 {
				var err error
				if direction, err = database.ParseDirection(args[0]); err != nil {
					return err
				}
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			st, err := openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer st.close()

			if err := st.migrate(direction); err != nil {
				return fmt.Errorf("migrate %s: %w", direction, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s store %s\n", cfg.App.StoreDriver, direction)
			return nil
		},
	}
}
