package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kassan/internal/storage"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations for the configured backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			switch cfg.DataBackend {
			case "sqlite":
				if err := storage.RunSQLiteMigrations(cfg.SQLiteDBPath); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "sqlite migrations applied (%s)\n", cfg.SQLiteDBPath)
			case "postgres":
				if err := storage.RunPostgresMigrations(cfg.PostgresURL); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "postgres migrations applied")
			default:
				return fmt.Errorf("backend %q has no migrations", cfg.DataBackend)
			}
			return nil
		},
	}
}
