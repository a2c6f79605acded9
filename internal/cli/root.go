// Package cli implements the kassactl admin commands.
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kassan/internal/config"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "kassactl",
		Short:         "Admin tooling for the kassan service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
		},
	}

	root.AddCommand(newMigrateCommand())
	root.AddCommand(newSeedCommand())
	return root
}

func loadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}
