package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"kassan/internal/backend"
	"kassan/internal/core"
)

type seedCategory struct {
	name string
	typ  core.CategoryType
	icon string
}

// The shared system default categories every organization sees.
var systemCategories = []seedCategory{
	{"Groceries", core.CategoryExpense, "cart"},
	{"Dining", core.CategoryExpense, "utensils"},
	{"Transport", core.CategoryExpense, "bus"},
	{"Housing", core.CategoryExpense, "home"},
	{"Utilities", core.CategoryExpense, "bolt"},
	{"Health", core.CategoryExpense, "heart"},
	{"Entertainment", core.CategoryExpense, "film"},
	{"Travel", core.CategoryExpense, "plane"},
	{"Shopping", core.CategoryExpense, "bag"},
	{"Other Expenses", core.CategoryExpense, "dots"},
	{"Salary", core.CategoryIncome, "wallet"},
	{"Bonus", core.CategoryIncome, "gift"},
	{"Interest", core.CategoryIncome, "percent"},
	{"Other Income", core.CategoryIncome, "dots"},
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the system default categories (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			store, err := backend.Open(ctx, cfg, slog.Default())
			if err != nil {
				return err
			}
			defer store.Close()

			// An empty organization id selects system defaults only.
			existing, err := store.CategoriesForOrganization(ctx, "", "")
			if err != nil {
				return err
			}
			seen := make(map[string]bool, len(existing))
			for _, c := range existing {
				if c.IsSystemDefault {
					seen[c.Name] = true
				}
			}

			created := 0
			now := time.Now().UTC()
			for _, sc := range systemCategories {
				if seen[sc.name] {
					continue
				}
				err := store.CreateCategory(ctx, core.Category{
					ID:              uuid.NewString(),
					Name:            sc.name,
					Type:            sc.typ,
					Icon:            sc.icon,
					IsSystemDefault: true,
					CreatedAt:       now,
					UpdatedAt:       now,
				})
				if err != nil {
					return fmt.Errorf("seed category %q: %w", sc.name, err)
				}
				created++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d system categories (%d already present)\n",
				created, len(seen))
			return nil
		},
	}
}
