package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Skotchmaster/school_canteen/internal/transport"
)

func newMigrateCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.repo.Migrate(cmd.Context()); err != nil {
				return wrap("migrate", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newPopulateMenusCmd(envFile *string) *cobra.Command {
	var days, quantity int

	cmd := &cobra.Command{
		Use:   "populate-menus",
		Short: "Offer every active food item on the upcoming days",
		Long:  "populate-menus creates daily menu entries from tomorrow onwards for each active food item, skipping pairs that already exist.",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			created, err := a.menuService().PopulateDailyMenus(a.ctx(cmd.Context()), days, quantity)
			if err != nil {
				return wrap("populate menus", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d daily menu entries\n", created)
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 0, "number of days starting tomorrow (default MENU_HORIZON_DAYS)")
	cmd.Flags().IntVar(&quantity, "quantity", 0, "capacity of each new entry (default MENU_DEFAULT_QUANTITY)")
	return cmd
}

type seedFile struct {
	Foods []transport.CreateFoodRequest `yaml:"foods"`
}

func readSeedFile(path string) ([]transport.CreateFoodRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	var f seedFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse seed file %s: %w", path, err)
	}
	return f.Foods, nil
}

func newSeedFoodsCmd(envFile *string) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed-foods",
		Short: "Load the food catalog from a YAML file",
		RunE: func(cmd *cobra.Command, args []string) error {
			foods, err := readSeedFile(file)
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()
			a.connectIndex(cmd.Context())

			created, err := a.menuService().SeedFoods(a.ctx(cmd.Context()), foods)
			if err != nil {
				return wrap("seed foods", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d food items\n", created, len(foods))
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "foods.yaml", "seed file with a top-level foods list")
	return cmd
}

func newReindexFoodsCmd(envFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex-foods",
		Short: "Rebuild the food search index from the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), *envFile)
			if err != nil {
				return err
			}
			defer a.close()

			a.connectIndex(cmd.Context())
			if a.index == nil {
				return fmt.Errorf("reindex foods: ES_URL is not set or the cluster is unreachable")
			}

			n, err := a.menuService().ReindexFoods(a.ctx(cmd.Context()))
			if err != nil {
				return wrap("reindex foods", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "indexed %d food items\n", n)
			return nil
		},
	}
}
