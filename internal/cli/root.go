package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "canteen",
		Short:         "School canteen ordering service",
		Long:          "canteen serves the parent and staff ordering API and runs menu and catalog maintenance jobs.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newServeCmd(&envFile))
	cmd.AddCommand(newMigrateCmd(&envFile))
	cmd.AddCommand(newPopulateMenusCmd(&envFile))
	cmd.AddCommand(newSeedFoodsCmd(&envFile))
	cmd.AddCommand(newReindexFoodsCmd(&envFile))
	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}
