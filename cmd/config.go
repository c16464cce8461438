package cmd

import (
	"os"

	"github.com/inovacc/wavelink/internal/core"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect wavelink configuration",
	Long: `Commands for inspecting wavelink configuration.

Settings come from flags, WAVELINK_* environment variables and the
config file, in that order of precedence.

Available Commands:
  show    Print the effective configuration`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Long: `Print the configuration after flags, environment and config file are
merged. The postgres DSN is never printed.

Examples:
  wavelink config show
  wavelink config show --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")
		return core.ShowConfig(os.Stdout, cfg, asJSON)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)

	configShowCmd.Flags().Bool("json", false, "Output in JSON format")
}
