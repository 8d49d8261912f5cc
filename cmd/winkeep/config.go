package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/winkeep/winkeep/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as TOML",
	Long: `Print the configuration after defaults, the config file, environment
variables and command-line flags have been applied. The output can be saved
as a starting point for a config file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := config.Marshal(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# %s\n%s", config.DefaultFilePath(), data)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
}
