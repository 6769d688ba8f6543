// Package config provides the config parent command and subcommands.
package config

import (
	"github.com/spf13/cobra"

	"github.com/slurmtools/sfollow/cmd/config/subcommands"
)

// ConfigCmd is the parent command for all config-related subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sfollow configuration",
	Long: "Manage sfollow configuration.\n\n" +
		"Configuration is optional and stored in a YAML file located at " +
		"~/.config/sfollow/config.yaml by default; defaults apply when no " +
		"file exists.",
}

func init() {
	ConfigCmd.AddCommand(subcommands.ShowCmd)
	ConfigCmd.AddCommand(subcommands.InitCmd)
	ConfigCmd.AddCommand(subcommands.ValidateCmd)
}
