package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slurmtools/sfollow/internal/config"
)

// ValidateCmd validates the configuration file.
var ValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: "Validate the configuration file.\n\n" +
		"Checks the config file for syntax errors and out-of-range values. " +
		"Returns exit code 0 if valid, non-zero if invalid.",
	Example: `  # Validate the configuration
  sfollow config validate`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	out := cmd.OutOrStdout()
	path := config.DefaultConfigPath()

	if !config.ConfigExistsAt(path) {
		fmt.Fprintf(out, "No configuration file found at %s\n", path)
		fmt.Fprintln(out, "Using default configuration values.")
		return nil
	}

	if _, err := config.LoadFromPath(path); err != nil {
		fmt.Fprintln(out, "Configuration validation failed:")
		fmt.Fprintf(out, "  %v\n", err)
		return fmt.Errorf("configuration is invalid")
	}

	fmt.Fprintf(out, "Configuration is valid: %s\n", path)
	return nil
}
