package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/slurmtools/sfollow/internal/config"
)

// ShowCmd displays the effective configuration.
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the effective configuration",
	Long: "Display the effective configuration.\n\n" +
		"Shows the configuration sfollow would run with: defaults merged with " +
		"the config file and SFOLLOW_* environment overrides.",
	Example: `  # Show effective configuration
  sfollow config show`,
	RunE: runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to format configuration; %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "# Effective configuration (with defaults)")
	fmt.Fprint(out, string(data))
	return nil
}
