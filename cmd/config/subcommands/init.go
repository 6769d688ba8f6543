package subcommands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/slurmtools/sfollow/internal/config"
)

var initForce bool

// InitCmd writes a default config file.
var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default configuration file",
	Long: "Write a default configuration file.\n\n" +
		"Creates ~/.config/sfollow/config.yaml populated with default values, " +
		"ready to edit. Refuses to overwrite an existing file unless --force " +
		"is given.",
	Example: `  # Create a default config file
  sfollow config init`,
	RunE: runInit,
}

func init() {
	InitCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	path := config.DefaultConfigPath()

	if config.ConfigExistsAt(path) && !initForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	cfg := config.NewDefaultConfig()
	if err := config.WriteDefault(&cfg); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote default configuration to %s\n", path)
	return nil
}
