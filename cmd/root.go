// Package cmd wires up the sfollow command tree.
package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	configcmd "github.com/slurmtools/sfollow/cmd/config"
	versioncmd "github.com/slurmtools/sfollow/cmd/version"
	"github.com/slurmtools/sfollow/internal/config"
	"github.com/slurmtools/sfollow/internal/follow"
	"github.com/slurmtools/sfollow/internal/logging"
	"github.com/slurmtools/sfollow/internal/slurm"
)

// logManager is created in init() in bootstrap mode and upgraded once the
// config has been loaded.
var logManager *logging.Manager

// Flag variables.
var (
	flagConfig       string
	flagPollInterval time.Duration
	flagTailBytes    int64
	flagNoColor      bool
)

var sfollowCmd = &cobra.Command{
	Use:   "sfollow [JOB_ID...]",
	Short: "Follow the output of Slurm batch jobs",
	Long: "Follow the output of Slurm batch jobs.\n\n" +
		"sfollow locates the stdout/stderr files of one or more batch jobs and " +
		"streams their contents to your terminal, like 'tail -f'. Jobs that " +
		"have not started yet are waited for; the session ends when every " +
		"followed job finishes.\n\n" +
		"With no arguments, sfollow follows your most recently submitted job.",
	Example: `  # Follow your most recent job
  sfollow

  # Follow a specific job
  sfollow 9251426

  # Follow several jobs at once
  sfollow 9251426 9251427`,
	Args:              cobra.ArbitraryArgs,
	PersistentPreRunE: runInitialize,
	RunE:              runFollow,
}

func init() {
	logManager = logging.NewManager()

	sfollowCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config file")
	sfollowCmd.Flags().DurationVar(&flagPollInterval, "poll-interval", 0, "Override the job state poll interval")
	sfollowCmd.Flags().Int64Var(&flagTailBytes, "tail-bytes", -1, "How much recent output to show when attaching to a running job")
	sfollowCmd.Flags().BoolVar(&flagNoColor, "no-color", false, "Disable colored status output")

	sfollowCmd.AddCommand(
		versioncmd.VersionCmd,
		configcmd.ConfigCmd,
	)

	sfollowCmd.CompletionOptions.HiddenDefaultCmd = true
}

func runInitialize(cmd *cobra.Command, args []string) error {
	// The config subcommands operate on the config file itself and must
	// stay reachable when it is broken; they load what they need.
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return nil
		}
	}

	logger := logManager.Logger()

	if err := config.Init(flagConfig); err != nil {
		return err
	}
	cfg := config.Get()

	level, ok := logging.ParseLevel(cfg.LogLevel)
	if !ok {
		level = logging.DefaultLevel
		if cfg.LogLevel != "" {
			logger.Warn("invalid log level configured, using default",
				"configured", cfg.LogLevel, "default", "info")
		}
	}

	if err := logManager.Upgrade(config.ExpandPath(cfg.LogFile), level); err != nil {
		logger.Warn("failed to enable file logging, continuing with stderr only", "error", err)
		// Not fatal; bootstrap mode keeps working.
	}

	return nil
}

func runFollow(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	ctx := cmd.Context()
	cfg := config.Get()
	logger := logManager.Logger()

	client := slurm.NewClient(
		slurm.WithSqueuePath(cfg.Slurm.SqueuePath),
		slurm.WithScontrolPath(cfg.Slurm.ScontrolPath),
		slurm.WithMaxRetries(cfg.Poll.MaxRetries),
		slurm.WithQueryRate(cfg.Poll.QueriesPerMinute),
		slurm.WithLogger(logger),
	)

	jobIDs := args
	if len(jobIDs) == 0 {
		id, name, err := client.MyLastJob(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Following your most recent job: %s (%s)\n", id, name)
		jobIDs = []string{id}
	}

	jobInterval := cfg.Poll.JobInterval()
	if flagPollInterval > 0 {
		jobInterval = flagPollInterval
	}

	tailBytes := int64(cfg.Follow.TailBytes)
	if flagTailBytes >= 0 {
		tailBytes = flagTailBytes
	}

	session := follow.NewSession(client, cmd.OutOrStdout(), cmd.ErrOrStderr(),
		follow.WithLogger(logger),
		follow.WithJobInterval(jobInterval),
		follow.WithFileInterval(cfg.Poll.FileInterval()),
		follow.WithTailBytes(tailBytes),
		follow.WithFsnotify(cfg.Follow.UseFsnotify),
		follow.WithColor(colorEnabled(cfg)),
	)

	return session.Run(ctx, jobIDs)
}

// colorEnabled resolves the color setting. In "auto" mode lipgloss itself
// degrades to plain text when the terminal does not support color, so auto
// behaves like always here.
func colorEnabled(cfg *config.Config) bool {
	if flagNoColor {
		return false
	}
	switch cfg.Color {
	case "never":
		return false
	default:
		return true
	}
}

// Execute runs the root command.
func Execute() error {
	sfollowCmd.SilenceErrors = true

	defer func() { _ = logManager.Close() }()

	err := sfollowCmd.ExecuteContext(rootContext())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}

	return nil
}
