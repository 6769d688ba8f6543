package config

import "github.com/spf13/viper"

// Default configuration values.
const (
	DefaultLogLevel = "info"
	DefaultLogFile  = "~/.config/sfollow/sfollow.log"
	DefaultColor    = "auto"

	// Poll defaults. Job state every 2s, file reads every 500ms; chosen to
	// balance responsiveness against load on the controller and the shared
	// filesystem.
	DefaultPollJobIntervalMs  = 2000
	DefaultPollFileIntervalMs = 500
	DefaultPollMaxRetries     = 3
	DefaultPollQueriesPerMin  = 60
	DefaultFollowTailBytes    = 512
	DefaultFollowUseFsnotify  = true
	DefaultSlurmSqueuePath    = "squeue"
	DefaultSlurmScontrolPath  = "scontrol"
)

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() Config {
	return Config{
		LogLevel: DefaultLogLevel,
		LogFile:  DefaultLogFile,
		Color:    DefaultColor,
		Poll: PollConfig{
			JobIntervalMs:    DefaultPollJobIntervalMs,
			FileIntervalMs:   DefaultPollFileIntervalMs,
			MaxRetries:       DefaultPollMaxRetries,
			QueriesPerMinute: DefaultPollQueriesPerMin,
		},
		Follow: FollowConfig{
			TailBytes:   DefaultFollowTailBytes,
			UseFsnotify: DefaultFollowUseFsnotify,
		},
		Slurm: SlurmConfig{
			SqueuePath:   DefaultSlurmSqueuePath,
			ScontrolPath: DefaultSlurmScontrolPath,
		},
	}
}

// setViperDefaults registers all default configuration values with a viper
// instance. Called before reading config files.
func setViperDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", DefaultLogFile)
	v.SetDefault("color", DefaultColor)

	v.SetDefault("poll.job_interval_ms", DefaultPollJobIntervalMs)
	v.SetDefault("poll.file_interval_ms", DefaultPollFileIntervalMs)
	v.SetDefault("poll.max_retries", DefaultPollMaxRetries)
	v.SetDefault("poll.queries_per_minute", DefaultPollQueriesPerMin)

	v.SetDefault("follow.tail_bytes", DefaultFollowTailBytes)
	v.SetDefault("follow.use_fsnotify", DefaultFollowUseFsnotify)

	v.SetDefault("slurm.squeue_path", DefaultSlurmSqueuePath)
	v.SetDefault("slurm.scontrol_path", DefaultSlurmScontrolPath)
}
