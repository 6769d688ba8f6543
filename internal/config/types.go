package config

import "time"

// Config is the root configuration structure for sfollow.
type Config struct {
	LogLevel string       `yaml:"log_level" mapstructure:"log_level"`
	LogFile  string       `yaml:"log_file" mapstructure:"log_file"`
	Color    string       `yaml:"color" mapstructure:"color"`
	Poll     PollConfig   `yaml:"poll" mapstructure:"poll"`
	Follow   FollowConfig `yaml:"follow" mapstructure:"follow"`
	Slurm    SlurmConfig  `yaml:"slurm" mapstructure:"slurm"`
}

// PollConfig holds polling and retry configuration for the scheduler and
// the followed files.
type PollConfig struct {
	// JobIntervalMs is how often job states are re-queried, in milliseconds.
	JobIntervalMs int `yaml:"job_interval_ms" mapstructure:"job_interval_ms"`

	// FileIntervalMs is how often followed files are checked for appended
	// data (and, before creation, for existence), in milliseconds.
	FileIntervalMs int `yaml:"file_interval_ms" mapstructure:"file_interval_ms"`

	// MaxRetries bounds retries of transient scheduler query failures.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`

	// QueriesPerMinute rate-limits scheduler queries to bound load on the
	// controller.
	QueriesPerMinute int `yaml:"queries_per_minute" mapstructure:"queries_per_minute"`
}

// JobInterval returns the job poll interval as a duration.
func (p PollConfig) JobInterval() time.Duration {
	return time.Duration(p.JobIntervalMs) * time.Millisecond
}

// FileInterval returns the file poll interval as a duration.
func (p PollConfig) FileInterval() time.Duration {
	return time.Duration(p.FileIntervalMs) * time.Millisecond
}

// FollowConfig holds file-following configuration.
type FollowConfig struct {
	// TailBytes is how far back from EOF to start when attaching to a job
	// that was already running. 0 starts at EOF.
	TailBytes int `yaml:"tail_bytes" mapstructure:"tail_bytes"`

	// UseFsnotify enables inotify watches to shorten the wait for output
	// file creation. Reads always poll; some shared filesystems never
	// deliver notify events.
	UseFsnotify bool `yaml:"use_fsnotify" mapstructure:"use_fsnotify"`
}

// SlurmConfig holds paths to the Slurm query commands.
type SlurmConfig struct {
	SqueuePath   string `yaml:"squeue_path" mapstructure:"squeue_path"`
	ScontrolPath string `yaml:"scontrol_path" mapstructure:"scontrol_path"`
}
