package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a config validation failure.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors represents multiple validation failures.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var b strings.Builder
	b.WriteString("config validation failed:\n")
	for _, err := range e {
		b.WriteString("  - ")
		b.WriteString(err.Error())
		b.WriteString("\n")
	}
	return b.String()
}

// validColorModes lists recognized values for the color setting.
var validColorModes = map[string]bool{
	"auto":   true,
	"always": true,
	"never":  true,
}

// Validate checks the configuration for errors.
// Returns ValidationErrors if validation fails.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if !validColorModes[cfg.Color] {
		errs = append(errs, ValidationError{
			Field:   "color",
			Message: fmt.Sprintf("must be one of auto, always, never, got %q", cfg.Color),
		})
	}

	if cfg.Poll.JobIntervalMs < 100 {
		errs = append(errs, ValidationError{
			Field:   "poll.job_interval_ms",
			Message: fmt.Sprintf("must be at least 100, got %d", cfg.Poll.JobIntervalMs),
		})
	}

	if cfg.Poll.FileIntervalMs < 50 {
		errs = append(errs, ValidationError{
			Field:   "poll.file_interval_ms",
			Message: fmt.Sprintf("must be at least 50, got %d", cfg.Poll.FileIntervalMs),
		})
	}

	if cfg.Poll.MaxRetries < 0 {
		errs = append(errs, ValidationError{
			Field:   "poll.max_retries",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Poll.MaxRetries),
		})
	}

	if cfg.Poll.QueriesPerMinute < 1 {
		errs = append(errs, ValidationError{
			Field:   "poll.queries_per_minute",
			Message: fmt.Sprintf("must be at least 1, got %d", cfg.Poll.QueriesPerMinute),
		})
	}

	if cfg.Follow.TailBytes < 0 {
		errs = append(errs, ValidationError{
			Field:   "follow.tail_bytes",
			Message: fmt.Sprintf("must not be negative, got %d", cfg.Follow.TailBytes),
		})
	}

	if cfg.Slurm.SqueuePath == "" {
		errs = append(errs, ValidationError{
			Field:   "slurm.squeue_path",
			Message: "must not be empty",
		})
	}

	if cfg.Slurm.ScontrolPath == "" {
		errs = append(errs, ValidationError{
			Field:   "slurm.scontrol_path",
			Message: "must not be empty",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
