package slurm

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when an explicit job ID does not
	// correspond to a job visible to the scheduler.
	ErrJobNotFound = errors.New("job not found")

	// ErrNoJobs is returned when the invoking user has no jobs to follow.
	ErrNoJobs = errors.New("you have no jobs in the queue")
)

// SchedulerError wraps a failed scheduler query after retries have been
// exhausted.
type SchedulerError struct {
	// Cmd is the command that failed (e.g. "squeue").
	Cmd string

	// Stderr is the trailing stderr output of the failed command, if any.
	Stderr string

	// Err is the underlying execution error.
	Err error
}

func (e *SchedulerError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("%s failed: %v: %s", e.Cmd, e.Err, e.Stderr)
	}
	return fmt.Sprintf("%s failed: %v", e.Cmd, e.Err)
}

func (e *SchedulerError) Unwrap() error {
	return e.Err
}
