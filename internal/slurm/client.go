// Package slurm queries the Slurm workload manager through its command-line
// interface. The package is strictly read-only: it looks up job states and
// metadata and never submits, cancels, or modifies jobs.
package slurm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/eapache/go-resiliency/retrier"
	"golang.org/x/time/rate"
)

// Runner executes a scheduler command and returns its stdout and stderr.
// The default implementation shells out; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Client queries Slurm via squeue and scontrol. Transient failures are
// retried with exponential backoff, and queries are rate-limited to bound
// load on the controller.
type Client struct {
	squeuePath   string
	scontrolPath string
	runner       Runner
	retrier      *retrier.Retrier
	limiter      *rate.Limiter
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithSqueuePath sets the path to the squeue binary.
func WithSqueuePath(path string) Option {
	return func(c *Client) {
		c.squeuePath = path
	}
}

// WithScontrolPath sets the path to the scontrol binary.
func WithScontrolPath(path string) Option {
	return func(c *Client) {
		c.scontrolPath = path
	}
}

// WithRunner substitutes the command runner.
func WithRunner(r Runner) Option {
	return func(c *Client) {
		c.runner = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithMaxRetries bounds retries of transient query failures.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.retrier = newRetrier(n)
	}
}

// WithQueryRate limits scheduler queries to n per minute.
func WithQueryRate(perMinute int) Option {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
	}
}

// NewClient creates a Client with squeue and scontrol resolved from PATH
// unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{
		squeuePath:   "squeue",
		scontrolPath: "scontrol",
		runner:       execRunner{},
		retrier:      newRetrier(3),
		limiter:      rate.NewLimiter(rate.Every(time.Second), 60),
		logger:       slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func newRetrier(maxRetries int) *retrier.Retrier {
	return retrier.New(
		retrier.ExponentialBackoff(maxRetries, 250*time.Millisecond),
		transientClassifier{},
	)
}

// transientClassifier retries everything except definitive resolution
// failures and cancellation.
type transientClassifier struct{}

func (transientClassifier) Classify(err error) retrier.Action {
	switch {
	case err == nil:
		return retrier.Succeed
	case errors.Is(err, ErrJobNotFound),
		errors.Is(err, ErrNoJobs),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return retrier.Fail
	default:
		return retrier.Retry
	}
}

// States returns the current state of each of the given job IDs, as
// reported by squeue. IDs the scheduler no longer knows are absent from the
// result.
func (c *Client) States(ctx context.Context, ids []string) (map[string]State, error) {
	out, err := c.query(ctx, c.squeuePath,
		"--noheader", "--format=%i %T", "--jobs="+strings.Join(ids, ","))
	if err != nil {
		return nil, err
	}
	return ParseStates(string(out)), nil
}

// MyLastJob returns the ID and name of the invoking user's most recently
// submitted job. Returns ErrNoJobs when the user has no jobs in the queue.
func (c *Client) MyLastJob(ctx context.Context) (id, name string, err error) {
	// --sort=-V orders by submission time, newest first.
	out, err := c.query(ctx, c.squeuePath,
		"--me", "--noheader", "--format=%i %j", "--sort=-V")
	if err != nil {
		return "", "", err
	}

	jobs := ParseQueue(string(out))
	if len(jobs) == 0 {
		return "", "", ErrNoJobs
	}

	return jobs[0][0], jobs[0][1], nil
}

// JobInfo returns metadata for a single job from 'scontrol show job'.
// Returns ErrJobNotFound when the scheduler does not know the ID.
func (c *Client) JobInfo(ctx context.Context, id string) (JobInfo, error) {
	out, err := c.query(ctx, c.scontrolPath, "show", "job", id)
	if err != nil {
		return JobInfo{}, err
	}

	info, err := ParseJobInfo(string(out))
	if err != nil {
		return JobInfo{}, ErrJobNotFound
	}
	return info, nil
}

// query executes a scheduler command under the rate limiter and retrier.
func (c *Client) query(ctx context.Context, name string, args ...string) ([]byte, error) {
	var stdout []byte

	work := func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		out, errOut, err := c.runner.Run(ctx, name, args...)
		if err != nil {
			if isNotFound(errOut) {
				// Keep the scheduler's own diagnostic: it names the
				// rejected ID, which matters when several were queried.
				return fmt.Errorf("%s; %w", lastLine(errOut), ErrJobNotFound)
			}
			c.logger.Warn("scheduler query failed, may retry",
				"cmd", name, "error", err, "stderr", lastLine(errOut))
			return &SchedulerError{Cmd: name, Stderr: lastLine(errOut), Err: err}
		}

		stdout = out
		return nil
	}

	if err := c.retrier.RunCtx(ctx, work); err != nil {
		return nil, err
	}
	return stdout, nil
}

// isNotFound recognizes slurm's "Invalid job id specified" diagnostic,
// which both squeue and scontrol print for unknown job IDs.
func isNotFound(stderr []byte) bool {
	return bytes.Contains(stderr, []byte("Invalid job id"))
}

func lastLine(out []byte) string {
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	return lines[len(lines)-1]
}
