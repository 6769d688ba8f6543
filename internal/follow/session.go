// Package follow orchestrates a follow session: it tracks job states via
// the scheduler, tails each job's output files while the job runs, and
// finishes when every followed job reaches a terminal state.
package follow

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/slurmtools/sfollow/internal/slurm"
	"github.com/slurmtools/sfollow/internal/tail"
)

// Scheduler is the read-only job metadata source a Session needs.
// *slurm.Client satisfies it.
type Scheduler interface {
	States(ctx context.Context, ids []string) (map[string]slurm.State, error)
	JobInfo(ctx context.Context, id string) (slurm.JobInfo, error)
}

// Session follows the output of a set of jobs. Create with NewSession, run
// once with Run; a Session is not restartable.
type Session struct {
	id        string
	scheduler Scheduler
	stdout    io.Writer
	stderr    io.Writer
	printer   *printer
	logger    *slog.Logger

	jobInterval  time.Duration
	fileInterval time.Duration
	tailBytes    int64
	useFsnotify  bool

	wg      sync.WaitGroup
	cancels map[string][]context.CancelFunc
	errCh   chan error
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithStatusWriter sets where session status lines (job started/finished,
// waiting spinner) are written. Defaults to the stderr sink.
func WithStatusWriter(w io.Writer) SessionOption {
	return func(s *Session) {
		s.printer = newPrinter(w, s.printer.color)
	}
}

// WithColor enables or disables colored job states in status lines.
func WithColor(enabled bool) SessionOption {
	return func(s *Session) {
		s.printer.color = enabled
	}
}

// WithJobInterval sets how often job states are re-queried.
func WithJobInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.jobInterval = d
	}
}

// WithFileInterval sets the poll interval of the file tailers.
func WithFileInterval(d time.Duration) SessionOption {
	return func(s *Session) {
		s.fileInterval = d
	}
}

// WithTailBytes sets how much recent output to show when attaching to a
// job that was already running.
func WithTailBytes(n int64) SessionOption {
	return func(s *Session) {
		s.tailBytes = n
	}
}

// WithFsnotify enables inotify watches for output file creation.
func WithFsnotify(enabled bool) SessionOption {
	return func(s *Session) {
		s.useFsnotify = enabled
	}
}

// NewSession creates a Session relaying job stdout and stderr to the given
// sinks.
func NewSession(scheduler Scheduler, stdout, stderr io.Writer, opts ...SessionOption) *Session {
	s := &Session{
		id:           uuid.NewString(),
		scheduler:    scheduler,
		stdout:       stdout,
		stderr:       stderr,
		printer:      newPrinter(stderr, true),
		logger:       slog.Default(),
		jobInterval:  2 * time.Second,
		fileInterval: 500 * time.Millisecond,
		tailBytes:    512,
		useFsnotify:  true,
		cancels:      make(map[string][]context.CancelFunc),
		errCh:        make(chan error, 1),
	}

	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("session", s.id)

	return s
}

// Run follows the given jobs until they all finish or ctx is cancelled.
// Cancellation (user interrupt) is a clean exit: output already relayed
// stays put and Run returns nil. A job ID unknown to the scheduler, an
// exhausted scheduler retry, or a file read failure ends the session with
// an error.
func (s *Session) Run(ctx context.Context, jobIDs []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err := s.follow(ctx, jobIDs)

	// Tailers drain after cancellation; wait for them on every exit path
	// so their final bytes land before Run returns.
	s.stopAll()
	s.wg.Wait()
	s.printer.stop()

	// A tailer can fail after the last poll already saw its job finished,
	// or while the loop was breaking out. A lost output file is still
	// fatal.
	if err == nil {
		select {
		case err = <-s.errCh:
		default:
		}
	}

	return err
}

func (s *Session) follow(ctx context.Context, jobIDs []string) error {
	states, err := s.scheduler.States(ctx, jobIDs)
	if err != nil {
		return err
	}

	for _, id := range jobIDs {
		if _, ok := states[id]; !ok {
			return fmt.Errorf("job %s; %w", id, slurm.ErrJobNotFound)
		}
	}

	s.logger.Info("session started", "jobs", jobIDs)

	// Attach to jobs already past the pending states.
	for _, id := range jobIDs {
		st := states[id]
		if st.NotStarted() {
			continue
		}

		info, err := s.startTailers(ctx, id, true)
		if err != nil {
			return err
		}

		if st.Finished() {
			// Nothing more will be written; emit the tail end and move on.
			s.cancelJob(id)
			s.printer.line("Job %s (%s) finished (%s)", id, info.Name, s.printer.state(st))
		}
	}

	ticker := time.NewTicker(s.jobInterval)
	defer ticker.Stop()

	for {
		unfinished := unfinishedIDs(jobIDs, states)
		if len(unfinished) == 0 {
			break
		}

		if allNotStarted(states) {
			s.printer.spin("Waiting for " + fmtJobs(unfinished) + " to start")
		}

		select {
		case <-ctx.Done():
			return nil
		case err := <-s.errCh:
			return err
		case <-ticker.C:
		}

		newStates, err := s.scheduler.States(ctx, unfinished)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		for _, id := range unfinished {
			newState, ok := newStates[id]
			if !ok {
				// The job aged out of the scheduler's queue between polls;
				// it finished a while ago.
				s.logger.Debug("job left the queue", "job", id)
				newState = "COMPLETED"
			}
			prev := states[id]

			if prev.NotStarted() && !newState.NotStarted() {
				info, err := s.startTailers(ctx, id, false)
				if err != nil {
					return err
				}
				if !newState.Finished() {
					s.printer.line("Job %s (%s) started", id, info.Name)
				}
			}

			if newState.Finished() && !prev.Finished() {
				s.cancelJob(id)
				s.printer.line("Job %s finished (%s)", id, s.printer.state(newState))
			}

			states[id] = newState
		}
	}

	s.logger.Info("session finished")
	return nil
}

// startTailers looks up the job's output paths and launches one tailer per
// distinct file. attached means the job was already running when the
// session began, so the tailers show only recent output instead of the
// whole file.
func (s *Session) startTailers(ctx context.Context, id string, attached bool) (slurm.JobInfo, error) {
	info, err := s.scheduler.JobInfo(ctx, id)
	if err != nil {
		return slurm.JobInfo{}, fmt.Errorf("looking up job %s; %w", id, err)
	}

	for _, path := range slurm.StdStreams(info) {
		sink := s.stdout
		if path == info.StdErr && path != info.StdOut {
			sink = s.stderr
		}

		opts := []tail.Option{
			tail.WithLogger(s.logger),
			tail.WithPollInterval(s.fileInterval),
			tail.WithTailBytes(s.tailBytes),
			tail.WithFsnotify(s.useFsnotify),
		}
		if !attached {
			opts = append(opts, tail.FromStart())
		}

		tailer := tail.New(path, sink, opts...)

		tctx, cancel := context.WithCancel(ctx)
		s.cancels[id] = append(s.cancels[id], cancel)

		s.logger.Debug("tailing", "job", id, "path", path)

		s.wg.Add(1)
		go func(path string) {
			defer s.wg.Done()
			if err := tailer.Follow(tctx); err != nil {
				s.logger.Error("tail failed", "job", id, "path", path, "error", err)
				select {
				case s.errCh <- err:
				default:
				}
			}
		}(path)
	}

	return info, nil
}

// cancelJob cancels the job's tailers, triggering their final drain.
func (s *Session) cancelJob(id string) {
	for _, cancel := range s.cancels[id] {
		cancel()
	}
	delete(s.cancels, id)
}

func (s *Session) stopAll() {
	for id := range s.cancels {
		s.cancelJob(id)
	}
}

func unfinishedIDs(jobIDs []string, states map[string]slurm.State) []string {
	var out []string
	for _, id := range jobIDs {
		if !states[id].Finished() {
			out = append(out, id)
		}
	}
	return out
}

func allNotStarted(states map[string]slurm.State) bool {
	for _, st := range states {
		if !st.NotStarted() {
			return false
		}
	}
	return true
}
