// Package tail follows a single file, relaying appended bytes verbatim to a
// sink. It tolerates the file not existing yet: batch schedulers create a
// job's output files only once the job starts executing.
package tail

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const readBufferSize = 32 * 1024

// FileError is a fatal error reading a followed file. There is no recovery
// path: the data is unrecoverable without the file.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("reading %s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Tailer follows one file and writes appended bytes to a sink.
type Tailer struct {
	path         string
	sink         io.Writer
	logger       *slog.Logger
	pollInterval time.Duration
	tailBytes    int64
	fromStart    bool
	useFsnotify  bool
}

// Option configures a Tailer.
type Option func(*Tailer)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tailer) {
		t.logger = logger
	}
}

// WithPollInterval sets how often the file is checked for appended data
// and, before creation, for existence.
func WithPollInterval(d time.Duration) Option {
	return func(t *Tailer) {
		t.pollInterval = d
	}
}

// WithTailBytes sets how far back from EOF to start when attaching to a
// file that already has content.
func WithTailBytes(n int64) Option {
	return func(t *Tailer) {
		t.tailBytes = n
	}
}

// FromStart makes Follow read from the beginning of the file instead of
// attaching near EOF. Used when the job started during the session, so no
// output predates the follower.
func FromStart() Option {
	return func(t *Tailer) {
		t.fromStart = true
	}
}

// WithFsnotify enables an inotify watch on the parent directory to shorten
// the wait for file creation. Reads always poll regardless; some shared
// filesystems never deliver notify events for remote writes.
func WithFsnotify(enabled bool) Option {
	return func(t *Tailer) {
		t.useFsnotify = enabled
	}
}

// New creates a Tailer for the given path writing to sink.
func New(path string, sink io.Writer, opts ...Option) *Tailer {
	t := &Tailer{
		path:         path,
		sink:         sink,
		logger:       slog.Default(),
		pollInterval: 500 * time.Millisecond,
		tailBytes:    512,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Follow blocks until the file exists, then relays appended bytes to the
// sink until ctx is cancelled. On cancellation it performs one final drain
// read to catch output written just before the job finished, then returns
// nil. Read errors after the file exists are fatal.
func (t *Tailer) Follow(ctx context.Context) error {
	f, err := t.waitForFile(ctx)
	if err != nil {
		return err
	}
	if f == nil {
		// Cancelled before the file appeared. The job finished without
		// ever creating it, or the user interrupted; nothing to emit.
		t.logger.Debug("follow cancelled before file creation", "path", t.path)
		return nil
	}
	defer f.Close()

	if err := t.seekInitial(f); err != nil {
		return err
	}

	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		if err := t.drain(f); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			// Final drain catches bytes written between the last read and
			// the job being observed as finished.
			return t.drain(f)
		case <-ticker.C:
		}
	}
}

// waitForFile blocks until the file can be opened. Returns (nil, nil) when
// ctx is cancelled before the file exists.
func (t *Tailer) waitForFile(ctx context.Context) (*os.File, error) {
	f, err := t.open()
	if err != nil {
		return nil, err
	}
	if f != nil {
		return f, nil
	}

	t.logger.Debug("waiting for file creation", "path", t.path)

	var events chan fsnotify.Event
	var watchErrs chan error
	if watcher := t.watchParent(); watcher != nil {
		defer watcher.Close()
		events = watcher.Events
		watchErrs = watcher.Errors
	}

	return t.awaitCreation(ctx, events, watchErrs)
}

// awaitCreation polls for the file, additionally waking on creation events.
// Watch errors are drained so the watcher's delivery goroutine never blocks
// on an unread channel; polling covers anything a broken watch misses.
func (t *Tailer) awaitCreation(ctx context.Context, events <-chan fsnotify.Event, watchErrs <-chan error) (*os.File, error) {
	ticker := time.NewTicker(t.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, nil
		case ev := <-events:
			if ev.Name != t.path {
				continue
			}
		case err := <-watchErrs:
			t.logger.Debug("watch error", "path", t.path, "error", err)
			continue
		case <-ticker.C:
		}

		f, err := t.open()
		if err != nil {
			return nil, err
		}
		if f != nil {
			return f, nil
		}
	}
}

// open attempts to open the file. Returns (nil, nil) while the file does
// not exist; any other failure is fatal.
func (t *Tailer) open() (*os.File, error) {
	f, err := os.Open(t.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &FileError{Path: t.path, Err: err}
	}
	return f, nil
}

// watchParent sets up an fsnotify watch on the file's directory. Returns
// nil when disabled or the watch cannot be established; polling covers
// the wait either way.
func (t *Tailer) watchParent() *fsnotify.Watcher {
	if !t.useFsnotify {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.logger.Debug("fsnotify unavailable, polling only", "error", err)
		return nil
	}

	if err := watcher.Add(filepath.Dir(t.path)); err != nil {
		t.logger.Debug("cannot watch directory, polling only",
			"dir", filepath.Dir(t.path), "error", err)
		_ = watcher.Close()
		return nil
	}

	return watcher
}

// seekInitial positions the read cursor. A follower attaching to an
// already-running job starts tailBytes before EOF so the user gets recent
// context without a flood of history.
func (t *Tailer) seekInitial(f *os.File) error {
	if t.fromStart {
		return nil
	}

	info, err := f.Stat()
	if err != nil {
		return &FileError{Path: t.path, Err: err}
	}

	if info.Size() > t.tailBytes {
		if _, err := f.Seek(-t.tailBytes, io.SeekEnd); err != nil {
			return &FileError{Path: t.path, Err: err}
		}
	}

	return nil
}

// drain reads until EOF, relaying bytes to the sink unmodified.
func (t *Tailer) drain(f *os.File) error {
	if err := t.checkTruncated(f); err != nil {
		return err
	}

	buf := make([]byte, readBufferSize)
	for {
		n, err := f.Read(buf)
		if n > 0 {
			if _, werr := t.sink.Write(buf[:n]); werr != nil {
				return fmt.Errorf("writing output; %w", werr)
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return &FileError{Path: t.path, Err: err}
		}
	}
}

// checkTruncated rewinds to the start when the file shrank below the read
// cursor, e.g. the job rotated its own output.
func (t *Tailer) checkTruncated(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return &FileError{Path: t.path, Err: err}
	}

	pos, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return &FileError{Path: t.path, Err: err}
	}

	if info.Size() < pos {
		t.logger.Debug("file truncated, rewinding", "path", t.path)
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return &FileError{Path: t.path, Err: err}
		}
	}

	return nil
}
