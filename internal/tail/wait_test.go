package tail

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestAwaitCreationDrainsWatchErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slurm-1.out")

	var sink bytes.Buffer
	// Poll interval long enough that only the event path can succeed.
	tailer := New(path, &sink, WithPollInterval(time.Hour))

	events := make(chan fsnotify.Event)
	watchErrs := make(chan error)

	done := make(chan struct{})
	go func() {
		defer close(done)

		// An unbuffered sender stalls unless the wait loop keeps reading.
		for i := 0; i < 3; i++ {
			watchErrs <- errors.New("event queue overflowed")
		}

		if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
			t.Error(err)
			return
		}
		events <- fsnotify.Event{Name: path, Op: fsnotify.Create}
	}()

	f, err := tailer.awaitCreation(context.Background(), events, watchErrs)
	if err != nil {
		t.Fatalf("awaitCreation() error: %v", err)
	}
	if f == nil {
		t.Fatal("awaitCreation() = nil file after creation event")
	}
	f.Close()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watch error sender blocked; errors not drained")
	}
}

func TestAwaitCreationCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "never.out")

	var sink bytes.Buffer
	tailer := New(path, &sink, WithPollInterval(20*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f, err := tailer.awaitCreation(ctx, nil, nil)
	if err != nil {
		t.Fatalf("awaitCreation() error: %v", err)
	}
	if f != nil {
		f.Close()
		t.Fatal("awaitCreation() returned a file after cancellation")
	}
}
