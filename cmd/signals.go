package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// rootContext returns a context cancelled on SIGINT or SIGTERM. An
// interrupt is a normal way to stop following a long job, so cancellation
// flows through the session as a clean shutdown rather than an error.
func rootContext() context.Context {
	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	return ctx
}
