package util

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// exitInterrupted is the conventional status for a run ended by SIGINT
const exitInterrupted = 130

// SetupSignalHandler returns a context cancelled on the first SIGINT or
// SIGTERM. Cancellation stops a benchmark between trials, so the summary of
// completed scenarios still prints. A second signal exits immediately.
// The returned stop function releases the signal handler.
func SetupSignalHandler() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigCh:
			slog.Warn("interrupted, stopping after the current trial", "signal", sig.String())
			cancel()
		case <-done:
			return
		}

		select {
		case sig := <-sigCh:
			slog.Error("second interrupt, exiting without summary", "signal", sig.String())
			os.Exit(exitInterrupted)
		case <-done:
		}
	}()

	var once sync.Once
	stop := func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(done)
			cancel()
		})
	}
	return ctx, stop
}
