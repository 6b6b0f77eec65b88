package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler returns a context cancelled on SIGINT or SIGTERM. The stop
// function releases the handler; a second signal after cancellation kills the
// process the default way.
func setupSignalHandler(parent context.Context) (context.Context, func()) {
	ctx, cancel := context.WithCancel(parent)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		select {
		case sig := <-sigChan:
			fmt.Fprintf(os.Stderr, "\nReceived signal: %v\n", sig)
			cancel()
			signal.Stop(sigChan)
		case <-done:
		}
	}()

	stop := func() {
		signal.Stop(sigChan)
		close(done)
		cancel()
	}
	return ctx, stop
}
