// ============================================================================
// Task Pool - Signal-Driven Shutdown
// ============================================================================
//
// Package: pool
// File: signal.go
// Purpose: On SIGINT/SIGTERM, gracefully drain every live pool so a process
// embedding this package can exit without losing queued work.
//
// The original C source installs an empty SIGINT handler (so the kernel
// doesn't kill the process on delivery) and runs a dedicated thread blocked
// in sigwait, while every other thread masks the signal -- a single-consumer
// model for an otherwise process-wide, undeliverable-to-a-specific-thread
// signal. Go's os/signal already gives every process that model for free:
// signal.Notify both disables the default terminate-on-SIGINT behavior and
// funnels delivery into a channel read by exactly one goroutine, so there is
// nothing left for other goroutines to mask.
//
// Unlike the original's one-shot "interrupt happened, drain, process exits
// shortly after," this port's handler goroutine keeps running after a drain:
// a long-lived Go process may create and destroy pools many times over its
// life, and a second interrupt later on should still drain whatever is live
// at that point.
//
// ============================================================================

package pool

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

var (
	signalOnce     sync.Once
	signalStopOnce sync.Once
	signalStarted  bool
	interruptCh    chan os.Signal
	internalStopCh chan struct{}
	handlerDone    chan struct{}
)

// ensureSignalHandlerStarted lazily installs the interrupt listener and
// starts the handler goroutine. Safe to call repeatedly and concurrently.
func ensureSignalHandlerStarted() {
	signalOnce.Do(func() {
		interruptCh = make(chan os.Signal, 1)
		internalStopCh = make(chan struct{})
		handlerDone = make(chan struct{})

		signal.Notify(interruptCh, os.Interrupt, syscall.SIGTERM)
		signalStarted = true

		go signalHandlerLoop()
	})
}

func signalHandlerLoop() {
	defer close(handlerDone)
	for {
		select {
		case <-internalStopCh:
			return
		case <-interruptCh:
			shutdownAll()
		}
	}
}

// StopSignalHandler stops the package-level signal-handling goroutine and
// waits for it to exit. It mirrors the original's process-exit destructor
// hook, which Go has no automatic equivalent of; callers that want a clean
// teardown (mainly tests, and cmd/demo's main) should defer a call to it.
// A no-op if the handler was never started.
func StopSignalHandler() {
	if !signalStarted {
		return
	}
	signalStopOnce.Do(func() {
		signal.Stop(interruptCh)
		close(internalStopCh)
		<-handlerDone
	})
}
