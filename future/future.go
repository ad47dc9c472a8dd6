// ============================================================================
// Future - Single-Shot Asynchronous Result Cell
// ============================================================================
//
// Package: future
// File: future.go
// Function: Wraps a task submission so a caller may either block until
// completion (Await) or attach a continuation that runs once the result is
// available (Map, in map.go).
//
// Ported from original_source/future.c and future.h, whose callable_t
// (function, arg, argsz) becomes a plain Go closure func() T, and whose
// sem_t on_result becomes a channel closed exactly once -- the idiomatic Go
// single-shot event, the same pattern the teacher repo's own stopCh uses to
// broadcast shutdown to several loops at once (internal/controller/
// controller.go), reused here for a single reader.
//
// Invariants:
//   - At most one of {a blocked Await, an attached continuation} is ever
//     observed by the worker that produces the result; they are mutually
//     exclusive by construction (see map.go).
//   - finished transitions false->true exactly once, under f.mu.
//   - After finished == true, result is immutable.
//   - f.wake is closed exactly once: either by the producing worker when no
//     continuation is attached (unblocking Await), or immediately before
//     the continuation is delivered (marking the cell quiescent; no awaiter
//     will ever touch it, by the exclusivity invariant).
//
// ============================================================================

package future

import (
	"context"
	"sync"

	"github.com/ChuLiYu/taskpool/pool"
)

// continuation is attached to a Future[T] and knows how to deliver a T into
// whatever future depends on it, regardless of that future's own result
// type -- the Go realization of the "sum type {None, AttachedTo(target)}"
// the original spec's REDESIGN FLAGS calls for.
type continuation[T any] interface {
	deliver(v T)
}

// Future is a single-use cell holding the eventual result of a task
// submitted via Async, or the terminal value of a Map chain.
type Future[T any] struct {
	mu       sync.Mutex
	callable func() T
	result   T
	finished bool
	wake     chan struct{}
	cont     continuation[T]
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{wake: make(chan struct{})}
}

// Async submits fn onto p and returns a Future that resolves to fn's return
// value once a worker runs it.
func Async[T any](p *pool.Pool, fn func() T) (*Future[T], error) {
	f := newFuture[T]()
	f.callable = fn
	if err := p.Submit(f.runWrapper); err != nil {
		return nil, err
	}
	return f, nil
}

// Await blocks until f's producing task has completed and returns its
// result. Await must be called by exactly one goroutine per future, and
// never on a future that has a continuation attached via Map -- the two
// resolution paths are exclusive by map.go's contract.
func Await[T any](f *Future[T]) T {
	<-f.wake
	return f.result
}

// runWrapper is the task body a worker runs for both a directly Async'd
// future and a continuation future reused by Map. It is submitted to a pool
// as a pool.Task, so it takes a context.Context it does not otherwise need.
func (f *Future[T]) runWrapper(_ context.Context) {
	result := f.callable()

	f.mu.Lock()
	f.result = result
	f.finished = true
	cont := f.cont
	f.mu.Unlock()

	if cont != nil {
		// No awaiter will ever observe this future again (exclusivity
		// invariant): closing wake here only marks it quiescent, it does
		// not need to wake anyone.
		close(f.wake)
		cont.deliver(result)
		return
	}

	close(f.wake)
}
