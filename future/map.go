// ============================================================================
// Future - Continuation Chaining
// ============================================================================
//
// Package: future
// File: map.go
// Function: Map atomically attaches a follow-up task to a predecessor
// future, so it runs on a designated pool once the predecessor completes.
//
// original_source/future.c left map() as a stub ("return 0;") -- one of the
// half-finished variants spec.md's Open Questions section calls out by name.
// This is new logic, built from future.h's struct continuation field layout
// (task, pool_for_task) and the protocol spec.md §4.5 describes in prose.
//
// Protocol:
//  1. Construct the new future with its callable left unset.
//  2. Lock the predecessor.
//  3. If predecessor.finished is already true: copy its result, unlock, and
//     submit the wrapper onto p immediately.
//  4. Otherwise: install a continuation on the predecessor; unlock. The
//     worker finishing the predecessor performs the submission (future.go's
//     runWrapper, step "cont != nil").
//
// Step 3 vs. step 4 is decided atomically under the predecessor's lock;
// combined with runWrapper taking that same lock before reading the
// continuation, exactly one of {Await returns, continuation fires} happens
// for the predecessor. Installing a second continuation is rejected with an
// error rather than silently overwritten -- a deliberate hardening beyond
// the original's "programmer error, undefined" framing, since Go has no
// undefined-behavior sink to blame the mistake on.
//
// ============================================================================

package future

import (
	"errors"
	"fmt"

	"github.com/ChuLiYu/taskpool/pool"
)

// ErrContinuationAlreadySet is returned when Map is called twice on the same
// predecessor future. A future accepts at most one continuation.
var ErrContinuationAlreadySet = errors.New("future: predecessor already has a continuation attached")

// mapContinuation delivers a predecessor's T into a function producing U,
// then submits the resulting future's wrapper onto its own target pool.
type mapContinuation[T, U any] struct {
	targetPool *pool.Pool
	target     *Future[U]
	fn         func(T) U
}

func (c *mapContinuation[T, U]) deliver(v T) {
	value := v
	c.target.callable = func() U { return c.fn(value) }
	if err := c.targetPool.Submit(c.target.runWrapper); err != nil {
		pool.DefaultFatalHandler(fmt.Errorf("future: failed to submit continuation: %w", err))
	}
}

// Map constructs a new future whose value is fn(predecessor's result),
// computed on p. If predecessor has already finished, the new future is
// submitted immediately; otherwise it runs as soon as predecessor's
// producing worker completes.
func Map[T, U any](p *pool.Pool, predecessor *Future[T], fn func(T) U) (*Future[U], error) {
	target := newFuture[U]()

	predecessor.mu.Lock()
	if predecessor.cont != nil {
		predecessor.mu.Unlock()
		return nil, ErrContinuationAlreadySet
	}

	predecessor.cont = &mapContinuation[T, U]{targetPool: p, target: target, fn: fn}
	if predecessor.finished {
		// runWrapper has already run and never reads cont again; setting it
		// here only makes a later Map on this predecessor fail as well.
		result := predecessor.result
		predecessor.mu.Unlock()

		target.callable = func() U { return fn(result) }
		if err := p.Submit(target.runWrapper); err != nil {
			return nil, err
		}
		return target, nil
	}
	predecessor.mu.Unlock()

	return target, nil
}
