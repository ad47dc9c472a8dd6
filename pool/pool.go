// ============================================================================
// Task Pool - Bounded Concurrency Worker Pool
// ============================================================================
//
// Package: pool
// File: pool.go
// Function: Owns N worker goroutines that dequeue and execute opaque tasks,
// accepts new work while open, and drains to a well-defined stop.
//
// Design Pattern:
//   Fixed-size worker pool over a single shared Blocking queue:
//     1. N workers loop: pop a task, run it, repeat.
//     2. Submit enqueues; it never blocks on execution, only briefly on the
//        queue's internal mutex.
//     3. Stop flips accepting off, enqueues one nil "sentinel" task per
//        worker (which sorts to the tail, so everything submitted earlier
//        still runs), then waits for every worker to see its sentinel and
//        exit.
//
// Task Representation:
//   A Task is a plain closure, func(context.Context). The original C source
//   threaded an opaque (function, argument pointer, size) triple through the
//   queue; a Go closure already captures whatever state it needs, so there
//   is nothing left to erase except the type of the pool itself, which is
//   not generic (queue uniformity per spec.md's REDESIGN FLAGS). The nil
//   Task is reserved as the sentinel meaning "stop" -- directly mirroring the
//   original's null function pointer sentinel.
//
// Self-Stop Detection:
//   A task may call Stop on the very pool that is running it (this happens
//   in practice when a pool-owning component reacts to its own shutdown
//   signal from inside a worker). Waiting on every worker's completion in
//   that case would deadlock: the calling worker cannot finish until the
//   task function running Stop returns. Each worker gets its own context
//   carrying a marker identifying "I am worker i of pool p"; StopContext
//   checks the context for that marker and skips waiting on the matching
//   worker's done channel, while still enqueuing that worker's sentinel so
//   it exits (on its own time) once the in-flight task returns.
//
// ============================================================================

package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ChuLiYu/taskpool/pool/metrics"
	"github.com/ChuLiYu/taskpool/queue"
)

// ErrPoolClosed indicates Submit was called after Stop.
var ErrPoolClosed = errors.New("pool: closed, not accepting new tasks")

// Task is an opaque unit of work. A nil Task is reserved as the sentinel
// used internally to signal a worker to stop; Submit rejects a nil Task.
type Task func(ctx context.Context)

// FatalHandler is invoked on a condition the pool cannot safely recover
// from (not an ordinary task panic, which is recovered and counted, but an
// internal invariant violation). The formatter for a human-readable report
// is an injected dependency: the core only calls the hook.
type FatalHandler func(error)

// DefaultFatalHandler logs the error via slog and panics with it; unless
// something up the calling goroutine's stack recovers, the process exits.
// Callers that want a formatted stack trace or a softer
// exit path should supply their own handler via WithFatalHandler.
func DefaultFatalHandler(err error) {
	slog.Default().Error("taskpool: fatal condition", "error", err)
	panic(err)
}

type selfKey struct{}

type workerSelf struct {
	pool  *Pool
	index int
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithMetrics attaches a Prometheus collector that records queue depth,
// active worker count, task latency, and recovered panics.
func WithMetrics(c *metrics.Collector) Option {
	return func(p *Pool) { p.metrics = c }
}

// WithFatalHandler overrides the default fatal-condition hook.
func WithFatalHandler(h FatalHandler) Option {
	return func(p *Pool) { p.fatal = h }
}

// Pool is a fixed-size worker pool with a thread-safe FIFO task queue.
type Pool struct {
	n         int
	queue     *queue.Blocking[Task]
	accepting atomic.Bool
	active    atomic.Int64
	done      []chan struct{}
	stopOnce  sync.Once
	metrics   *metrics.Collector
	fatal     FatalHandler
}

// NewPool creates a pool of n workers, starts them, and registers the pool
// with the process-wide registry so it is drained on an interrupt signal.
// n == 0 is legal: the pool has no workers and Stop drains immediately.
func NewPool(n int, opts ...Option) (*Pool, error) {
	if n < 0 {
		return nil, fmt.Errorf("pool: worker count must be >= 0, got %d", n)
	}

	p := &Pool{
		n:     n,
		queue: queue.NewBlocking[Task](),
		fatal: DefaultFatalHandler,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.accepting.Store(true)
	p.active.Store(int64(n))
	p.done = make([]chan struct{}, n)

	for i := 0; i < n; i++ {
		p.done[i] = make(chan struct{})
		go p.runWorker(i)
	}

	if p.metrics != nil {
		p.metrics.SetActiveWorkers(n)
		p.metrics.SetQueueDepth(0)
	}

	register(p)
	ensureSignalHandlerStarted()

	return p, nil
}

// runWorker is the main loop of one worker: pop a task, run it, repeat,
// until the queue reports closed or the task is the nil sentinel.
func (p *Pool) runWorker(i int) {
	ctx := context.WithValue(context.Background(), selfKey{}, workerSelf{pool: p, index: i})

	defer close(p.done[i])
	defer func() {
		n := p.active.Add(-1)
		if p.metrics != nil {
			p.metrics.SetActiveWorkers(int(n))
		}
	}()

	for {
		task, ok := p.queue.PopFront()
		if !ok {
			// The queue was closed out from under a running worker. This
			// should never happen in ordinary operation: Stop() drains via
			// sentinels and never closes the queue while workers are live.
			p.fatal(errors.New("pool: worker queue closed unexpectedly"))
			return
		}
		if task == nil {
			return // sentinel: stop
		}
		p.runTask(ctx, task)
		if p.metrics != nil {
			p.metrics.SetQueueDepth(p.queue.Len())
		}
	}
}

// runTask executes one task, recovering a panic so a misbehaving task
// cannot take down the worker goroutine.
func (p *Pool) runTask(ctx context.Context, task Task) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if p.metrics != nil {
				p.metrics.RecordPanic()
			}
		}
	}()
	task(ctx)
	if p.metrics != nil {
		p.metrics.RecordTaskCompleted(time.Since(start).Seconds())
	}
}

// Submit enqueues task for execution. It returns ErrPoolClosed if Stop has
// already been called. Submit never blocks on task execution; it may block
// briefly on the queue's internal mutex.
func (p *Pool) Submit(task Task) error {
	if task == nil {
		return errors.New("pool: cannot submit a nil task")
	}
	if !p.accepting.Load() {
		return ErrPoolClosed
	}
	p.queue.PushBack(task)
	if p.metrics != nil {
		p.metrics.SetQueueDepth(p.queue.Len())
	}
	return nil
}

// Stop stops accepting new tasks, drains everything already queued, and
// waits for every worker to exit before returning. Stop is idempotent.
func (p *Pool) Stop() {
	p.StopContext(context.Background())
}

// StopContext is Stop, but aware of the calling goroutine's worker context.
// If ctx identifies the caller as one of this pool's own workers (i.e. a
// task called Stop on the pool running it), StopContext still enqueues that
// worker's sentinel but does not wait on it, avoiding a self-deadlock.
func (p *Pool) StopContext(ctx context.Context) {
	p.stopOnce.Do(func() {
		p.accepting.Store(false)

		selfIndex := -1
		if self, ok := ctx.Value(selfKey{}).(workerSelf); ok && self.pool == p {
			selfIndex = self.index
		}

		for i := 0; i < p.n; i++ {
			p.queue.PushBack(nil)
		}

		for i, ch := range p.done {
			if i == selfIndex {
				continue
			}
			<-ch
		}

		unregister(p)
	})
}

// ActiveWorkers returns the number of workers that have not yet exited.
func (p *Pool) ActiveWorkers() int {
	return int(p.active.Load())
}

// WorkerCount returns the fixed number of workers this pool was created
// with, regardless of how many are still active.
func (p *Pool) WorkerCount() int {
	return p.n
}

// Accepting reports whether the pool is still accepting Submit calls.
func (p *Pool) Accepting() bool {
	return p.accepting.Load()
}
