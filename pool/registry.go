// ============================================================================
// Task Pool - Process-Wide Pool Registry
// ============================================================================
//
// Package: pool
// File: registry.go
// Purpose: Tracks every live *Pool so the signal handler (signal.go) can
// drain all of them on an interrupt, without any caller having to thread a
// reference to every pool it creates through to a central shutdown path.
//
// The registry is a package-level singleton, constructed lazily on first use
// rather than in an init() function, to avoid static-initialization-order
// hazards across packages that both import pool and construct a Pool during
// their own init().
//
// ============================================================================

package pool

import "sync"

var (
	registryMu sync.Mutex
	registry   []*Pool
)

func register(p *Pool) {
	registryMu.Lock()
	registry = append(registry, p)
	registryMu.Unlock()
}

func unregister(p *Pool) {
	registryMu.Lock()
	for i, q := range registry {
		if q == p {
			registry = append(registry[:i], registry[i+1:]...)
			break
		}
	}
	registryMu.Unlock()
}

// shutdownAll drains and removes every currently registered pool. It snapshots
// the registry under lock, then stops each pool outside the lock so a pool's
// own Stop (which calls unregister, re-acquiring registryMu) cannot deadlock.
func shutdownAll() {
	registryMu.Lock()
	pools := make([]*Pool, len(registry))
	copy(pools, registry)
	registry = registry[:0]
	registryMu.Unlock()

	for _, p := range pools {
		p.Stop()
	}
}

// LiveCount reports how many pools are currently registered. Exposed for
// tests; ordinary callers have no reason to inspect the registry directly.
func LiveCount() int {
	registryMu.Lock()
	defer registryMu.Unlock()
	return len(registry)
}
