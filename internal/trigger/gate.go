// StarSync - Automatic Plex Track Rating
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starsync

package trigger

import (
	"sync"
	"sync/atomic"
)

// Gate guarantees at most one sweep (or reset) is in flight. Acquisition
// never blocks: a caller that loses the race is told so immediately.
type Gate struct {
	mu   sync.Mutex
	held atomic.Bool
}

// TryAcquire takes the gate if it is free.
func (g *Gate) TryAcquire() bool {
	if !g.mu.TryLock() {
		return false
	}
	g.held.Store(true)
	return true
}

// Release frees the gate. It must be called exactly once per successful
// TryAcquire.
func (g *Gate) Release() {
	g.held.Store(false)
	g.mu.Unlock()
}

// Held reports whether the gate is currently taken.
func (g *Gate) Held() bool {
	return g.held.Load()
}

// Do runs fn while holding the gate. It returns false without running fn
// when the gate is already held. The gate is released even if fn panics.
func (g *Gate) Do(fn func()) bool {
	if !g.TryAcquire() {
		return false
	}
	defer g.Release()
	fn()
	return true
}
