// Copyright (c) 2025 Karl Gaissmaier
// SPDX-License-Identifier: MIT

// Package pool provides a type-safe, generic wrapper around sync.Pool
// with allocation statistics, adapted from the bart routing-table
// library's node pool. It is used to recycle the scratch structures
// replace and evaluate_replace allocate on every call: a
// builder mutation is purely local, so the scratch state from one
// replace can usually serve the next without a fresh allocation.
package pool

import (
	"sync"
	"sync/atomic"
)

// Pool is a type-safe wrapper around sync.Pool, specialized for *T.
//
// It efficiently reuses *T memory and tracks statistics on allocations
// and active use for debugging and performance tuning.
type Pool[T any] struct {
	sync.Pool

	newFn   func() *T
	resetFn func(*T)

	// TODO: remove it once the code is stable.
	totalAllocated atomic.Int64
	currentLive    atomic.Int64
}

// New creates a pool for *T instances, using newFn to allocate and
// resetFn to clear a value before it is returned to the pool. resetFn
// may be nil if T needs no clearing.
func New[T any](newFn func() *T, resetFn func(*T)) *Pool[T] {
	p := &Pool[T]{newFn: newFn, resetFn: resetFn}
	p.Pool.New = func() any {
		p.totalAllocated.Add(1) // TODO: remove it once the code is stable.
		return newFn()
	}
	return p
}

// Get retrieves a *T from the pool, or creates a new one if needed.
//
// If p is nil, a new value is returned without tracking.
func (p *Pool[T]) Get() *T {
	if p == nil {
		return new(T)
	}
	p.currentLive.Add(1) // TODO: remove it once the code is stable.
	return p.Pool.Get().(*T)
}

// Put returns a *T back to the pool for potential reuse, resetting it
// first.
//
// If p is nil, v is discarded.
func (p *Pool[T]) Put(v *T) {
	if p == nil {
		return
	}
	p.currentLive.Add(-1) // TODO: remove it once the code is stable.

	if p.resetFn != nil {
		p.resetFn(v)
	}
	p.Pool.Put(v)
}

// Stats returns the number of currently live (checked-out) values and
// the total number ever allocated by this pool.
//
// TODO: remove it once the code is stable.
func (p *Pool[T]) Stats() (live int64, total int64) {
	if p == nil {
		return 0, 0
	}
	return p.currentLive.Load(), p.totalAllocated.Load()
}
