// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package rwlock implements the reader-writer protocol guarding a shared
// value, composed from plain mutexes.
//
// The turnstile serializes the entry decision only, never the protected
// access itself, which is what lets reader callbacks overlap. Readers
// entering together form a batch: the first claims the resource on behalf
// of all of them and the last releases it. Writers announce intent before
// queueing so a continuous stream of readers cannot starve them.
package rwlock

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// Lock is a reader-writer lock. The zero value is ready to use.
//
// A Lock must not be copied after first use.
type Lock struct {
	turnstile sync.Mutex
	resource  sync.Mutex
	entry     sync.Mutex
	readers   uint
	pending   atomic.Int32
}

// Lock acquires exclusive access, waiting for the current reader batch or
// writer to finish.
func (lock *Lock) Lock() {
	lock.pending.Add(1)
	lock.turnstile.Lock()
	lock.resource.Lock()
	lock.pending.Add(-1)
	lock.turnstile.Unlock()
}

// Unlock releases exclusive access.
func (lock *Lock) Unlock() {
	lock.resource.Unlock()
}

// RLock acquires shared access. If a writer has announced intent, the
// caller yields until that writer holds the resource; the wait is bounded
// by the current reader batch draining.
func (lock *Lock) RLock() {
	for lock.pending.Load() > 0 {
		runtime.Gosched()
	}
	lock.turnstile.Lock()
	lock.entry.Lock()
	if lock.readers++; lock.readers == 1 {
		lock.resource.Lock()
	}
	lock.entry.Unlock()
	lock.turnstile.Unlock()
}

// RUnlock releases shared access. The last reader of a batch releases the
// resource claimed by the first.
func (lock *Lock) RUnlock() {
	lock.entry.Lock()
	if lock.readers--; lock.readers == 0 {
		lock.resource.Unlock()
	}
	lock.entry.Unlock()
}
