// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package shared provides reference-counted shared ownership of a heap
// value guarded by a reader-writer protocol.
//
// A control block is the single allocation backing a shared value. Owning
// handles (Ptr) keep the value alive: the value is destroyed when the last
// one closes. Non-owning handles (Weak) reference the same block without
// keeping the value alive and can be promoted back to owning handles while
// it still is.
//
// Counts and lock state are managed as a unit: strong/weak mutations are
// serialized by one mutex, so promotion can never observe a value that is
// concurrently being destroyed.
package shared

import (
	"sync"

	"github.com/dacapoday/grip"
	"github.com/dacapoday/grip/internal/rwlock"
)

// control is the single allocation backing a shared value. Its address is
// its identity. It is never exposed outside the handle types; the lock
// protocol is the only route to the value.
type control[T any] struct {
	item T
	dtor grip.Destructor[T]

	counts sync.Mutex
	strong uint
	weak   uint

	lock rwlock.Lock
}

// destroy runs the destructor on item with writer access, so a guard still
// held when the last owning handle closes delays destruction rather than
// racing it. Called once, by the drop that took strong to zero, after that
// drop has released counts: count operations must stay reachable while
// destruction waits on the resource, so promotion observes zero and fails
// instead of queueing behind it.
func (ctrl *control[T]) destroy() {
	ctrl.lock.Lock()
	if dtor := ctrl.dtor; dtor != nil {
		ctrl.dtor = nil
		dtor(&ctrl.item)
	}
	var zero T
	ctrl.item = zero
	ctrl.lock.Unlock()
}

// Ptr is an owning handle to a shared value.
//
// Handles referencing one control block may be used from different
// goroutines freely. Each individual handle has a single owner: do not
// race Close against other operations on the same handle, pass clones to
// other goroutines instead.
//
// Zero value is a tombstone. Call New.
type Ptr[T any] struct {
	ctrl *control[T]
}

var _ grip.Handle[int] = (*Ptr[int])(nil)

// New allocates a control block around a zeroed T and returns its first
// owning handle. A nil destructor means structural teardown: the value is
// zeroed when the last owning handle closes.
func New[T any](dtor grip.Destructor[T]) *Ptr[T] {
	return &Ptr[T]{ctrl: &control[T]{dtor: dtor, strong: 1}}
}

// Clone mints a new owning handle to the same value.
func (ptr *Ptr[T]) Clone() (*Ptr[T], error) {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return nil, grip.ErrUseAfterMove
	}
	ctrl.counts.Lock()
	ctrl.strong++
	ctrl.counts.Unlock()
	return &Ptr[T]{ctrl: ctrl}, nil
}

// Weak derives a non-owning handle to the same value. The weak handle
// never keeps the value alive and never triggers the destructor.
func (ptr *Ptr[T]) Weak() (*Weak[T], error) {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return nil, grip.ErrUseAfterMove
	}
	ctrl.counts.Lock()
	ctrl.weak++
	ctrl.counts.Unlock()
	return &Weak[T]{ctrl: ctrl}, nil
}

// Read invokes fn with shared access to the value. The callback must not
// mutate the value and must not operate on handles to the same value.
// Callbacks of concurrent Read calls may run at the same time; the lock
// state is released even if fn panics.
func (ptr *Ptr[T]) Read(fn func(*T)) error {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return grip.ErrUseAfterMove
	}
	ctrl.lock.RLock()
	defer ctrl.lock.RUnlock()
	fn(&ctrl.item)
	return nil
}

// Write invokes fn with exclusive access to the value. The callback must
// not operate on handles to the same value. The lock state is released
// even if fn panics.
func (ptr *Ptr[T]) Write(fn func(*T)) error {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return grip.ErrUseAfterMove
	}
	ctrl.lock.Lock()
	defer ctrl.lock.Unlock()
	fn(&ctrl.item)
	return nil
}

// Close drops this handle's ownership and tombstones it. When the last
// owning handle closes, the destructor runs exactly once; the control
// block itself is abandoned to the collector once no weak handle
// references it either.
//
// No-op on a tombstone.
func (ptr *Ptr[T]) Close() error {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return nil
	}
	ptr.ctrl = nil

	ctrl.counts.Lock()
	ctrl.strong--
	last := ctrl.strong == 0
	ctrl.counts.Unlock()

	// Once strong is zero nothing re-increments it: promotion observes
	// zero under counts and fails. So destruction needs no count lock,
	// and racing final drops still pick exactly one destroyer because
	// the decrement itself is serialized.
	if last {
		ctrl.destroy()
	}
	return nil
}
