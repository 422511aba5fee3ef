// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

// Package unique provides exclusive, move-only ownership of a heap value.
//
// A unique.Ptr is the sole owner of its value: it cannot be duplicated,
// only moved. Moving leaves the source as a tombstone; every later access
// through it fails with grip.ErrUseAfterMove.
package unique

import (
	"sync"

	"github.com/dacapoday/grip"
)

// Ptr is the sole owner of a heap value plus its destructor.
//
// A Ptr must not be copied (go vet's copylocks check rejects it; Clone is
// the runtime refusal). Internal state is guarded so a racing access
// observes either the live value or the tombstone, never a torn state,
// but ownership transfer itself is the caller's to order.
//
// Zero value is a tombstone. Call New.
type Ptr[T any] struct {
	mutex sync.Mutex
	item  *T
	dtor  grip.Destructor[T]
}

var _ grip.Handle[int] = (*Ptr[int])(nil)

// New allocates a zeroed T and returns its owning handle. A nil destructor
// means structural teardown: the value is zeroed on Close.
func New[T any](dtor grip.Destructor[T]) *Ptr[T] {
	return &Ptr[T]{item: new(T), dtor: dtor}
}

// Read invokes fn with access to the value. The callback must not mutate
// the value and must not operate on the handle itself.
func (ptr *Ptr[T]) Read(fn func(*T)) error {
	ptr.mutex.Lock()
	defer ptr.mutex.Unlock()
	if ptr.item == nil {
		return grip.ErrUseAfterMove
	}
	fn(ptr.item)
	return nil
}

// Write invokes fn with mutable access to the value. The callback must not
// operate on the handle itself.
func (ptr *Ptr[T]) Write(fn func(*T)) error {
	ptr.mutex.Lock()
	defer ptr.mutex.Unlock()
	if ptr.item == nil {
		return grip.ErrUseAfterMove
	}
	fn(ptr.item)
	return nil
}

// Move transfers the value and destructor to a fresh handle and
// tombstones ptr. The value itself is not reallocated; the new handle
// behaves as if it had been constructed around it originally.
func (ptr *Ptr[T]) Move() (*Ptr[T], error) {
	ptr.mutex.Lock()
	defer ptr.mutex.Unlock()
	if ptr.item == nil {
		return nil, grip.ErrUseAfterMove
	}
	next := &Ptr[T]{item: ptr.item, dtor: ptr.dtor}
	ptr.item = nil
	ptr.dtor = nil
	return next, nil
}

// Clone always fails with grip.ErrCopyNotSupported: an exclusive handle
// has exactly one owner. No side effects.
func (ptr *Ptr[T]) Clone() (*Ptr[T], error) {
	return nil, grip.ErrCopyNotSupported
}

// Close destroys the value: the destructor runs with mutable access, the
// value is zeroed, and the handle becomes a tombstone. No-op on a
// tombstone, so closing a moved-from handle is safe.
func (ptr *Ptr[T]) Close() error {
	ptr.mutex.Lock()
	defer ptr.mutex.Unlock()
	item := ptr.item
	if item == nil {
		return nil
	}
	ptr.item = nil

	if dtor := ptr.dtor; dtor != nil {
		ptr.dtor = nil
		dtor(item)
	}
	var zero T
	*item = zero
	return nil
}
