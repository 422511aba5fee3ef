// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package shared

import "github.com/dacapoday/grip"

type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Readable holds shared access to the value between AcquireRead and
// Release. It must not be copied; a released guard is a tombstone, so the
// lock state it took is given back at most once.
//
// Important: caller must call Release when done. The usual shape is
//
//	guard, err := ptr.AcquireRead()
//	if err != nil { ... }
//	defer guard.Release()
type Readable[T any] struct {
	ctrl *control[T]
	_    noCopy
}

// AcquireRead enters the read protocol eagerly and hands the held state to
// a guard. Several read guards may be live at once, including in a single
// goroutine; they share one resource claim.
func (ptr *Ptr[T]) AcquireRead() (*Readable[T], error) {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return nil, grip.ErrUseAfterMove
	}
	ctrl.lock.RLock()
	return &Readable[T]{ctrl: ctrl}, nil
}

// Value returns the guarded value. It must not be mutated through a
// Readable. Returns nil once released.
func (guard *Readable[T]) Value() *T {
	if guard.ctrl == nil {
		return nil
	}
	return &guard.ctrl.item
}

// Release gives back exactly the lock state AcquireRead took.
// No-op on a tombstone.
func (guard *Readable[T]) Release() {
	ctrl := guard.ctrl
	if ctrl == nil {
		return
	}
	guard.ctrl = nil
	ctrl.lock.RUnlock()
}

// Writeable holds exclusive access to the value between AcquireWrite and
// Release. Same copy and release rules as Readable.
type Writeable[T any] struct {
	ctrl *control[T]
	_    noCopy
}

// AcquireWrite enters the write protocol eagerly and hands the held state
// to a guard. No reader or other writer runs until it is released.
func (ptr *Ptr[T]) AcquireWrite() (*Writeable[T], error) {
	ctrl := ptr.ctrl
	if ctrl == nil {
		return nil, grip.ErrUseAfterMove
	}
	ctrl.lock.Lock()
	return &Writeable[T]{ctrl: ctrl}, nil
}

// Value returns the guarded value for reading and writing.
// Returns nil once released.
func (guard *Writeable[T]) Value() *T {
	if guard.ctrl == nil {
		return nil
	}
	return &guard.ctrl.item
}

// Release gives back exclusive access. No-op on a tombstone.
func (guard *Writeable[T]) Release() {
	ctrl := guard.ctrl
	if ctrl == nil {
		return
	}
	guard.ctrl = nil
	ctrl.lock.Unlock()
}
