// Copyright 2025 dacapoday
// SPDX-License-Identifier: Apache-2.0

package shared

// Weak is a non-owning handle to a shared value. It keeps the control
// block reachable but never the value: dropping the last owning handle
// destroys the value regardless of live weak handles.
//
// Like Ptr, each individual Weak has a single owner; derive one per
// goroutine from an owning handle instead of sharing it.
//
// Zero value is a tombstone. Derive via (*Ptr).Weak.
type Weak[T any] struct {
	ctrl *control[T]
}

// Promote attempts to mint an owning handle to the value. It reports
// false once the value has been destroyed; the weak handle itself remains
// usable either way.
//
// Promote and the final drop of an owning handle serialize on the same
// mutex, so a successful promotion always observes the value strictly
// before any destruction, never during.
func (weak *Weak[T]) Promote() (*Ptr[T], bool) {
	ctrl := weak.ctrl
	if ctrl == nil {
		return nil, false
	}
	ctrl.counts.Lock()
	defer ctrl.counts.Unlock()
	if ctrl.strong == 0 {
		return nil, false
	}
	ctrl.strong++
	return &Ptr[T]{ctrl: ctrl}, true
}

// Close drops the weak reference and tombstones the handle. It never
// triggers the destructor and never changes the strong count.
//
// No-op on a tombstone.
func (weak *Weak[T]) Close() error {
	ctrl := weak.ctrl
	if ctrl == nil {
		return nil
	}
	weak.ctrl = nil

	ctrl.counts.Lock()
	ctrl.weak--
	ctrl.counts.Unlock()
	return nil
}
