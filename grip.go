// Package grip defines basic contracts for manually managed, thread-safe
// ownership handles to heap values.
//
// Two handle kinds share these contracts:
//   - unique.Ptr: exclusive, move-only ownership of a private value.
//   - shared.Ptr: reference-counted shared ownership, with weak handles
//     (shared.Weak) that can be promoted back to owning handles while the
//     value is still alive.
//
// A handle that has been closed or moved-from is a tombstone: every access
// through it fails with ErrUseAfterMove and has no side effects.
package grip

// Destructor tears down a value once its last owner is gone. It runs
// exactly once, with mutable access to the value being torn down: when the
// exclusive handle closes, or when the strong count of a shared value
// reaches zero.
//
// A nil Destructor means structural teardown: the value is zeroed, dropping
// everything it references.
type Destructor[T any] func(*T)

// Handle is the access contract satisfied by both handle kinds.
//
// Read invokes its callback with shared access to the value; the callback
// must not mutate. Write invokes its callback with exclusive access. Close
// drops this handle's ownership; it is idempotent. The lock state taken by
// Read and Write is released on every exit path, including a panicking
// callback.
type Handle[T any] interface {
	Read(func(*T)) error
	Write(func(*T)) error
	Close() error
}
