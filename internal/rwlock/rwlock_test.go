package rwlock

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestNoLostUpdates(t *testing.T) {
	var lock Lock
	var value int

	const writers = 8
	const rounds = 200

	var group errgroup.Group
	for range writers {
		group.Go(func() error {
			for range rounds {
				lock.Lock()
				value++
				lock.Unlock()
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
	require.Equal(t, writers*rounds, value)
}

// TestWriterExclusion verifies that a writer never runs concurrently with
// another writer or with any reader, while readers may run concurrently
// with each other.
func TestWriterExclusion(t *testing.T) {
	var lock Lock
	var activeReaders, activeWriters atomic.Int32
	var overlappedReaders atomic.Bool

	var group errgroup.Group
	for range 4 {
		group.Go(func() error {
			for range 100 {
				lock.Lock()
				if w := activeWriters.Add(1); w != 1 {
					return fmt.Errorf("concurrent writers: %d", w)
				}
				if r := activeReaders.Load(); r != 0 {
					return fmt.Errorf("writer overlaps %d readers", r)
				}
				time.Sleep(time.Microsecond)
				activeWriters.Add(-1)
				lock.Unlock()
			}
			return nil
		})
	}
	for range 4 {
		group.Go(func() error {
			for range 100 {
				lock.RLock()
				if activeReaders.Add(1) > 1 {
					overlappedReaders.Store(true)
				}
				if w := activeWriters.Load(); w != 0 {
					return fmt.Errorf("reader overlaps writer")
				}
				time.Sleep(time.Microsecond)
				activeReaders.Add(-1)
				lock.RUnlock()
			}
			return nil
		})
	}
	require.NoError(t, group.Wait())
	t.Log("reader overlap observed:", overlappedReaders.Load())
}

// TestReaderBatch verifies that readers entering together share one
// resource claim: a single goroutine can hold several read locks at once.
func TestReaderBatch(t *testing.T) {
	var lock Lock

	lock.RLock()
	lock.RLock()
	lock.RUnlock()
	lock.RUnlock()

	// The batch fully drained, so a writer gets in.
	lock.Lock()
	lock.Unlock()
}

// TestPendingWriterGate verifies that once a writer has announced intent,
// newly arriving readers wait for it instead of extending the current
// reader batch indefinitely.
func TestPendingWriterGate(t *testing.T) {
	var lock Lock
	order := make(chan string, 2)

	lock.RLock() // first batch, holds the resource

	writerReady := make(chan struct{})
	writerDone := make(chan struct{})
	go func() {
		close(writerReady)
		lock.Lock()
		order <- "writer"
		lock.Unlock()
		close(writerDone)
	}()

	<-writerReady
	time.Sleep(20 * time.Millisecond) // let the writer reach the turnstile

	readerDone := make(chan struct{})
	go func() {
		lock.RLock()
		order <- "reader"
		lock.RUnlock()
		close(readerDone)
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-readerDone:
		t.Fatal("late reader entered while a writer was pending")
	default:
	}

	lock.RUnlock() // drain the first batch

	select {
	case <-writerDone:
	case <-time.After(time.Second):
		t.Fatal("pending writer starved")
	}
	<-readerDone

	require.Equal(t, "writer", <-order)
	require.Equal(t, "reader", <-order)
}
