// Package rwlock implements a futex-backed reader/writer lock with an
// optional writer-preference mode and a bounded-spin waiter queue,
// following the state-word encoding and contended-path shape of
// LLVM-libc's internal Rwlock.
package rwlock

import (
	"runtime"

	"github.com/gopherlibc/swisscore/internal/futex"
	"github.com/gopherlibc/swisscore/lock"
	"github.com/gopherlibc/swisscore/timeout"
)

// Result mirrors the small set of outcomes the underlying libc
// Rwlock reports; the POSIX shim layer maps these to errno values.
type Result int

const (
	Success Result = iota
	Failed
	Timeout
	Overflow
	DeadLock
	Invalid
)

func (r Result) String() string {
	switch r {
	case Success:
		return "success"
	case Failed:
		return "failed"
	case Timeout:
		return "timeout"
	case Overflow:
		return "overflow"
	case DeadLock:
		return "deadlock"
	case Invalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// ErrResult adapts a non-Success Result into an error for callers
// that prefer the Go idiom over checking a Result directly.
type ErrResult struct{ Result Result }

func (e ErrResult) Error() string { return "rwlock: " + e.Result.String() }

const (
	pendingReadersShift       = 0
	pendingReadersBit         = 1 << pendingReadersShift
	pendingWritersShift       = 1
	pendingWritersBit         = 1 << pendingWritersShift
	writerShift               = 31
	writerBit           int32 = -1 << writerShift
	readerCountShift          = 2
	readerUnit                = 1 << readerCountShift
	pendingMask               = pendingReadersBit | pendingWritersBit
	spinLimit                 = 100
	maxReaders                = (1 << 29) - 1 // readerUnit * 2^29 overflows the signed state word
)

func ownedByWriter(state int32) bool    { return state < 0 }
func ownedByReader(state int32) bool    { return state >= readerUnit }
func ownedByAnyone(state int32) bool    { return ownedByReader(state) || ownedByWriter(state) }
func hasPendingWriter(state int32) bool { return state&pendingWritersBit != 0 }
func hasPending(state int32) bool       { return state&pendingMask != 0 }

// queue serializes waiter bookkeeping; the state word itself stays
// lock-free, and the only state-word updates made while queue.mu is
// held are the atomic ORs that set the pending-reader/pending-writer
// bits.
type queue struct {
	mu                 lock.Mutex
	pendingReaderCount int
	pendingWriterCount int
	readerFutex        futex.Word
	writerFutex        futex.Word
}

// RwLock is a reader/writer lock backed by a single lock-free 32-bit
// state word plus a small serialized waiter queue for the contended
// path. The zero value is a usable, unlocked RwLock in non-shared,
// reader-preferring mode; use New for other configurations.
type RwLock struct {
	state        atomicInt32
	writerTID    atomicInt32
	queue        queue
	preferWriter bool
}

// New constructs an RwLock. preferWriter, once a writer is pending,
// rejects new readers from the fast path so writers are never starved
// by a continuous stream of readers.
func New(preferWriter bool) *RwLock {
	return &RwLock{preferWriter: preferWriter}
}

func (rw *RwLock) isReadLockable(state int32) bool {
	cannot := ownedByWriter(state) || (rw.preferWriter && hasPendingWriter(state))
	return !cannot
}

func (rw *RwLock) isWriteLockable(state int32) bool {
	return !ownedByAnyone(state)
}

// TryRead attempts to acquire a read lock without blocking.
func (rw *RwLock) TryRead() Result {
	old := rw.state.Load()
	for rw.isReadLockable(old) {
		if (old >> readerCountShift) >= maxReaders {
			return Overflow
		}
		if rw.state.CompareAndSwap(old, old+readerUnit) {
			return Success
		}
		old = rw.state.Load()
	}
	return Failed
}

// TryWrite attempts to acquire the write lock without blocking.
func (rw *RwLock) TryWrite() Result {
	old := rw.state.Load()
	for rw.isWriteLockable(old) {
		next := old | writerBit
		if rw.state.CompareAndSwap(old, next) {
			rw.writerTID.Store(int32(currentTID()))
			return Success
		}
		old = rw.state.Load()
	}
	return Failed
}

func (rw *RwLock) spinUntil(pred func(int32) bool) int32 {
	state := rw.state.Load()
	for i := 0; i < spinLimit; i++ {
		if pred(state) {
			return state
		}
		runtime.Gosched()
		state = rw.state.Load()
	}
	return state
}

func (rw *RwLock) checkTimeout(t *timeout.Timeout) (Result, *timeout.Timeout) {
	if t == nil {
		return Success, nil
	}
	mono := t.ToTimepoint(timeout.Monotonic)
	return Success, &mono
}

// Read acquires a read lock, blocking until it is available or, if
// timeout is non-nil, until the deadline passes.
func (rw *RwLock) Read(t *timeout.Timeout) Result {
	if r := rw.TryRead(); r == Success || r == Overflow {
		return r
	}
	return rw.readContended(t)
}

func (rw *RwLock) readContended(t *timeout.Timeout) Result {
	if int32(currentTID()) == rw.writerTID.Load() && rw.writerTID.Load() != 0 {
		return DeadLock
	}
	res, mono := rw.checkTimeout(t)
	if res != Success {
		return res
	}

	old := rw.spinUntil(func(s int32) bool { return rw.isReadLockable(s) || hasPending(s) })
	for {
		if rw.isReadLockable(old) {
			next := old + readerUnit
			if (old >> readerCountShift) >= maxReaders {
				return Overflow
			}
			if rw.state.CompareAndSwap(old, next) {
				return Success
			}
			old = rw.state.Load()
			continue
		}

		rw.queue.mu.Lock(nil)
		rw.queue.pendingReaderCount++
		rw.state.fetchOr(pendingReadersBit)
		rw.queue.mu.Unlock()

		deadlineSec, deadlineNsec := int64(-1), int64(0)
		if mono != nil {
			deadlineSec, deadlineNsec = mono.Seconds(), mono.Nanoseconds()
		}
		waitVal := rw.queue.readerFutex.Load()
		if err := rw.queue.readerFutex.Wait(waitVal, deadlineSec, deadlineNsec); err == futex.ErrTimedOut {
			rw.queue.mu.Lock(nil)
			rw.queue.pendingReaderCount--
			rw.queue.mu.Unlock()
			return Timeout
		}

		rw.queue.mu.Lock(nil)
		rw.queue.pendingReaderCount--
		rw.queue.mu.Unlock()
		old = rw.state.Load()
	}
}

// Write acquires the write lock, blocking until it is available or,
// if timeout is non-nil, until the deadline passes.
func (rw *RwLock) Write(t *timeout.Timeout) Result {
	if r := rw.TryWrite(); r == Success {
		return r
	}
	return rw.writeContended(t)
}

func (rw *RwLock) writeContended(t *timeout.Timeout) Result {
	res, mono := rw.checkTimeout(t)
	if res != Success {
		return res
	}

	old := rw.spinUntil(func(s int32) bool { return rw.isWriteLockable(s) })
	for {
		if rw.isWriteLockable(old) {
			next := old | writerBit
			if rw.state.CompareAndSwap(old, next) {
				rw.writerTID.Store(int32(currentTID()))
				return Success
			}
			old = rw.state.Load()
			continue
		}

		rw.queue.mu.Lock(nil)
		rw.queue.pendingWriterCount++
		rw.state.fetchOr(pendingWritersBit)
		rw.queue.mu.Unlock()

		deadlineSec, deadlineNsec := int64(-1), int64(0)
		if mono != nil {
			deadlineSec, deadlineNsec = mono.Seconds(), mono.Nanoseconds()
		}
		waitVal := rw.queue.writerFutex.Load()
		if err := rw.queue.writerFutex.Wait(waitVal, deadlineSec, deadlineNsec); err == futex.ErrTimedOut {
			rw.queue.mu.Lock(nil)
			rw.queue.pendingWriterCount--
			rw.queue.mu.Unlock()
			return Timeout
		}

		rw.queue.mu.Lock(nil)
		rw.queue.pendingWriterCount--
		rw.queue.mu.Unlock()
		old = rw.state.Load()
	}
}

// UnlockRead releases a read lock. If that was the last active reader
// and a writer is pending, one writer waiter is woken.
func (rw *RwLock) UnlockRead() {
	old := rw.state.fetchAdd(-readerUnit)
	remaining := old - readerUnit
	if remaining < readerUnit && hasPendingWriter(remaining) {
		rw.wakeWriter()
	}
}

// UnlockWrite releases the write lock. Pending writers are woken
// first when preferWriter is set and any are waiting; otherwise all
// pending readers are woken; otherwise a single pending writer is
// woken.
func (rw *RwLock) UnlockWrite() {
	rw.writerTID.Store(0)
	rw.state.fetchAnd(^int32(writerBit))

	rw.queue.mu.Lock(nil)
	pendingWriters := rw.queue.pendingWriterCount
	pendingReaders := rw.queue.pendingReaderCount
	rw.queue.mu.Unlock()

	switch {
	case rw.preferWriter && pendingWriters > 0:
		rw.wakeWriter()
	case pendingReaders > 0:
		rw.wakeAllReaders(pendingReaders)
	case pendingWriters > 0:
		rw.wakeWriter()
	}
}

func (rw *RwLock) wakeWriter() {
	rw.queue.writerFutex.Store(rw.queue.writerFutex.Load() + 1)
	rw.queue.writerFutex.Wake(1)
}

// wakeAllReaders wakes count waiters, a snapshot of
// queue.pendingReaderCount taken by the caller under queue.mu so the
// count and the wake happen against a single consistent read rather
// than racing a concurrent reader joining the queue.
func (rw *RwLock) wakeAllReaders(count int) {
	rw.queue.readerFutex.Store(rw.queue.readerFutex.Load() + 1)
	rw.queue.readerFutex.Wake(int32(count))
}

// IsCleared reports whether no thread currently holds or is waiting
// for rw.
func (rw *RwLock) IsCleared() bool {
	return rw.state.Load() == 0
}

// IsWriteLocked reports whether rw is currently held by a writer, the
// same state-word inspection a POSIX pthread_rwlock_unlock needs to
// decide which unlock path to take since it takes no reader/writer
// argument of its own.
func (rw *RwLock) IsWriteLocked() bool {
	return ownedByWriter(rw.state.Load())
}
