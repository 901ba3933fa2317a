// Package lock implements a small timable mutex built directly on a
// futex word, the same three-state design (unlocked/locked/contended)
// LLVM-libc's internal Lock uses to keep the common uncontended path
// branch-free and the contended path's wakeups sticky-but-rare.
package lock

import (
	"runtime"

	"github.com/gopherlibc/swisscore/internal/futex"
	"github.com/gopherlibc/swisscore/timeout"
)

const (
	unlocked  uint32 = 0
	locked    uint32 = 1
	contended uint32 = 2
)

const spinCount = 100

// Mutex is a futex-backed mutual exclusion lock with an optional
// absolute-deadline acquire. The zero value is an unlocked Mutex.
type Mutex struct {
	word futex.Word
}

// TryLock attempts to acquire m without blocking.
func (m *Mutex) TryLock() bool {
	return m.word.CompareAndSwap(unlocked, locked)
}

// Lock acquires m, blocking until it is available or, if timeout is
// non-nil, until the deadline passes. It reports whether the lock was
// acquired.
func (m *Mutex) Lock(t *timeout.Timeout) bool {
	if m.TryLock() {
		return true
	}
	return m.lockContended(t)
}

func (m *Mutex) spin() uint32 {
	for i := 0; i < spinCount; i++ {
		state := m.word.Load()
		if state != locked {
			return state
		}
		runtime.Gosched()
	}
	return m.word.Load()
}

func (m *Mutex) lockContended(t *timeout.Timeout) bool {
	state := m.spin()
	if state == unlocked && m.word.CompareAndSwap(unlocked, locked) {
		return true
	}

	// Re-anchor a realtime deadline to monotonic before blocking so a
	// wall-clock jump during the wait can't perturb it.
	var mono *timeout.Timeout
	if t != nil {
		tp := t.ToTimepoint(timeout.Monotonic)
		mono = &tp
	}

	for {
		if state != contended && m.word.Swap(contended) == unlocked {
			return true
		}
		deadlineSec, deadlineNsec := int64(-1), int64(0)
		if mono != nil {
			deadlineSec, deadlineNsec = mono.Seconds(), mono.Nanoseconds()
		}
		if err := m.word.Wait(contended, deadlineSec, deadlineNsec); err == futex.ErrTimedOut {
			return false
		}
		state = m.spin()
	}
}

// Unlock releases m. If a waiter had marked the lock contended,
// exactly one waiter is woken; it is allowed to be a stale mark left
// by a waiter that is about to re-check state on its own, which is
// cheaper than tracking an exact waiter count.
func (m *Mutex) Unlock() {
	if m.word.Swap(unlocked) == contended {
		m.word.Wake(1)
	}
}
