//go:build !linux

package rwlock

import "sync/atomic"

// currentTID is a placeholder on platforms with no gettid syscall
// wired up: Go exposes no portable goroutine-local storage, so it
// mints a fresh id on every call instead of a stable per-thread one.
// Deadlock detection in readContended is consequently a no-op here;
// the futex fallback in internal/futex also ignores wait deadlines on
// these platforms, so contended paths in general are best-effort off
// Linux.
var tidCounter atomic.Int64

func currentTID() int {
	return int(tidCounter.Add(1))
}
