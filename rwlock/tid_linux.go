//go:build linux

package rwlock

import "golang.org/x/sys/unix"

// currentTID returns the calling OS thread's id, read with a gettid
// syscall on every call. Like the libc Rwlock this
// is modeled on, recursive-read deadlock detection assumes a thread
// stays put for the duration of a critical section; a goroutine that
// migrates OS threads between Write() and a nested Read() is outside
// that assumption, same as it would be in C with a thread that
// somehow changed its own tid.
func currentTID() int {
	return unix.Gettid()
}
