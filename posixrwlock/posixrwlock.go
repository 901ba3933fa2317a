// Package posixrwlock shims pthread_rwlock_timedrdlock/timedwrlock
// and pthread_rwlock_clockrdlock/clockwrlock on top of rwlock.RwLock,
// translating between unix.Timespec wall-clock deadlines and the
// timeout package's Timeout value, and mapping rwlock.Result to the
// errno values POSIX specifies for these calls.
package posixrwlock

import (
	"golang.org/x/sys/unix"

	"github.com/gopherlibc/swisscore/rwlock"
	"github.com/gopherlibc/swisscore/timeout"
)

// RWLock wraps rwlock.RwLock with the POSIX pthread_rwlock_t surface.
type RWLock struct {
	inner *rwlock.RwLock
}

// Init constructs an RWLock. preferWriter models
// PTHREAD_RWLOCK_PREFER_WRITER_NONRECURSIVE_NP vs the default
// reader-preferring attribute.
func Init(preferWriter bool) *RWLock {
	return &RWLock{inner: rwlock.New(preferWriter)}
}

func deadlineFromTimespec(base timeout.Clock, ts unix.Timespec) (*timeout.Timeout, error) {
	// Built directly from timeout.Timepoint rather than
	// timeout.FromTimespec, which is only defined on the linux build
	// (it takes a unix.Timespec, a type whose exact Sec/Nsec field
	// widths vary by GOOS); this call needs to build the same Linux
	// binary either way, so coupling to the linux-only helper isn't
	// worth the portability loss.
	t, err := timeout.Timepoint(base, int64(ts.Sec), int64(ts.Nsec))
	if err != nil {
		return nil, unix.EINVAL
	}
	return &t, nil
}

func resultToErrno(r rwlock.Result) error {
	switch r {
	case rwlock.Success:
		return nil
	case rwlock.Timeout:
		return unix.ETIMEDOUT
	case rwlock.Overflow:
		return unix.EAGAIN
	case rwlock.DeadLock:
		return unix.EDEADLK
	case rwlock.Failed:
		return unix.EBUSY
	case rwlock.Invalid:
		return unix.EINVAL
	default:
		return unix.EINVAL
	}
}

// TimedRdlock is pthread_rwlock_timedrdlock: abs_time is always a
// CLOCK_REALTIME deadline.
func (l *RWLock) TimedRdlock(absTime unix.Timespec) error {
	return l.clockRdlock(timeout.Realtime, absTime)
}

// TimedWrlock is pthread_rwlock_timedwrlock.
func (l *RWLock) TimedWrlock(absTime unix.Timespec) error {
	return l.clockWrlock(timeout.Realtime, absTime)
}

// ClockRdlock is pthread_rwlock_clockrdlock. clockID must be
// CLOCK_MONOTONIC or CLOCK_REALTIME; any other value is EINVAL, the
// same restriction glibc documents for this call.
func (l *RWLock) ClockRdlock(clockID int32, absTime unix.Timespec) error {
	base, err := clockIDToBase(clockID)
	if err != nil {
		return err
	}
	return l.clockRdlock(base, absTime)
}

// ClockWrlock is pthread_rwlock_clockwrlock.
func (l *RWLock) ClockWrlock(clockID int32, absTime unix.Timespec) error {
	base, err := clockIDToBase(clockID)
	if err != nil {
		return err
	}
	return l.clockWrlock(base, absTime)
}

func clockIDToBase(clockID int32) (timeout.Clock, error) {
	switch clockID {
	case unix.CLOCK_MONOTONIC:
		return timeout.Monotonic, nil
	case unix.CLOCK_REALTIME:
		return timeout.Realtime, nil
	default:
		return 0, unix.EINVAL
	}
}

func (l *RWLock) clockRdlock(base timeout.Clock, absTime unix.Timespec) error {
	deadline, err := deadlineFromTimespec(base, absTime)
	if err != nil {
		return err
	}
	return resultToErrno(l.inner.Read(deadline))
}

func (l *RWLock) clockWrlock(base timeout.Clock, absTime unix.Timespec) error {
	deadline, err := deadlineFromTimespec(base, absTime)
	if err != nil {
		return err
	}
	return resultToErrno(l.inner.Write(deadline))
}

// TryRdlock is pthread_rwlock_tryrdlock.
func (l *RWLock) TryRdlock() error { return resultToErrno(l.inner.TryRead()) }

// TryWrlock is pthread_rwlock_trywrlock.
func (l *RWLock) TryWrlock() error { return resultToErrno(l.inner.TryWrite()) }

// Rdlock is pthread_rwlock_rdlock: blocks with no deadline.
func (l *RWLock) Rdlock() error { return resultToErrno(l.inner.Read(nil)) }

// Wrlock is pthread_rwlock_wrlock.
func (l *RWLock) Wrlock() error { return resultToErrno(l.inner.Write(nil)) }

// Unlock is pthread_rwlock_unlock. POSIX's API takes no
// reader/writer argument, so, like glibc, the decision of which
// internal unlock path to take is made by inspecting the lock's own
// state rather than by the caller.
func (l *RWLock) Unlock() error {
	if l.inner.IsWriteLocked() {
		l.inner.UnlockWrite()
	} else {
		l.inner.UnlockRead()
	}
	return nil
}
