//go:build linux

package timeout

import "golang.org/x/sys/unix"

// platformNow reads the requested clock via clock_gettime(2).
func platformNow(c Clock) (sec, nsec int64) {
	var id int32
	switch c {
	case Realtime:
		id = unix.CLOCK_REALTIME
	default:
		id = unix.CLOCK_MONOTONIC
	}
	var ts unix.Timespec
	if err := unix.ClockGettime(id, &ts); err != nil {
		return 0, 0
	}
	return int64(ts.Sec), int64(ts.Nsec)
}

// FromTimespec builds a Timepoint Timeout from a raw unix.Timespec
// read against base, the conversion the POSIX pthread_rwlock_*
// shims need at their boundary.
func FromTimespec(base Clock, ts unix.Timespec) (Timeout, error) {
	return Timepoint(base, int64(ts.Sec), int64(ts.Nsec))
}

// ToTimespec renders t's raw (sec, nsec) pair as a unix.Timespec,
// regardless of whether t is a duration or a timepoint.
func ToTimespec(t Timeout) unix.Timespec {
	return unix.Timespec{Sec: t.sec, Nsec: t.nsec}
}
