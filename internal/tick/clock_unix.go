//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package tick

import "golang.org/x/sys/unix"

// Timestamp is a wall-clock sample taken with gettimeofday.
type Timestamp struct {
	tv unix.Timeval
}

// Now samples the wall clock.
func Now() Timestamp {
	var t Timestamp
	// gettimeofday only fails on a bad pointer
	_ = unix.Gettimeofday(&t.tv)
	return t
}

// Seconds converts the sample to seconds since the Unix epoch.
func (t Timestamp) Seconds() float64 {
	sec, nsec := t.tv.Unix()
	return float64(sec) + float64(nsec)/1e9
}

// Micros converts the sample to whole microseconds since the Unix epoch.
func (t Timestamp) Micros() int64 {
	sec, nsec := t.tv.Unix()
	return sec*1_000_000 + nsec/1_000
}
