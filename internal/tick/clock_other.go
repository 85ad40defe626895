//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly || windows)

package tick

import "time"

// Timestamp is a wall-clock sample from time.Now.
type Timestamp struct {
	t time.Time
}

// Now samples the wall clock.
func Now() Timestamp {
	return Timestamp{t: time.Now()}
}

// Seconds converts the sample to seconds since the Unix epoch.
func (t Timestamp) Seconds() float64 {
	return float64(t.t.UnixNano()) / 1e9
}

// Micros converts the sample to whole microseconds since the Unix epoch.
func (t Timestamp) Micros() int64 {
	return t.t.UnixMicro()
}
