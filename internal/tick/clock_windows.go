//go:build windows

package tick

import (
	"sync"

	"golang.org/x/sys/windows"
)

// Timestamp is a QueryPerformanceCounter sample.
type Timestamp struct {
	counter int64
}

// qpcFrequency is fixed at boot, so it is queried once on first use.
var qpcFrequency = sync.OnceValue(func() int64 {
	var freq int64
	if err := windows.QueryPerformanceFrequency(&freq); err != nil || freq <= 0 {
		return 1
	}
	return freq
})

func qpc() int64 {
	var c int64
	_ = windows.QueryPerformanceCounter(&c)
	return c
}

// Now samples the performance counter.
func Now() Timestamp {
	return Timestamp{counter: qpc()}
}

// Seconds converts the sample to seconds since boot.
func (t Timestamp) Seconds() float64 {
	return float64(t.counter) / float64(qpcFrequency())
}

// Micros converts the sample to whole microseconds since boot.
func (t Timestamp) Micros() int64 {
	f := qpcFrequency()
	return t.counter/f*1_000_000 + t.counter%f*1_000_000/f
}
