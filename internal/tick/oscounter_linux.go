//go:build linux

package tick

import "golang.org/x/sys/unix"

// CLOCK_MONOTONIC_RAW is not slewed by NTP, so its rate stays constant over
// a calibration window.
func osCounter() Counter {
	return &counter{
		name:    NameMonotonicRaw,
		read:    monotonicRaw,
		nominal: func() uint64 { return 1_000_000_000 },
	}
}

func monotonicRaw() uint64 {
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC_RAW, &ts)
	return uint64(ts.Nano())
}
