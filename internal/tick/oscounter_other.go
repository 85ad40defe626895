//go:build !linux && !windows

package tick

import (
	_ "unsafe" // Required for go:linkname
)

// nanotime returns the runtime's monotonic clock in nanoseconds. It skips
// the time.Time construction that time.Now pays for.
//
// Note: This uses go:linkname to access an internal runtime function.
// It may break in future Go versions, though it has been stable.
//
//go:linkname nanotime runtime.nanotime
func nanotime() int64

func osCounter() Counter {
	return &counter{
		name:    NameNanotime,
		read:    func() uint64 { return uint64(nanotime()) },
		nominal: func() uint64 { return 1_000_000_000 },
	}
}
