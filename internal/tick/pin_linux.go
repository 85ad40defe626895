//go:build linux

package tick

import (
	"fmt"
	"runtime"

	"golang.org/x/sys/unix"

	"github.com/randomizedcoder/benchkit/internal/fault"
)

// PinThread locks the calling goroutine to its OS thread and restricts that
// thread to the given logical CPU, so consecutive counter reads come from
// the same core. The returned func restores the previous affinity and
// unlocks the thread.
func PinThread(cpu int) (func(), error) {
	fault.Assert(cpu >= 0, "cpu %d must not be negative", cpu)

	runtime.LockOSThread()
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("tick: reading thread affinity: %w", err)
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		runtime.UnlockOSThread()
		return nil, fmt.Errorf("tick: pinning thread to cpu %d: %w", cpu, err)
	}

	return func() {
		_ = unix.SchedSetaffinity(0, &prev)
		runtime.UnlockOSThread()
	}, nil
}
