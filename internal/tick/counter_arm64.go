//go:build arm64

package tick

import "runtime"

// cntvct reads the virtual counter CNTVCT_EL0.
// Implemented in counter_arm64.s
func cntvct() uint64

// cntpct reads the physical counter CNTPCT_EL0. Only darwin guarantees
// user-mode access; elsewhere the read may trap.
// Implemented in counter_arm64.s
func cntpct() uint64

// cntfrq reads the generic timer frequency CNTFRQ_EL0.
// Implemented in counter_arm64.s
func cntfrq() uint64

func hardwareCounters() []Counter {
	virtual := &counter{name: NameVirtualCounter, read: cntvct, nominal: cntfrq}
	switch runtime.GOOS {
	case "darwin", "ios":
		// mach_absolute_time reads the physical counter
		physical := &counter{name: NamePhysicalCounter, read: cntpct, nominal: cntfrq}
		return []Counter{physical, virtual}
	default:
		return []Counter{virtual}
	}
}
