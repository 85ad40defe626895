package tick

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Backend names reported by Counter.Name.
const (
	NameTSC              = "rdtsc"
	NameVirtualCounter   = "cntvct_el0"
	NamePhysicalCounter  = "cntpct_el0"
	NameMonotonicRaw     = "clock_monotonic_raw"
	NamePerformanceCount = "qpc"
	NameNanotime         = "nanotime"
	NameWallClock        = "wallclock_us"
)

// ErrUnknownCounter is returned by Lookup for a backend that is not
// available on this platform.
var ErrUnknownCounter = errors.New("tick: unknown counter")

// Counter reads a free-running tick source.
//
// Ticks is monotonic non-decreasing while the caller stays on one logical
// core. The unit is unknown until a Calibrator has measured it.
type Counter interface {
	Ticks() uint64
	Name() string
}

// counter is the single implementation behind every backend: a name and a
// read function chosen once by platform.
type counter struct {
	name    string
	read    func() uint64
	nominal func() uint64
}

func (c *counter) Ticks() uint64 { return c.read() }

func (c *counter) Name() string { return c.name }

func (c *counter) NominalFrequency() uint64 {
	if c.nominal == nil {
		return 0
	}
	return c.nominal()
}

// NominalFrequency returns the rate a counter advertises, in ticks per
// second, or 0 if it advertises none (rdtsc). It is not a substitute for
// calibration: it says nothing about the core clock.
func NominalFrequency(c Counter) uint64 {
	if n, ok := c.(interface{ NominalFrequency() uint64 }); ok {
		return n.NominalFrequency()
	}
	return 0
}

func wallCounter() Counter {
	return &counter{
		name:    NameWallClock,
		read:    func() uint64 { return uint64(Now().Micros()) },
		nominal: func() uint64 { return 1_000_000 },
	}
}

var available = sync.OnceValue(func() []Counter {
	cs := hardwareCounters()
	cs = append(cs, osCounter(), wallCounter())
	return cs
})

// Counters returns every backend available on this platform, fastest first.
func Counters() []Counter {
	return slices.Clone(available())
}

// Select returns the preferred backend.
func Select() Counter {
	return available()[0]
}

// Lookup returns the backend with the given name. The empty name selects
// the preferred backend.
func Lookup(name string) (Counter, error) {
	if name == "" {
		return Select(), nil
	}
	cs := available()
	names := make([]string, 0, len(cs))
	for _, c := range cs {
		if c.Name() == name {
			return c, nil
		}
		names = append(names, c.Name())
	}
	return nil, fmt.Errorf("%w %q (available: %s)", ErrUnknownCounter, name, strings.Join(names, ", "))
}
