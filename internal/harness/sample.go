package harness

import (
	"fmt"
	"math"
	"time"

	"github.com/randomizedcoder/benchkit/internal/tick"
)

// Sample is one timed run. Ticks is the counter difference across the
// run; it is only meaningful if both reads came from the same core.
type Sample struct {
	Iterations  int
	Ticks       uint64
	Calibration *tick.Calibration
}

// Seconds converts the whole run to seconds.
func (s Sample) Seconds() float64 {
	return s.Calibration.Seconds(s.Ticks)
}

// Elapsed converts the whole run to a Duration.
func (s Sample) Elapsed() time.Duration {
	return s.Calibration.Duration(s.Ticks)
}

// TicksPerOp returns the mean ticks per iteration, or zero for an empty
// run.
func (s Sample) TicksPerOp() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return float64(s.Ticks) / float64(s.Iterations)
}

// PerOp returns the mean wall time per iteration.
func (s Sample) PerOp() time.Duration {
	if s.Iterations == 0 {
		return 0
	}
	return time.Duration(math.Round(s.Seconds() / float64(s.Iterations) * float64(time.Second)))
}

// CyclesPerOp returns the mean core cycles per iteration.
func (s Sample) CyclesPerOp() float64 {
	if s.Iterations == 0 {
		return 0
	}
	return s.Calibration.Cycles(s.Ticks) / float64(s.Iterations)
}

func (s Sample) String() string {
	return fmt.Sprintf("%d iterations in %d ticks (%v/op, %.1f cycles/op)",
		s.Iterations, s.Ticks, s.PerOp(), s.CyclesPerOp())
}
