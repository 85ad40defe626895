// Package harness times an operation with a calibrated tick counter.
//
// A Harness reads the counter once before and once after a loop of
// operations, so the per-iteration cost includes the loop itself and,
// when a Stopper is set, one poll every PollEvery iterations. Overhead
// measures the cost of the counter read so callers can judge how short an
// operation can usefully be.
//
// The harness reports raw samples only; it keeps no history and computes
// no statistics.
package harness

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/randomizedcoder/benchkit/internal/fault"
	"github.com/randomizedcoder/benchkit/internal/logging"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

// DefaultPollEvery is how many iterations run between Stopper polls.
const DefaultPollEvery = 1024

// Harness measures operations against one counter and its calibration.
// It is not safe for concurrent use; run it on a single (ideally pinned)
// goroutine.
type Harness struct {
	cal     *tick.Calibration
	counter tick.Counter
	stop    Stopper
	every   int
	log     logrus.FieldLogger
}

// Option configures a Harness.
type Option func(*Harness)

// WithStopper lets Measure end early once s is stopped.
func WithStopper(s Stopper) Option {
	return func(h *Harness) { h.stop = s }
}

// WithPollEvery sets how many iterations run between Stopper polls.
func WithPollEvery(n int) Option {
	return func(h *Harness) { h.every = n }
}

// WithLogger sets the logger for per-sample debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(h *Harness) { h.log = log }
}

// New returns a Harness reading counter and converting through cal. The
// calibration must have been measured on the same counter.
func New(cal *tick.Calibration, counter tick.Counter, opts ...Option) *Harness {
	fault.Assert(cal != nil, "harness needs a calibration")
	fault.Assert(counter != nil, "harness needs a counter")
	fault.Assert(cal.Counter() == counter.Name(),
		"calibration is for %q, counter is %q", cal.Counter(), counter.Name())

	h := &Harness{
		cal:     cal,
		counter: counter,
		every:   DefaultPollEvery,
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.log == nil {
		h.log = logging.Discard()
	}
	fault.Assert(h.every > 0, "poll interval %d must be positive", h.every)
	return h
}

// Calibration returns the calibration samples are converted with.
func (h *Harness) Calibration() *tick.Calibration {
	return h.cal
}

// Measure runs op up to n times and returns the ticks spent. The loop ends
// early when the Stopper is stopped; Iterations reports how many ran.
func (h *Harness) Measure(n int, op func()) Sample {
	fault.Assert(n >= 0, "iteration count %d must not be negative", n)
	fault.Assert(op != nil, "nil operation")

	i := 0
	start := h.counter.Ticks()
	if h.stop == nil {
		for ; i < n; i++ {
			op()
		}
	} else {
		for ; i < n; i++ {
			if i%h.every == 0 && h.stop.Stopped() {
				break
			}
			op()
		}
	}
	end := h.counter.Ticks()

	return h.sample("Measured operation", i, start, end)
}

// MeasureFor runs op repeatedly for about d, checking the counter every
// PollEvery iterations, and returns the ticks spent. The Stopper, if set,
// is checked at the same points.
func (h *Harness) MeasureFor(d time.Duration, op func()) Sample {
	fault.Assert(d >= 0, "duration %v must not be negative", d)
	fault.Assert(op != nil, "nil operation")

	budget := uint64(d.Seconds() * float64(h.cal.TicksPerSecond()))
	i := 0
	start := h.counter.Ticks()
	end := start
	for end-start < budget {
		for range h.every {
			op()
		}
		i += h.every
		end = h.counter.Ticks()
		if h.stop != nil && h.stop.Stopped() {
			break
		}
	}

	return h.sample("Measured operation for duration", i, start, end)
}

// Overhead times n back-to-back counter reads. PerOp of the result is the
// cost of one read, the floor under any Measure result.
func (h *Harness) Overhead(n int) Sample {
	fault.Assert(n >= 0, "iteration count %d must not be negative", n)

	var last uint64
	start := h.counter.Ticks()
	for range n {
		last = h.counter.Ticks()
	}
	end := h.counter.Ticks()
	sinkTicks = last

	return h.sample("Measured counter overhead", n, start, end)
}

var sinkTicks uint64

func (h *Harness) sample(msg string, iterations int, start, end uint64) Sample {
	s := Sample{
		Iterations:  iterations,
		Ticks:       end - start,
		Calibration: h.cal,
	}
	h.log.WithFields(logrus.Fields{
		"counter":    h.counter.Name(),
		"iterations": s.Iterations,
		"ticks":      s.Ticks,
		"per_op":     s.PerOp(),
	}).Debug(msg)
	return s
}
