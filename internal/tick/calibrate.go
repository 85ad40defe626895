package tick

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/randomizedcoder/benchkit/internal/fault"
	"github.com/randomizedcoder/benchkit/internal/logging"
)

// DefaultInterval is how long Measure relates counter ticks to wall time.
const DefaultInterval = time.Second

const (
	defaultRounds = 16
	seqLoops      = 1 << 14
	spinLoops     = 1 << 10

	minPlausibleHz = 100_000_000
	maxPlausibleHz = 10_000_000_000
)

var (
	// ErrNoProgress is returned by Measure when the counter or the clock did
	// not advance over the calibration interval.
	ErrNoProgress = errors.New("tick: no progress during calibration")

	// ErrInvalidCalibration is returned by NewCalibration for values that
	// cannot convert ticks to time.
	ErrInvalidCalibration = errors.New("tick: invalid calibration")
)

// Calibration is the result of one frequency measurement. It is immutable;
// pass it to every place that converts ticks.
//
// Methods on a nil *Calibration return zero.
type Calibration struct {
	counter        string
	frequencyHz    uint64
	ticksPerSecond uint64
	cyclesPerTick  float64
}

// NewCalibration builds a Calibration from known values, for example ones
// persisted from an earlier Measure.
func NewCalibration(counter string, ticksPerSecond uint64, cyclesPerTick float64) (*Calibration, error) {
	if ticksPerSecond == 0 || !(cyclesPerTick > 0) || math.IsInf(cyclesPerTick, 0) {
		return nil, fmt.Errorf("%w: %d ticks/s, %v cycles/tick", ErrInvalidCalibration, ticksPerSecond, cyclesPerTick)
	}
	return &Calibration{
		counter:        counter,
		frequencyHz:    uint64(math.Round(float64(ticksPerSecond) * cyclesPerTick)),
		ticksPerSecond: ticksPerSecond,
		cyclesPerTick:  cyclesPerTick,
	}, nil
}

// Counter returns the name of the counter that was calibrated.
func (c *Calibration) Counter() string {
	if c == nil {
		return ""
	}
	return c.counter
}

// Frequency returns the estimated core clock in Hz.
func (c *Calibration) Frequency() uint64 {
	if c == nil {
		return 0
	}
	return c.frequencyHz
}

// TicksPerSecond returns the measured counter rate.
func (c *Calibration) TicksPerSecond() uint64 {
	if c == nil {
		return 0
	}
	return c.ticksPerSecond
}

// CyclesPerTick returns the estimated core cycles per counter tick.
func (c *Calibration) CyclesPerTick() float64 {
	if c == nil {
		return 0
	}
	return c.cyclesPerTick
}

// Seconds converts a tick delta to seconds.
func (c *Calibration) Seconds(ticks uint64) float64 {
	if c == nil || c.ticksPerSecond == 0 {
		return 0
	}
	return float64(ticks) / float64(c.ticksPerSecond)
}

// Duration converts a tick delta to a time.Duration.
func (c *Calibration) Duration(ticks uint64) time.Duration {
	return time.Duration(math.Round(c.Seconds(ticks) * 1e9))
}

// Cycles converts a tick delta to estimated core cycles.
func (c *Calibration) Cycles(ticks uint64) float64 {
	return float64(ticks) * c.CyclesPerTick()
}

func (c *Calibration) String() string {
	return fmt.Sprintf("%s: %d ticks/s, %.4f cycles/tick, %d Hz",
		c.Counter(), c.TicksPerSecond(), c.CyclesPerTick(), c.Frequency())
}

// Calibrator measures a Counter against a Clock.
type Calibrator struct {
	clock    Clock
	counter  Counter
	interval time.Duration
	warmup   time.Duration
	rounds   int
	log      logrus.FieldLogger
}

// Option configures a Calibrator.
type Option func(*Calibrator)

// WithClock sets the wall-clock source. Default: SystemClock.
func WithClock(clock Clock) Option {
	return func(c *Calibrator) { c.clock = clock }
}

// WithCounter sets the counter to calibrate. Default: Select().
func WithCounter(counter Counter) Option {
	return func(c *Calibrator) { c.counter = counter }
}

// WithInterval sets the fixed measurement interval. Default: DefaultInterval.
func WithInterval(d time.Duration) Option {
	return func(c *Calibrator) { c.interval = d }
}

// WithWarmup makes Measure spin for d before sampling. Default: no warmup.
func WithWarmup(d time.Duration) Option {
	return func(c *Calibrator) { c.warmup = d }
}

// WithRounds sets how many times the cycle sequence is timed; the fastest
// round wins. Default: 16.
func WithRounds(n int) Option {
	return func(c *Calibrator) { c.rounds = n }
}

// WithLogger sets the logger for calibration details and caveats.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Calibrator) { c.log = log }
}

// NewCalibrator returns a Calibrator configured by opts.
func NewCalibrator(opts ...Option) *Calibrator {
	c := &Calibrator{
		clock:    SystemClock,
		interval: DefaultInterval,
		rounds:   defaultRounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.counter == nil {
		c.counter = Select()
	}
	if c.log == nil {
		c.log = logging.Discard()
	}
	fault.Assert(c.clock != nil, "calibrator clock is nil")
	fault.Assert(c.interval > 0, "calibration interval %v must be positive", c.interval)
	fault.Assert(c.warmup >= 0, "warmup %v must not be negative", c.warmup)
	fault.Assert(c.rounds > 0, "calibration rounds %d must be positive", c.rounds)
	return c
}

// Counter returns the counter being calibrated.
func (c *Calibrator) Counter() Counter {
	return c.counter
}

// Spin busy-waits for about seconds of wall time, keeping the core busy so
// it leaves power-saving states before a measurement. It never yields.
func (c *Calibrator) Spin(seconds float64) {
	start := c.clock.Seconds()
	for c.clock.Seconds()-start < seconds {
		runSeq(spinLoops)
	}
}

// Spin busy-waits on the system clock. See Calibrator.Spin.
func Spin(seconds float64) {
	(&Calibrator{clock: SystemClock}).Spin(seconds)
}

// Measure estimates the counter rate over the fixed interval, then the
// core cycles per tick, and returns the resulting Calibration. It blocks
// for the whole interval and cannot be interrupted.
//
// Call Spin first (or configure WithWarmup) for a stable estimate.
// Results from unoptimized builds are biased by sampling overhead and are
// logged as approximate.
func (c *Calibrator) Measure() (*Calibration, error) {
	if c.warmup > 0 {
		c.Spin(c.warmup.Seconds())
	}
	tps, err := c.ticksPerSecond()
	if err != nil {
		return nil, err
	}
	cal, err := NewCalibration(c.counter.Name(), tps, c.cyclesPerTick())
	if err != nil {
		return nil, err
	}

	log := c.log.WithFields(logrus.Fields{
		"counter":         cal.Counter(),
		"ticks_per_sec":   cal.TicksPerSecond(),
		"cycles_per_tick": cal.CyclesPerTick(),
		"frequency_hz":    cal.Frequency(),
	})
	log.Debug("Calibrated counter")
	if debugBuild() {
		log.Warn("Binary built without optimizations; frequency estimate is approximate")
	}
	if f := cal.Frequency(); f < minPlausibleHz || f > maxPlausibleHz {
		log.Warn("Frequency estimate outside plausible range; sampling overhead or preemption may have biased it")
	}
	return cal, nil
}

func (c *Calibrator) ticksPerSecond() (uint64, error) {
	interval := c.interval.Seconds()

	t0 := c.counter.Ticks()
	s0 := c.clock.Seconds()
	for c.clock.Seconds()-s0 < interval {
	}
	t1 := c.counter.Ticks()
	s1 := c.clock.Seconds()

	elapsed := s1 - s0
	if t1 <= t0 || elapsed <= 0 {
		return 0, fmt.Errorf("%w: %s went from %d to %d ticks in %.6fs",
			ErrNoProgress, c.counter.Name(), t0, t1, elapsed)
	}
	return uint64(math.Round(float64(t1-t0) / elapsed)), nil
}

// cyclesPerTick times a dependent-op sequence of N and 2N loops. The
// difference of the fastest rounds cancels the fixed read overhead and
// leaves N*seqOpsPerLoop cycles over a known number of ticks.
func (c *Calibrator) cyclesPerTick() float64 {
	minA, minB := uint64(math.MaxUint64), uint64(math.MaxUint64)
	for range c.rounds {
		t0 := c.counter.Ticks()
		runSeq(seqLoops)
		t1 := c.counter.Ticks()
		runSeq(2 * seqLoops)
		t2 := c.counter.Ticks()
		minA = min(minA, t1-t0)
		minB = min(minB, t2-t1)
	}
	if minB <= minA {
		c.log.WithField("counter", c.counter.Name()).
			Debug("Counter too coarse to resolve the cycle sequence; assuming one cycle per tick")
		return 1
	}
	return float64(seqLoops*seqOpsPerLoop) / float64(minB-minA)
}
