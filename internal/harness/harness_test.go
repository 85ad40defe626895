package harness_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/benchkit/internal/fault"
	"github.com/randomizedcoder/benchkit/internal/harness"
	"github.com/randomizedcoder/benchkit/internal/tick"
)

// fakeCounter advances by step on every read.
type fakeCounter struct {
	v, step uint64
	reads   int
}

func (f *fakeCounter) Ticks() uint64 {
	v := f.v
	f.v += f.step
	f.reads++
	return v
}

func (f *fakeCounter) Name() string { return "fake" }

// fakeCalibration is 1000 ticks per second at 2 cycles per tick.
func fakeCalibration(t *testing.T) *tick.Calibration {
	t.Helper()
	cal, err := tick.NewCalibration("fake", 1000, 2)
	require.NoError(t, err)
	return cal
}

func TestMeasure(t *testing.T) {
	counter := &fakeCounter{step: 100}
	h := harness.New(fakeCalibration(t), counter)

	calls := 0
	s := h.Measure(10, func() { calls++ })

	assert.Equal(t, 10, calls)
	assert.Equal(t, 10, s.Iterations)
	assert.Equal(t, uint64(100), s.Ticks)
	assert.InDelta(t, 0.1, s.Seconds(), 1e-12)
	assert.Equal(t, 100*time.Millisecond, s.Elapsed())
	assert.Equal(t, 10*time.Millisecond, s.PerOp())
	assert.InDelta(t, 10.0, s.TicksPerOp(), 1e-12)
	assert.InDelta(t, 20.0, s.CyclesPerOp(), 1e-12)
	assert.Equal(t, 2, counter.reads)
}

func TestMeasure_Zero(t *testing.T) {
	h := harness.New(fakeCalibration(t), &fakeCounter{step: 1})
	s := h.Measure(0, func() { t.Fatal("op must not run") })
	assert.Equal(t, 0, s.Iterations)
	assert.Zero(t, s.PerOp())
	assert.Zero(t, s.TicksPerOp())
	assert.Zero(t, s.CyclesPerOp())
}

func TestMeasure_Stopper(t *testing.T) {
	tests := []struct {
		name    string
		every   int
		stopAt  int
		wantRun int
	}{
		{"poll every iteration", 1, 5, 5},
		{"poll every four", 4, 5, 8},
		{"stopped before start", 1, 0, 0},
		{"never stopped", 3, -1, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop := harness.NewAtomicStopper()
			if tt.stopAt == 0 {
				stop.Stop()
			}
			h := harness.New(fakeCalibration(t), &fakeCounter{step: 1},
				harness.WithStopper(stop), harness.WithPollEvery(tt.every))

			calls := 0
			s := h.Measure(20, func() {
				calls++
				if calls == tt.stopAt {
					stop.Stop()
				}
			})
			assert.Equal(t, tt.wantRun, s.Iterations)
			assert.Equal(t, tt.wantRun, calls)
		})
	}
}

func TestMeasureFor(t *testing.T) {
	counter := &fakeCounter{step: 10}
	h := harness.New(fakeCalibration(t), counter, harness.WithPollEvery(2))

	calls := 0
	s := h.MeasureFor(100*time.Millisecond, func() { calls++ })

	// budget is 100 ticks; each check advances the counter by 10
	assert.Equal(t, uint64(100), s.Ticks)
	assert.Equal(t, 20, s.Iterations)
	assert.Equal(t, 20, calls)
}

func TestMeasureFor_Stopper(t *testing.T) {
	stop := harness.NewAtomicStopper()
	h := harness.New(fakeCalibration(t), &fakeCounter{step: 1},
		harness.WithStopper(stop), harness.WithPollEvery(3))

	s := h.MeasureFor(time.Hour, stop.Stop)
	assert.Equal(t, 3, s.Iterations)
}

func TestOverhead(t *testing.T) {
	counter := &fakeCounter{step: 4}
	h := harness.New(fakeCalibration(t), counter)

	s := h.Overhead(5)
	assert.Equal(t, 5, s.Iterations)
	// start, five timed reads, end
	assert.Equal(t, 7, counter.reads)
	assert.Equal(t, uint64(24), s.Ticks)
}

func TestNew_Violations(t *testing.T) {
	other, err := tick.NewCalibration("other", 1000, 1)
	require.NoError(t, err)

	tests := []struct {
		name string
		fn   func()
	}{
		{"nil calibration", func() { harness.New(nil, &fakeCounter{}) }},
		{"nil counter", func() { harness.New(other, nil) }},
		{"mismatched counter", func() { harness.New(other, &fakeCounter{}) }},
		{"zero poll", func() {
			cal, _ := tick.NewCalibration("fake", 1, 1)
			harness.New(cal, &fakeCounter{}, harness.WithPollEvery(0))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				r := recover()
				require.NotNil(t, r)
				_, ok := r.(*fault.Violation)
				assert.True(t, ok, "got %T", r)
			}()
			tt.fn()
		})
	}
}

func TestMeasure_LogsSample(t *testing.T) {
	var out bytes.Buffer
	log := logrus.New()
	log.SetOutput(&out)
	log.SetLevel(logrus.DebugLevel)

	h := harness.New(fakeCalibration(t), &fakeCounter{step: 1}, harness.WithLogger(log))
	h.Measure(1, func() {})
	assert.Contains(t, out.String(), "Measured operation")
	assert.Contains(t, out.String(), "counter=fake")
}

func TestMeasure_SystemCounter(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration takes a while")
	}
	cal, err := tick.NewCalibrator(tick.WithInterval(50 * time.Millisecond)).Measure()
	require.NoError(t, err)

	counter, err := tick.Lookup(cal.Counter())
	require.NoError(t, err)
	h := harness.New(cal, counter)

	s := h.Measure(1000, func() { time.Sleep(0) })
	assert.Equal(t, 1000, s.Iterations)
	assert.Greater(t, s.Seconds(), 0.0)
	assert.Equal(t, cal, h.Calibration())
}
