package tick_test

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/benchkit/internal/tick"
)

func TestCounters_Monotonic(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	for _, c := range tick.Counters() {
		t.Run(c.Name(), func(t *testing.T) {
			prev := c.Ticks()
			for i := 0; i < 10_000; i++ {
				now := c.Ticks()
				if now < prev {
					t.Fatalf("%s went backwards: %d -> %d", c.Name(), prev, now)
				}
				prev = now
			}
		})
	}
}

func TestCounters_UniqueNames(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range tick.Counters() {
		assert.False(t, seen[c.Name()], "duplicate counter %s", c.Name())
		seen[c.Name()] = true
	}
	assert.True(t, seen[tick.NameWallClock], "wall clock fallback must always exist")
}

func TestCounters_CloneIsIndependent(t *testing.T) {
	cs := tick.Counters()
	cs[0] = nil
	assert.NotNil(t, tick.Counters()[0])
}

func TestSelect_IsFirst(t *testing.T) {
	assert.Equal(t, tick.Counters()[0].Name(), tick.Select().Name())
}

func TestLookup(t *testing.T) {
	c, err := tick.Lookup("")
	require.NoError(t, err)
	assert.Equal(t, tick.Select().Name(), c.Name())

	c, err = tick.Lookup(tick.NameWallClock)
	require.NoError(t, err)
	assert.Equal(t, tick.NameWallClock, c.Name())

	_, err = tick.Lookup("sundial")
	require.ErrorIs(t, err, tick.ErrUnknownCounter)
	assert.Contains(t, err.Error(), tick.NameWallClock)
}

func TestNominalFrequency(t *testing.T) {
	wall, err := tick.Lookup(tick.NameWallClock)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000), tick.NominalFrequency(wall))

	assert.Zero(t, tick.NominalFrequency(&fakeCounter{}))
}

func TestOSCounter_Platform(t *testing.T) {
	want := map[string]string{
		"linux":   tick.NameMonotonicRaw,
		"windows": tick.NamePerformanceCount,
	}[runtime.GOOS]
	if want == "" {
		want = tick.NameNanotime
	}
	c, err := tick.Lookup(want)
	require.NoError(t, err)
	assert.NotZero(t, tick.NominalFrequency(c))
}

func TestHardwareCounter_Platform(t *testing.T) {
	switch runtime.GOARCH {
	case "amd64", "386":
		assert.Equal(t, tick.NameTSC, tick.Select().Name())
	case "arm64":
		if runtime.GOOS == "darwin" || runtime.GOOS == "ios" {
			assert.Equal(t, tick.NamePhysicalCounter, tick.Select().Name())
		} else {
			assert.Equal(t, tick.NameVirtualCounter, tick.Select().Name())
		}
		assert.NotZero(t, tick.NominalFrequency(tick.Select()))
	default:
		t.Skipf("no hardware counter on %s", runtime.GOARCH)
	}
}
