// Package tick provides the clock, cycle counters and frequency calibration
// used to time benchmarks on a single thread.
//
// Three pieces work together:
//   - Clock: wall-clock samples converted to seconds (Now, Seconds)
//   - Counter: the fastest free-running tick source on the host
//   - Calibrator: relates counter ticks to wall time and returns an
//     immutable *Calibration used to convert tick deltas to seconds
//
// # Counter backends
//
// Counters returns the available backends in preference order; Select
// returns the first one.
//
//	GOARCH        GOOS          backends (preferred first)
//	amd64, 386    any           rdtsc, <os>, wallclock_us
//	arm64         darwin, ios   cntpct_el0, cntvct_el0, <os>, wallclock_us
//	arm64         other         cntvct_el0, <os>, wallclock_us
//	other         any           <os>, wallclock_us
//
// where <os> is clock_monotonic_raw on linux, qpc on windows and the Go
// runtime's nanotime elsewhere.
//
// rdtsc runs at a fixed rate on modern x86 and does not match the core clock
// under frequency scaling. The ARM generic timer runs at the rate reported
// by cntfrq_el0 (24 MHz on Apple silicon), far below the core clock. Ticks
// per second is therefore the only unit a consumer may rely on, and it is
// stable over a measurement window, not over a process lifetime.
//
// # Threads
//
// Counter values are only comparable on the same logical core. Nothing in
// this package guards a measurement against thread migration; callers that
// need it use PinThread before sampling.
//
// Nothing here is safe for concurrent use except a finished *Calibration,
// which is immutable.
package tick
