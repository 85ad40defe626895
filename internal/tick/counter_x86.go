//go:build amd64 || 386

package tick

// rdtsc reads the CPU's Time Stamp Counter.
// Implemented in counter_amd64.s and counter_386.s.
func rdtsc() uint64

func hardwareCounters() []Counter {
	return []Counter{&counter{name: NameTSC, read: rdtsc}}
}
