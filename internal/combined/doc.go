// Package combined holds benchmarks that exercise the counter, the harness
// and the buffers together.
//
// Isolated micro-benchmarks hide the cost of the glue between components:
// a stopper poll inside a timed loop, a counter read per line, a builder
// growing while a reader scans. These benchmarks measure the full path.
package combined
