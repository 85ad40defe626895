package tick

// seqOpsPerLoop is the number of dependent single-cycle ALU operations in
// one iteration of runSeq.
const seqOpsPerLoop = 16

var seqSink uint64

// runSeq executes loops*seqOpsPerLoop dependent add/xor operations. Each op
// depends on the previous one, so on an optimized build the chain retires at
// one op per core cycle and the loop overhead hides behind it.
//
//go:noinline
func runSeq(loops int) {
	x := seqSink | 1
	y := uint64(loops) | 3
	for i := 0; i < loops; i++ {
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
		x += y
		x ^= y
	}
	seqSink = x
}
