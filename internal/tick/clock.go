package tick

// Clock is a source of wall-clock seconds. The Calibrator takes one so tests
// can drive it with a fake.
type Clock interface {
	Seconds() float64
}

type systemClock struct{}

func (systemClock) Seconds() float64 { return Seconds() }

// SystemClock reads the platform clock through Now.
var SystemClock Clock = systemClock{}

// Seconds returns the current wall-clock time in seconds.
func Seconds() float64 {
	return Now().Seconds()
}
