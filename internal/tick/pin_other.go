//go:build !linux

package tick

import (
	"fmt"
	"runtime"
)

// PinThread is only implemented on linux. Elsewhere it returns
// ErrPinUnsupported and leaves the thread unpinned.
func PinThread(cpu int) (func(), error) {
	return nil, fmt.Errorf("%w on %s", ErrPinUnsupported, runtime.GOOS)
}
