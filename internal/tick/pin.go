package tick

import "errors"

// ErrPinUnsupported is returned by PinThread on platforms without a thread
// affinity API.
var ErrPinUnsupported = errors.New("tick: thread pinning not supported")
