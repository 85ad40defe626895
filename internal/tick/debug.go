package tick

import (
	"runtime/debug"
	"strings"
	"sync"
)

// debugBuild reports whether the binary was compiled with optimizations
// disabled. The dependent-op sequence then spills to memory and no longer
// runs at one op per cycle.
var debugBuild = sync.OnceValue(func() bool {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return false
	}
	for _, s := range info.Settings {
		if s.Key == "-gcflags" && strings.Contains(s.Value, "-N") {
			return true
		}
	}
	return false
})
