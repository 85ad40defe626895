//go:build windows

package tick

func osCounter() Counter {
	return &counter{
		name:    NamePerformanceCount,
		read:    func() uint64 { return uint64(qpc()) },
		nominal: func() uint64 { return uint64(qpcFrequency()) },
	}
}
