//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package fileio

// Map falls back to Read where unix mmap is unavailable; release is a no-op.
func Map(path string) (dat []byte, release func() error, err error) {
	dat, err = Read(path)
	if err != nil {
		return nil, nil, err
	}
	return dat, func() error { return nil }, nil
}
