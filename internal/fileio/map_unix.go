//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package fileio

import (
	"os"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Map maps path read-only into memory. The caller must not write to the
// returned bytes and must call release exactly once when done with them.
// An empty file yields an empty slice and a no-op release.
func Map(path string) (dat []byte, release func() error, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fileio: opening %s", path)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fileio: stat %s", path)
	}
	if !fi.Mode().IsRegular() {
		return nil, nil, errors.Errorf("fileio: %s is not a regular file", path)
	}
	size := fi.Size()
	if size == 0 {
		return []byte{}, func() error { return nil }, nil
	}
	if int64(int(size)) != size {
		return nil, nil, errors.Errorf("fileio: %s is too large to map (%d bytes)", path, size)
	}

	dat, err = unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "fileio: mapping %s", path)
	}
	return dat, func() error {
		return errors.Wrapf(unix.Munmap(dat), "fileio: unmapping %s", path)
	}, nil
}
