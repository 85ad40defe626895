// Package fileio loads whole files for the data reader.
//
// Read returns an owned copy sized exactly to the file. Map returns a
// read-only mapping that must be released with the returned func.
package fileio

import (
	"github.com/pkg/errors"
	"golang.org/x/exp/mmap"
)

// Read returns the contents of path. A missing or unreadable file is an
// error; partial data is never returned.
func Read(path string) ([]byte, error) {
	return ReadWithPadding(path, 0)
}

// ReadWithPadding returns the contents of path followed by padding zero
// bytes. The returned slice has length size+padding.
func ReadWithPadding(path string, padding int) ([]byte, error) {
	if padding < 0 {
		return nil, errors.Errorf("fileio: negative padding %d", padding)
	}
	r, err := mmap.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fileio: opening %s", path)
	}
	defer r.Close()

	size := r.Len()
	dat := make([]byte, size+padding)
	if size == 0 {
		return dat, nil
	}
	n, err := r.ReadAt(dat[:size], 0)
	if err != nil {
		return nil, errors.Wrapf(err, "fileio: reading %s", path)
	}
	if n != size {
		return nil, errors.Errorf("fileio: short read of %s: %d of %d bytes", path, n, size)
	}
	return dat, nil
}
