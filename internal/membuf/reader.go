package membuf

import (
	"bytes"
	"iter"

	"github.com/randomizedcoder/benchkit/internal/fileio"
)

// Reader scans a byte region line by line. The cursor is the read position;
// the region is never written.
type Reader struct {
	buf Buffer
}

// InitWithFile loads path into owned memory. On error the reader is left
// released.
func (r *Reader) InitWithFile(path string) error {
	dat, err := fileio.Read(path)
	if err != nil {
		_ = r.buf.Release()
		return err
	}
	return r.buf.adopt(dat, nil)
}

// InitWithMappedFile maps path read-only. The mapping is removed by Release.
func (r *Reader) InitWithMappedFile(path string) error {
	dat, unmap, err := fileio.Map(path)
	if err != nil {
		_ = r.buf.Release()
		return err
	}
	if err := r.buf.adopt(dat, unmap); err != nil {
		_ = unmap()
		return err
	}
	return nil
}

// InitWithMemory wraps mem without copying it. Release leaves mem untouched
// and the caller must keep it alive and unmodified while the reader is in
// use.
func (r *Reader) InitWithMemory(mem []byte) error {
	return r.buf.borrow(mem)
}

// Release drops the region, unmapping it if it was mapped.
func (r *Reader) Release() error {
	return r.buf.Release()
}

// Len returns the size of the region.
func (r *Reader) Len() int {
	return r.buf.Cap()
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return r.buf.Available()
}

// Reset moves the cursor back to the start so the lines can be scanned again.
func (r *Reader) Reset() {
	r.buf.Reset()
}

// ReadLine returns the next line without its terminator and advances past
// it. "\n", "\r\n" and a lone "\r" all end a line; a terminator at the very
// end of the region does not start another line. The view aliases the
// region. ok is false once every byte has been consumed.
func (r *Reader) ReadLine() (line []byte, ok bool) {
	b := &r.buf
	b.check()
	rest := b.data[b.cur:]
	if len(rest) == 0 {
		return nil, false
	}

	i := bytes.IndexAny(rest, "\r\n")
	if i < 0 {
		b.cur = len(b.data)
		return rest[:len(rest):len(rest)], true
	}
	next := i + 1
	if rest[i] == '\r' && next < len(rest) && rest[next] == '\n' {
		next++
	}
	b.cur += next
	return rest[:i:i], true
}

// CopyLine is ReadLine returning a copy that stays valid after the reader is
// released.
func (r *Reader) CopyLine() ([]byte, bool) {
	line, ok := r.ReadLine()
	if !ok {
		return nil, false
	}
	return bytes.Clone(line), true
}

// Lines resets the reader and yields each line as ReadLine would. Ranging
// over it twice produces the same sequence.
func (r *Reader) Lines() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		r.Reset()
		for {
			line, ok := r.ReadLine()
			if !ok || !yield(line) {
				return
			}
		}
	}
}
