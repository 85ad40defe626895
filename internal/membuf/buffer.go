// Package membuf provides a growable byte region and two thin wrappers on
// top of it:
//   - Buffer: owned or borrowed bytes with a cursor, amortized growth
//   - Builder: text accumulation with escaping and formatted append
//   - Reader: zero-copy line scanning over a file or caller memory
//
// All three share one layout: data spans [head, end) and cur sits between
// them. For Buffer and Builder the cursor is the write position; for
// Reader it is the read position.
//
// None of these types are safe for concurrent use. A buffer has exactly one
// owner; copying a Buffer value and using both copies is a defect.
package membuf

import (
	"errors"
	"fmt"
	"math"

	"github.com/randomizedcoder/benchkit/internal/fault"
)

// growthFactor multiplies the capacity on overflow, bounding the number of
// reallocations to O(log n) over n appended bytes.
const growthFactor = 2

var (
	// ErrTooLarge is returned when growth would exceed the buffer's limit.
	ErrTooLarge = errors.New("membuf: capacity limit exceeded")

	// ErrAlloc is returned when the runtime refuses an allocation size.
	ErrAlloc = errors.New("membuf: allocation failed")
)

// Buffer is a contiguous byte region with a cursor.
//
// The zero value is a released buffer; Init (or New) makes it usable. A
// released buffer reports zero length and capacity.
type Buffer struct {
	data  []byte // [head, end)
	cur   int
	owned bool
	limit int
	unmap func() error
}

// Option configures a Buffer at Init.
type Option func(*Buffer)

// WithLimit caps the capacity Grow may reach. Zero means no limit.
func WithLimit(n int) Option {
	return func(b *Buffer) { b.limit = n }
}

// New returns an owned buffer with the given capacity.
func New(capacity int, opts ...Option) (*Buffer, error) {
	b := &Buffer{}
	if err := b.Init(capacity, opts...); err != nil {
		return nil, err
	}
	return b, nil
}

// Init releases whatever b held and allocates capacity owned bytes, with
// the cursor at the head.
func (b *Buffer) Init(capacity int, opts ...Option) error {
	fault.Assert(b != nil, "Init on nil *Buffer")
	fault.Assert(capacity >= 0, "negative capacity %d", capacity)

	if err := b.Release(); err != nil {
		return err
	}
	for _, opt := range opts {
		opt(b)
	}
	fault.Assert(b.limit >= 0, "negative limit %d", b.limit)
	if b.limit > 0 && capacity > b.limit {
		return fmt.Errorf("%w: capacity %d over limit %d", ErrTooLarge, capacity, b.limit)
	}
	data, err := alloc(capacity)
	if err != nil {
		return err
	}
	b.data = data
	b.owned = true
	return nil
}

// borrow wraps mem without copying. Release leaves mem untouched.
func (b *Buffer) borrow(mem []byte) error {
	if err := b.Release(); err != nil {
		return err
	}
	b.data = mem[:len(mem):len(mem)]
	return nil
}

// adopt takes ownership of a mapped region; Release calls unmap.
func (b *Buffer) adopt(mem []byte, unmap func() error) error {
	if err := b.Release(); err != nil {
		return err
	}
	b.data = mem[:len(mem):len(mem)]
	b.owned = true
	b.unmap = unmap
	return nil
}

// Release drops the region. Owned heap memory is left to the collector,
// mapped memory is unmapped and borrowed memory is not touched. Calling
// Release on a released buffer is a no-op. The limit set at Init survives.
func (b *Buffer) Release() error {
	fault.Assert(b != nil, "Release on nil *Buffer")
	unmap := b.unmap
	b.data, b.cur, b.owned, b.unmap = nil, 0, false, nil
	if unmap != nil {
		return unmap()
	}
	return nil
}

// Len returns the used length, cursor minus head.
func (b *Buffer) Len() int {
	b.check()
	return b.cur
}

// Cap returns the size of the region, end minus head.
func (b *Buffer) Cap() int {
	b.check()
	return len(b.data)
}

// Available returns the remaining capacity, end minus cursor.
func (b *Buffer) Available() int {
	b.check()
	return len(b.data) - b.cur
}

// Owned reports whether the buffer owns its region.
func (b *Buffer) Owned() bool {
	b.check()
	return b.owned
}

// Bytes returns a view of [head, cursor). The view aliases the buffer and is
// invalidated by the next Grow, Reset or Release.
func (b *Buffer) Bytes() []byte {
	b.check()
	return b.data[:b.cur:b.cur]
}

// Reset moves the cursor back to the head, keeping the region.
func (b *Buffer) Reset() {
	b.check()
	b.cur = 0
}

// Grow ensures at least n bytes are available after the cursor. When the
// region is too small it is reallocated to max(cap*2, cap+n) bytes and the
// written prefix copied over. On error the buffer is unchanged.
//
// Growing a borrowed or mapped region moves the contents into owned memory;
// the original region is never written to.
func (b *Buffer) Grow(n int) error {
	b.check()
	fault.Assert(n >= 0, "negative grow %d", n)
	if len(b.data)-b.cur >= n {
		return nil
	}

	capacity := len(b.data)
	if capacity > math.MaxInt-n {
		return fmt.Errorf("%w: %d + %d overflows", ErrTooLarge, capacity, n)
	}
	need := capacity + n
	next := need
	if capacity <= math.MaxInt/growthFactor {
		next = max(capacity*growthFactor, need)
	}
	if b.limit > 0 {
		if need > b.limit {
			return fmt.Errorf("%w: need %d bytes, limit %d", ErrTooLarge, need, b.limit)
		}
		next = min(next, b.limit)
	}

	data, err := alloc(next)
	if err != nil {
		return err
	}
	copy(data, b.data[:b.cur])

	unmap := b.unmap
	b.data, b.owned, b.unmap = data, true, nil
	if unmap != nil {
		// contents already copied; a failed unmap only leaks the mapping
		_ = unmap()
	}
	return nil
}

// Append copies p at the cursor, growing as needed, and advances the cursor.
func (b *Buffer) Append(p []byte) error {
	if err := b.Grow(len(p)); err != nil {
		return err
	}
	b.cur += copy(b.data[b.cur:], p)
	return nil
}

// AppendString is Append for a string without converting it first.
func (b *Buffer) AppendString(s string) error {
	if err := b.Grow(len(s)); err != nil {
		return err
	}
	b.cur += copy(b.data[b.cur:], s)
	return nil
}

// appendByte writes one byte at the cursor.
func (b *Buffer) appendByte(c byte) error {
	if err := b.Grow(1); err != nil {
		return err
	}
	b.data[b.cur] = c
	b.cur++
	return nil
}

// truncate moves the cursor back to n, discarding later bytes.
func (b *Buffer) truncate(n int) {
	fault.Assert(n >= 0 && n <= b.cur, "truncate to %d outside [0, %d]", n, b.cur)
	b.cur = n
}

// check enforces head <= cursor <= end.
func (b *Buffer) check() {
	fault.Assert(b != nil, "use of nil *Buffer")
	fault.Assert(b.cur >= 0 && b.cur <= len(b.data), "cursor %d outside [0, %d]", b.cur, len(b.data))
}

// alloc makes n zeroed bytes, turning the runtime's refusal of an
// impossible size into ErrAlloc.
func alloc(n int) (p []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			p, err = nil, fmt.Errorf("%w: %d bytes: %v", ErrAlloc, n, r)
		}
	}()
	return make([]byte, n), nil
}
