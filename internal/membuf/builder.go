package membuf

import (
	"fmt"
	"io"
	"strings"
)

// EscapePolicy rewrites a string into a writer, substituting the bytes it
// targets and copying everything else unchanged. *strings.Replacer
// satisfies it.
type EscapePolicy interface {
	WriteString(w io.Writer, s string) (int, error)
}

// HTML escapes the five characters significant in HTML text and attribute
// values.
var HTML EscapePolicy = strings.NewReplacer(
	`&`, "&amp;",
	`<`, "&lt;",
	`>`, "&gt;",
	`"`, "&#34;",
	`'`, "&#39;",
)

// SingleChar returns a policy replacing every occurrence of target with
// replacement.
func SingleChar(target byte, replacement string) EscapePolicy {
	return strings.NewReplacer(string([]byte{target}), replacement)
}

// Builder accumulates text. The written bytes are not terminated; Copy adds
// a terminator when one is needed.
//
// A failed append leaves the builder as it was before the call.
type Builder struct {
	buf Buffer
}

// NewBuilder returns a builder with the given initial capacity.
func NewBuilder(capacity int, opts ...Option) (*Builder, error) {
	sb := &Builder{}
	if err := sb.Init(capacity, opts...); err != nil {
		return nil, err
	}
	return sb, nil
}

// Init (re)initializes the builder with the given capacity.
func (sb *Builder) Init(capacity int, opts ...Option) error {
	return sb.buf.Init(capacity, opts...)
}

// Release drops the builder's memory. It is safe to call more than once.
func (sb *Builder) Release() {
	// a builder never holds a mapping, so release cannot fail
	_ = sb.buf.Release()
}

// Len returns the number of bytes written.
func (sb *Builder) Len() int {
	return sb.buf.Len()
}

// Cap returns the current capacity.
func (sb *Builder) Cap() int {
	return sb.buf.Cap()
}

// Reset discards the text, keeping the capacity.
func (sb *Builder) Reset() {
	sb.buf.Reset()
}

// Bytes returns a borrowed view of the text. It is not terminated and is
// invalidated by the next append.
func (sb *Builder) Bytes() []byte {
	return sb.buf.Bytes()
}

// String returns a copy of the text.
func (sb *Builder) String() string {
	return string(sb.buf.Bytes())
}

// Copy returns an owned copy of the text that outlives the builder. A zero
// terminator is stored just past the returned length, inside the slice's
// capacity, for callers handing the bytes to C-style APIs.
func (sb *Builder) Copy() []byte {
	src := sb.buf.Bytes()
	out := make([]byte, len(src)+1)
	copy(out, src)
	return out[:len(src)]
}

// Append appends s.
func (sb *Builder) Append(s string) error {
	return sb.buf.AppendString(s)
}

// AppendBytes appends p.
func (sb *Builder) AppendBytes(p []byte) error {
	return sb.buf.Append(p)
}

// AppendEscaped appends s rewritten by policy.
func (sb *Builder) AppendEscaped(s string, policy EscapePolicy) error {
	mark := sb.buf.Len()
	if _, err := policy.WriteString(sb, s); err != nil {
		sb.buf.truncate(mark)
		return err
	}
	return nil
}

// AppendFormat appends the result of fmt.Sprintf(format, args...). The
// text is formatted in full before the builder grows, so it is never
// truncated.
func (sb *Builder) AppendFormat(format string, args ...any) error {
	mark := sb.buf.Len()
	if _, err := fmt.Fprintf(sb, format, args...); err != nil {
		sb.buf.truncate(mark)
		return err
	}
	return nil
}

// Write implements io.Writer.
func (sb *Builder) Write(p []byte) (int, error) {
	if err := sb.buf.Append(p); err != nil {
		return 0, err
	}
	return len(p), nil
}

// WriteString implements io.StringWriter.
func (sb *Builder) WriteString(s string) (int, error) {
	if err := sb.buf.AppendString(s); err != nil {
		return 0, err
	}
	return len(s), nil
}

// WriteByte implements io.ByteWriter.
func (sb *Builder) WriteByte(c byte) error {
	return sb.buf.appendByte(c)
}
