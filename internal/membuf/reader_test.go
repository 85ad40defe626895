package membuf_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/benchkit/internal/membuf"
)

// readAll drains r with ReadLine.
func readAll(r *membuf.Reader) []string {
	lines := []string{}
	for {
		line, ok := r.ReadLine()
		if !ok {
			return lines
		}
		lines = append(lines, string(line))
	}
}

func TestReader_RoundTrip(t *testing.T) {
	var r membuf.Reader
	require.NoError(t, r.InitWithMemory([]byte("a\n\nbc")))

	want := []string{"a", "", "bc"}
	if diff := cmp.Diff(want, readAll(&r)); diff != "" {
		t.Errorf("first scan (-want +got):\n%s", diff)
	}
	_, ok := r.ReadLine()
	assert.False(t, ok, "end marker must repeat")

	r.Reset()
	if diff := cmp.Diff(want, readAll(&r)); diff != "" {
		t.Errorf("after Reset (-want +got):\n%s", diff)
	}
}

func TestReader_Terminators(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"no terminator", "x", []string{"x"}},
		{"trailing lf", "a\n", []string{"a"}},
		{"trailing crlf", "a\r\n", []string{"a"}},
		{"trailing cr", "a\r", []string{"a"}},
		{"lone lf", "\n", []string{""}},
		{"blank crlf lines", "\r\n\r\n", []string{"", ""}},
		{"mixed", "a\r\nb\rc\nd", []string{"a", "b", "c", "d"}},
		{"cr then lf is one terminator", "a\r\nb", []string{"a", "b"}},
		{"lf then cr is two", "a\n\rb", []string{"a", "", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r membuf.Reader
			require.NoError(t, r.InitWithMemory([]byte(tt.in)))
			if diff := cmp.Diff(tt.want, readAll(&r)); diff != "" {
				t.Errorf("lines (-want +got):\n%s", diff)
			}
			assert.Equal(t, 0, r.Remaining())
		})
	}
}

func TestReader_BorrowSafety(t *testing.T) {
	mem := []byte("one\ntwo\nthree")
	snapshot := bytes.Clone(mem)

	var r membuf.Reader
	require.NoError(t, r.InitWithMemory(mem))
	assert.Equal(t, len(mem), r.Len())

	line, ok := r.ReadLine()
	require.True(t, ok)
	// appending to a view must not spill into the next line
	_ = append(line, 'X', 'X')

	readAll(&r)
	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
	assert.Equal(t, snapshot, mem)
	assert.Equal(t, 0, r.Len())
}

func TestReader_CopyLine(t *testing.T) {
	mem := []byte("one\ntwo")
	var r membuf.Reader
	require.NoError(t, r.InitWithMemory(mem))

	first, ok := r.CopyLine()
	require.True(t, ok)
	assert.Equal(t, 3, r.Remaining())
	second, ok := r.CopyLine()
	require.True(t, ok)
	_, ok = r.CopyLine()
	assert.False(t, ok)

	require.NoError(t, r.Release())
	mem[0] = 'X'
	assert.Equal(t, "one", string(first))
	assert.Equal(t, "two", string(second))
}

func TestReader_Lines(t *testing.T) {
	var r membuf.Reader
	require.NoError(t, r.InitWithMemory([]byte("a\nb\nc\n")))

	collect := func() []string {
		var out []string
		for line := range r.Lines() {
			out = append(out, string(line))
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c"}, collect())
	assert.Equal(t, []string{"a", "b", "c"}, collect())

	for line := range r.Lines() {
		assert.Equal(t, "a", string(line))
		break
	}
	assert.Equal(t, 4, r.Remaining())
}

func TestReader_InitWithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lines.txt")
	require.NoError(t, os.WriteFile(path, []byte("a\n\nbc"), 0o600))

	var r membuf.Reader
	require.NoError(t, r.InitWithFile(path))
	assert.Equal(t, []string{"a", "", "bc"}, readAll(&r))
	require.NoError(t, r.Release())
}

func TestReader_InitWithFile_Missing(t *testing.T) {
	var r membuf.Reader
	require.NoError(t, r.InitWithMemory([]byte("stale")))

	err := r.InitWithFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
	assert.Equal(t, 0, r.Len())
	_, ok := r.ReadLine()
	assert.False(t, ok)
}

func TestReader_InitWithMappedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapped.txt")
	require.NoError(t, os.WriteFile(path, []byte("x\r\ny\r\n"), 0o600))

	var r membuf.Reader
	require.NoError(t, r.InitWithMappedFile(path))
	assert.Equal(t, []string{"x", "y"}, readAll(&r))
	require.NoError(t, r.Release())
	require.NoError(t, r.Release())
}
