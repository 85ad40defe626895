package membuf_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randomizedcoder/benchkit/internal/membuf"
)

func TestBuilder_AppendEscaped(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		policy membuf.EscapePolicy
		want   string
	}{
		{"single char", "banana", membuf.SingleChar('a', "XY"), "bXYnXYnXY"},
		{"no occurrences", "hello", membuf.SingleChar('a', "XY"), "hello"},
		{"empty", "", membuf.SingleChar('a', "XY"), ""},
		{"html", `<a href="x">&'`, membuf.HTML, "&lt;a href=&#34;x&#34;&gt;&amp;&#39;"},
		{"html plain", "plain text", membuf.HTML, "plain text"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sb, err := membuf.NewBuilder(2)
			require.NoError(t, err)
			require.NoError(t, sb.AppendEscaped(tt.in, tt.policy))
			assert.Equal(t, tt.want, sb.String())
		})
	}
}

func TestBuilder_AppendFormat(t *testing.T) {
	sb, err := membuf.NewBuilder(0)
	require.NoError(t, err)

	require.NoError(t, sb.Append("n="))
	require.NoError(t, sb.AppendFormat("%d/%s/%.2f", 42, "x", 1.5))
	assert.Equal(t, "n=42/x/1.50", sb.String())

	// same inputs, same output
	first := sb.String()
	sb.Reset()
	require.NoError(t, sb.Append("n="))
	require.NoError(t, sb.AppendFormat("%d/%s/%.2f", 42, "x", 1.5))
	assert.Equal(t, first, sb.String())
}

func TestBuilder_FailedAppendRollsBack(t *testing.T) {
	sb, err := membuf.NewBuilder(4, membuf.WithLimit(8))
	require.NoError(t, err)
	require.NoError(t, sb.Append("ab"))

	err = sb.AppendEscaped("aaaa", membuf.SingleChar('a', "XY"))
	assert.ErrorIs(t, err, membuf.ErrTooLarge)
	assert.Equal(t, "ab", sb.String())

	err = sb.AppendFormat("%s", "much too long")
	assert.ErrorIs(t, err, membuf.ErrTooLarge)
	assert.Equal(t, "ab", sb.String())

	_, err = sb.WriteString("0123456789")
	assert.ErrorIs(t, err, membuf.ErrTooLarge)
	assert.Equal(t, "ab", sb.String())
}

func TestBuilder_Writers(t *testing.T) {
	sb, err := membuf.NewBuilder(1)
	require.NoError(t, err)

	_, err = fmt.Fprint(sb, "w:", 7)
	require.NoError(t, err)
	require.NoError(t, sb.WriteByte(';'))
	require.NoError(t, sb.AppendBytes([]byte("end")))
	assert.Equal(t, "w:7;end", sb.String())
	assert.Equal(t, 7, sb.Len())
	assert.GreaterOrEqual(t, sb.Cap(), 7)
}

func TestBuilder_Copy(t *testing.T) {
	sb, err := membuf.NewBuilder(8)
	require.NoError(t, err)
	require.NoError(t, sb.Append("abc"))

	out := sb.Copy()
	assert.Equal(t, "abc", string(out))
	require.Greater(t, cap(out), len(out))
	assert.Equal(t, byte(0), out[:len(out)+1][len(out)])

	// the copy outlives changes to the builder
	sb.Reset()
	require.NoError(t, sb.Append("zzz"))
	sb.Release()
	assert.Equal(t, "abc", string(out))
}

func TestBuilder_BytesIsAView(t *testing.T) {
	sb, err := membuf.NewBuilder(8)
	require.NoError(t, err)
	require.NoError(t, sb.Append("abc"))

	view := sb.Bytes()
	sb.Reset()
	require.NoError(t, sb.Append("xyz"))
	assert.Equal(t, "xyz", string(view))
}

func TestBuilder_ReleaseTwice(t *testing.T) {
	sb, err := membuf.NewBuilder(8)
	require.NoError(t, err)
	require.NoError(t, sb.Append("x"))

	sb.Release()
	sb.Release()
	assert.Equal(t, 0, sb.Len())
	assert.Empty(t, sb.String())
}
