package supersim

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newCapture() (*lineLogger, *bytes.Buffer) {
	var out bytes.Buffer
	log := slog.New(slog.NewTextHandler(&out, &slog.HandlerOptions{
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	return newLineLogger(log, "stdout", slog.LevelInfo), &out
}

func TestLineLogger_SplitsLines(t *testing.T) {
	ll, out := newCapture()

	n, err := ll.Write([]byte("first\nsecond\r\n"))
	assert.NoError(t, err)
	assert.Equal(t, 14, n)

	assert.Equal(t,
		"level=INFO msg=first stream=stdout\nlevel=INFO msg=second stream=stdout\n",
		out.String())
}

func TestLineLogger_JoinsPartialWrites(t *testing.T) {
	ll, out := newCapture()

	_, _ = ll.Write([]byte("chain 901 "))
	assert.Empty(t, out.String())
	_, _ = ll.Write([]byte("ready\nchain 902"))
	assert.Equal(t, "level=INFO msg=\"chain 901 ready\" stream=stdout\n", out.String())

	ll.Flush()
	assert.Contains(t, out.String(), `msg="chain 902" stream=stdout`)
}

func TestLineLogger_SkipsBlankLines(t *testing.T) {
	ll, out := newCapture()
	_, _ = ll.Write([]byte("\n\n\n"))
	ll.Flush()
	assert.Empty(t, out.String())
}

func TestLineLogger_FlushesOversizedLine(t *testing.T) {
	ll, out := newCapture()
	_, _ = ll.Write([]byte(strings.Repeat("x", maxLineLength+1)))
	assert.Equal(t, 1, strings.Count(out.String(), "stream=stdout"))
	assert.Zero(t, ll.buf.Len())
}
