package supersim

import (
	"bytes"
	"context"
	"log/slog"
)

// maxLineLength caps buffered output when the simulator writes without newlines
const maxLineLength = 64 * 1024

// lineLogger is an io.Writer that emits one log record per output line.
// exec copies each stream from its own goroutine, so a lineLogger is never
// written concurrently.
type lineLogger struct {
	log    *slog.Logger
	stream string
	level  slog.Level
	buf    bytes.Buffer
}

func newLineLogger(log *slog.Logger, stream string, level slog.Level) *lineLogger {
	return &lineLogger{log: log, stream: stream, level: level}
}

func (l *lineLogger) Write(p []byte) (int, error) {
	l.buf.Write(p)
	for {
		line, err := l.buf.ReadBytes('\n')
		if err != nil {
			// Incomplete line, keep it for the next write
			l.buf.Reset()
			l.buf.Write(line)
			break
		}
		l.emit(line)
	}
	if l.buf.Len() > maxLineLength {
		l.Flush()
	}
	return len(p), nil
}

// Flush emits whatever partial line is buffered
func (l *lineLogger) Flush() {
	if l.buf.Len() == 0 {
		return
	}
	l.emit(l.buf.Bytes())
	l.buf.Reset()
}

func (l *lineLogger) emit(line []byte) {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return
	}
	l.log.Log(context.Background(), l.level, string(line), "stream", l.stream)
}
