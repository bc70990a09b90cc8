package execution

import (
	"bytes"
	"io"
	"sync"
)

// lineWriter forwards complete lines to w, each preceded by prefix.
type lineWriter struct {
	mu     sync.Mutex
	w      io.Writer
	prefix string
	buf    bytes.Buffer
}

func newLineWriter(w io.Writer, prefix string) *lineWriter {
	return &lineWriter{w: w, prefix: prefix}
}

func (lw *lineWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	lw.buf.Write(p)
	for {
		i := bytes.IndexByte(lw.buf.Bytes(), '\n')
		if i < 0 {
			break
		}
		line := lw.buf.Next(i + 1)
		if _, err := io.WriteString(lw.w, lw.prefix+string(bytes.TrimRight(line, " \t\r\n"))+"\n"); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// Flush writes any trailing partial line.
func (lw *lineWriter) Flush() {
	lw.mu.Lock()
	defer lw.mu.Unlock()

	if lw.buf.Len() == 0 {
		return
	}
	_, _ = io.WriteString(lw.w, lw.prefix+string(bytes.TrimRight(lw.buf.Bytes(), " \t\r\n"))+"\n")
	lw.buf.Reset()
}
