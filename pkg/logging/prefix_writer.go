// Package logging builds the hclog loggers used across the player.
package logging

import (
	"bytes"
	"io"
	"sync"
)

// PrefixWriter prefixes every complete line written through it. Partial
// lines are held back until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix []byte
	writer io.Writer

	mu      sync.Mutex
	pending []byte
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

// Write implements io.Writer.
func (pw *PrefixWriter) Write(p []byte) (int, error) {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending = append(pw.pending, p...)
	for {
		i := bytes.IndexByte(pw.pending, '\n')
		if i < 0 {
			break
		}
		if err := pw.emit(pw.pending[:i+1]); err != nil {
			return 0, err
		}
		pw.pending = pw.pending[i+1:]
	}

	// Don't let the backing array grow forever across many writes
	if len(pw.pending) == 0 {
		pw.pending = pw.pending[:0:0]
	}
	return len(p), nil
}

// Flush writes any buffered partial line with its prefix.
func (pw *PrefixWriter) Flush() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if len(pw.pending) == 0 {
		return nil
	}
	err := pw.emit(pw.pending)
	pw.pending = nil
	return err
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
