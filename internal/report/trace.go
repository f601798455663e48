package report

import (
	"fmt"
	"os"
	"sync"
)

// FileTracer appends one line per resolver decision point to a trace log.
// It satisfies resolve.Tracer. Writers to one file must share one FileTracer;
// the internal mutex serializes them.
type FileTracer struct {
	mu sync.Mutex
	f  *os.File
}

// OpenFileTracer opens (or creates) the append-only trace log at path.
func OpenFileTracer(path string) (*FileTracer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open trace log %s: %w", path, err)
	}
	return &FileTracer{f: f}, nil
}

// Tracef writes one formatted trace line.
func (t *FileTracer) Tracef(format string, args ...any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintf(t.f, format+"\n", args...)
}

// Close flushes and closes the underlying file.
func (t *FileTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.f.Close()
}
