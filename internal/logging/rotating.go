// internal/logging/rotating.go
package logging

import (
	"fmt"
	"os"
	"sync"
)

// keepRotated is how many rotated files are retained next to the
// active log file (<path>.1 is the newest).
const keepRotated = 5

// RotatingWriter implements io.Writer with size-based log rotation.
// When the active file would exceed maxSize bytes it is renamed to
// <path>.1, older rotations shift up, and writing continues in a fresh
// file.
type RotatingWriter struct {
	path    string
	maxSize int64
	file    *os.File
	size    int64
	mu      sync.Mutex
}

// NewRotatingWriter opens (or creates) the log file at path.
func NewRotatingWriter(path string, maxSize int64) (*RotatingWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat log file: %w", err)
	}

	return &RotatingWriter{
		path:    path,
		maxSize: maxSize,
		file:    f,
		size:    info.Size(),
	}, nil
}

// Write implements io.Writer.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.size+int64(len(p)) > w.maxSize {
		if err := w.rotate(); err != nil {
			return 0, fmt.Errorf("rotating log: %w", err)
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the active log file.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *RotatingWriter) rotate() error {
	w.file.Close()

	// Shift rotated files up: .5 is deleted, .4 -> .5, ... .1 -> .2
	for i := keepRotated; i >= 1; i-- {
		name := fmt.Sprintf("%s.%d", w.path, i)
		if i == keepRotated {
			os.Remove(name)
		} else {
			os.Rename(name, fmt.Sprintf("%s.%d", w.path, i+1))
		}
	}
	if err := os.Rename(w.path, w.path+".1"); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	w.file = f
	w.size = 0
	return nil
}
