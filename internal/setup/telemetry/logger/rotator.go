package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// LineCapWriter appends to a log file and periodically rewrites it so that
// only the newest maxLines lines are kept on disk.
type LineCapWriter struct {
	file     *os.File
	ring     *lineRing
	path     string
	maxLines int
	mu       sync.Mutex
}

// OpenLineCapWriter opens (or creates) the file at path for appending.
func OpenLineCapWriter(path string, maxLines int) (*LineCapWriter, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("cannot open log file %s: %w", path, err)
	}

	return &LineCapWriter{
		file:     f,
		ring:     newLineRing(maxLines),
		path:     path,
		maxLines: max(maxLines, 1),
	}, nil
}

// Write implements io.Writer.
func (w *LineCapWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	n, err := w.file.Write(p)
	if err != nil {
		return n, err
	}

	for line := range strings.SplitSeq(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}

		w.ring.push(line)
	}

	// The file holds up to twice the cap before it is compacted
	if w.ring.sinceCut >= w.maxLines*2 {
		if err := w.compact(); err != nil {
			return n, fmt.Errorf("failed to rotate log file: %w", err)
		}
	}

	return n, nil
}

// Sync flushes the underlying file.
func (w *LineCapWriter) Sync() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Sync()
}

// Close closes the underlying file.
func (w *LineCapWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.file.Close()
}

// compact replaces the file contents with the retained lines.
func (w *LineCapWriter) compact() error {
	temp, err := os.CreateTemp(filepath.Dir(w.path), "haven-log-")
	if err != nil {
		return err
	}

	tempPath := temp.Name()

	if _, err := io.WriteString(temp, strings.Join(w.ring.snapshot(), "\n")+"\n"); err != nil {
		temp.Close()
		os.Remove(tempPath)

		return err
	}

	if err := temp.Close(); err != nil {
		os.Remove(tempPath)
		return err
	}

	w.file.Close()

	// Windows refuses to rename over an existing file
	os.Remove(w.path)

	if err := os.Rename(tempPath, w.path); err != nil {
		return err
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	w.file = f
	w.ring.sinceCut = w.ring.size

	return nil
}
