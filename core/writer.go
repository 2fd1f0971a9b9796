package core

import (
	"fmt"
	"os"
)

// Writer persists regenerated source. Writes go through a temp file and an
// atomic rename so a file on disk is always either the original or the
// complete regenerated text.
type Writer struct {
	tempSuffix string
	fsync      bool
}

// NewWriter creates a writer with the default temp suffix.
func NewWriter() *Writer {
	return &Writer{tempSuffix: ".jsxfix.tmp"}
}

// WriteFile overwrites path with content, preserving the original mode.
func (w *Writer) WriteFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	tempPath := path + w.tempSuffix
	f, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := f.Write(content); err != nil {
		f.Close()
		os.Remove(tempPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if w.fsync {
		if err := f.Sync(); err != nil {
			f.Close()
			os.Remove(tempPath)
			return fmt.Errorf("syncing temp file: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
