// Package fsutil writes output files so that a failed run never leaves a
// destination half written.
package fsutil

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// File is one pending output
type File struct {
	Path string
	Data []byte
}

// WriteFile writes data to path through a temp file in the same directory
func WriteFile(path string, data []byte) error {
	return WriteFiles(File{Path: path, Data: data})
}

// WriteFunc streams an output through fn and then replaces path atomically
func WriteFunc(path string, fn func(w io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return err
	}
	return WriteFile(path, buf.Bytes())
}

// WriteFiles writes every file to a temp file first. Destinations are only
// replaced once all temp files exist, so either every path is updated or
// (barring a failing rename) none is.
func WriteFiles(files ...File) error {
	temps := make([]string, 0, len(files))
	cleanup := func() {
		for _, t := range temps {
			os.Remove(t)
		}
	}

	for _, f := range files {
		tmp, err := writeTemp(f)
		if err != nil {
			cleanup()
			return err
		}
		temps = append(temps, tmp)
	}

	for i, f := range files {
		if err := os.Rename(temps[i], f.Path); err != nil {
			cleanup()
			return fmt.Errorf("fsutil: replace %s: %w", f.Path, err)
		}
	}
	return nil
}

func writeTemp(f File) (string, error) {
	mode := os.FileMode(0644)
	if info, err := os.Stat(f.Path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), "."+filepath.Base(f.Path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("fsutil: create temp file for %s: %w", f.Path, err)
	}
	name := tmp.Name()

	if _, err := tmp.Write(f.Data); err != nil {
		tmp.Close()
		os.Remove(name)
		return "", fmt.Errorf("fsutil: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("fsutil: close %s: %w", name, err)
	}
	if err := os.Chmod(name, mode); err != nil {
		os.Remove(name)
		return "", fmt.Errorf("fsutil: chmod %s: %w", name, err)
	}
	return name, nil
}
