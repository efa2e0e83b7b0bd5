package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates the directory (and parents) if it does not exist
func EnsureDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	return os.MkdirAll(dir, os.ModePerm)
}

// WriteToFile writes the contents to the path, replacing any existing file.
// Missing parent directories are created
func WriteToFile(savePath string, content []byte) error {
	if err := EnsureDir(filepath.Dir(savePath)); err != nil {
		return err
	}
	return os.WriteFile(savePath, content, 0644)
}

// ListDirs returns the names of the sub directories of dir that contain the named file
func ListDirs(dir, containing string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	out := make([]string, 0)
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), containing)); err == nil {
			out = append(out, e.Name())
		}
	}
	return out, nil
}
