package fs

import (
	"os"
	"path/filepath"
)

// AtomicFile writes to a temporary file next to its destination and moves
// it into place on Commit, so readers never observe a half-written output.
type AtomicFile struct {
	path string
	tmp  *os.File
}

// CreateAtomic creates the parent directories of path and opens a
// temporary file beside it.
func CreateAtomic(path string) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &AtomicFile{path: path, tmp: tmp}, nil
}

// Path returns the destination path.
func (f *AtomicFile) Path() string {
	return f.path
}

func (f *AtomicFile) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit flushes the temporary file and renames it over the destination.
func (f *AtomicFile) Commit() error {
	if err := f.tmp.Sync(); err != nil {
		f.Abort()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Chmod(f.tmp.Name(), 0644); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	return os.Rename(f.tmp.Name(), f.path)
}

// Abort discards the temporary file and leaves the destination untouched.
func (f *AtomicFile) Abort() error {
	f.tmp.Close()
	return os.Remove(f.tmp.Name())
}
