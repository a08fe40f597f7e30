package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// Lock is an exclusive advisory lock held for the lifetime of a session.
type Lock struct {
	flk *flock.Flock
}

// AcquireLock takes a non-blocking exclusive lock on path. It returns
// ErrLocked when another process already holds it.
func AcquireLock(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	flk := flock.New(path)
	locked, err := flk.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", path, err)
	}
	if !locked {
		return nil, ErrLocked
	}
	return &Lock{flk: flk}, nil
}

func (l *Lock) Path() string {
	return l.flk.Path()
}

func (l *Lock) Release() error {
	if l == nil || l.flk == nil {
		return nil
	}
	return l.flk.Unlock()
}
