package flock

import (
	"errors"
	"fmt"
	"os"
)

// ErrLocked is returned by TryLock when another process holds the lock.
var ErrLocked = errors.New("file is locked by another process")

// Lock is a held exclusive lock on a lock file.
type Lock struct {
	file *os.File
}

// TryLock creates path if needed and takes an exclusive lock on it without
// waiting.
func TryLock(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600) //#nosec G304 -- path is derived from a user-chosen plan file
	if err != nil {
		return nil, fmt.Errorf("failed to open lock file: %w", err)
	}
	if err := Exclusive(f.Fd()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	return &Lock{file: f}, nil
}

// Release unlocks and removes the lock file. It is safe on a nil Lock and
// safe to call twice.
func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	path := l.file.Name()
	unlockErr := Unlock(l.file.Fd())
	closeErr := l.file.Close()
	l.file = nil
	_ = os.Remove(path)
	return errors.Join(unlockErr, closeErr)
}
