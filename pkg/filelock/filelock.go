// Package filelock provides advisory file locking to prevent concurrent
// bsrename processes from applying changes to the same directory.
package filelock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked indicates that another process holds the lock.
var ErrLocked = errors.New("lock is held by another process")

// Lock represents an acquired advisory file lock.
type Lock struct {
	flock *flock.Flock
}

// PathFor returns the lock file path guarding root. The file lives in the
// system temp directory so the guarded directory gains no entry.
func PathFor(root string) string {
	sum := sha256.Sum256([]byte(filepath.Clean(root)))
	return filepath.Join(os.TempDir(), "bsrename-"+hex.EncodeToString(sum[:8])+".lock")
}

// Acquire obtains an exclusive advisory lock on path without blocking.
// If another process already holds it, Acquire returns ErrLocked.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)

	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("acquire lock: %w", ErrLocked)
	}

	return &Lock{flock: fl}, nil
}

// Close releases the lock and removes the lock file.
// It is safe to call Close on a nil Lock (no-op).
func (l *Lock) Close() error {
	if l == nil || l.flock == nil {
		return nil
	}

	unlockErr := l.flock.Unlock()

	removeErr := os.Remove(l.flock.Path())
	if os.IsNotExist(removeErr) {
		removeErr = nil
	}

	return errors.Join(unlockErr, removeErr)
}
