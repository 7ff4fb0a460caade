// Package runlock keeps two precheck runs from working on the same directory
// at the same time.
package runlock

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned when another run holds the lock.
var ErrLocked = errors.New("another precheck run is in progress")

// Lock is a held run lock.
type Lock struct {
	fl *flock.Flock
}

// PathFor returns the lock file used for workDir. It lives in the temp
// directory so nothing is written into the project.
func PathFor(workDir string) (string, error) {
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "precheck-"+hex.EncodeToString(sum[:6])+".lock"), nil
}

// Acquire takes the lock at path without blocking.
func Acquire(path string) (*Lock, error) {
	fl := flock.New(path)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, path)
	}
	return &Lock{fl: fl}, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string {
	return l.fl.Path()
}

// Release unlocks. The lock file is left in place for the next run.
func (l *Lock) Release() error {
	return l.fl.Unlock()
}
