// Package filelock guards against running more than one watchdog at a
// time. Two watchdogs polling the same consoles would race AttachConsole
// calls and double-notify every transition, so the run command takes a
// PID lock file before starting the loop.
//
// The lock is advisory: it protects cooperating watchdog processes, not
// arbitrary programs. A lock left behind by a crashed watchdog is detected
// by probing the recorded PID and reclaimed automatically.
package filelock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ErrAlreadyLocked is returned when another live watchdog holds the lock.
var ErrAlreadyLocked = errors.New("another watchdog is already running")

// Lock is a held PID lock file.
type Lock struct {
	path string
}

// Acquire takes the lock file at path, writing the current process's PID
// into it. If the file exists and its recorded PID is still alive,
// Acquire fails with ErrAlreadyLocked. A lock whose owner is gone is
// treated as stale and reclaimed.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for attempt := 0; attempt < 2; attempt++ {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			_, werr := fmt.Fprintf(file, "%d\n", os.Getpid())
			cerr := file.Close()
			if werr != nil || cerr != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lock file: %w", errors.Join(werr, cerr))
			}
			return &Lock{path: path}, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("failed to create lock file: %w", err)
		}

		owner, rerr := readOwner(path)
		if rerr == nil && owner != os.Getpid() && processAlive(owner) {
			return nil, fmt.Errorf("%w (pid %d)", ErrAlreadyLocked, owner)
		}

		// Unreadable or stale lock: remove it and retry once.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			return nil, fmt.Errorf("failed to remove stale lock file: %w", rmErr)
		}
	}

	return nil, fmt.Errorf("failed to acquire lock at %s", path)
}

// Release removes the lock file. Safe to call more than once.
func (l *Lock) Release() error {
	if l == nil || l.path == "" {
		return nil
	}
	path := l.path
	l.path = ""
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lock file: %w", err)
	}
	return nil
}

// Path returns the lock file path, or empty after release.
func (l *Lock) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// readOwner parses the PID recorded in an existing lock file.
func readOwner(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed lock file %s: %w", path, err)
	}
	return pid, nil
}
