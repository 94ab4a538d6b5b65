// Package lock keeps two watchdog runs from working on the same state at
// once.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

// ErrLocked means another process holds the run lock.
var ErrLocked = errors.New("another mcuwatch run holds the lock")

// RunLock is a non-blocking flock on a file that also records the holder's
// PID.
type RunLock struct {
	path string
	file *os.File
}

func NewRunLock(path string) *RunLock {
	return &RunLock{path: path}
}

func (l *RunLock) Path() string { return l.path }

// TryLock takes the lock or fails at once. The error wraps ErrLocked when
// another process holds it.
func (l *RunLock) TryLock() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		_ = f.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			if pid, perr := Holder(l.path); perr == nil {
				return fmt.Errorf("%w (pid %d)", ErrLocked, pid)
			}
			return ErrLocked
		}
		return fmt.Errorf("acquire lock: %w", err)
	}

	release := func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
	}
	if err := f.Truncate(0); err != nil {
		release()
		return fmt.Errorf("truncate lock file: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		release()
		return fmt.Errorf("seek lock file: %w", err)
	}
	if _, err := fmt.Fprintf(f, "%d\n", os.Getpid()); err != nil {
		release()
		return fmt.Errorf("write PID to lock file: %w", err)
	}
	if err := f.Sync(); err != nil {
		release()
		return fmt.Errorf("sync lock file: %w", err)
	}

	l.file = f
	return nil
}

// Unlock clears the recorded PID and releases the lock. The file stays in
// place so every run flocks the same inode. Calling Unlock without holding
// the lock is a no-op.
func (l *RunLock) Unlock() error {
	if l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil

	_ = f.Truncate(0)
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("release lock: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close lock file: %w", err)
	}
	return nil
}

// Holder reads the PID recorded in the lock file at path.
func Holder(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("parse lock holder: %w", err)
	}
	return pid, nil
}
