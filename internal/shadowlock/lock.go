// Package shadowlock implements the exclusive, PID-stamped process lock that
// guards the commit-cycle transaction (spec.md §4.1).
//
// The lock is a plain text file: one line holding the owning PID, one line
// holding an RFC3339 timestamp. Liveness of the holder is determined by a
// zero-signal probe (unix.Kill(pid, 0)), the standard POSIX "does this PID
// exist and can I signal it" check.
package shadowlock

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"github.com/tanabe1478/git-shadow/internal/atomicio"
	"github.com/tanabe1478/git-shadow/internal/shadowerrors"
)

// Info describes the current state of a lock file.
type Info struct {
	PID       int
	Acquired  time.Time
	Alive     bool
}

// Lock represents the lock file at a fixed path inside the VCS metadata
// directory (conventionally <vcs-dir>/shadow/lock).
type Lock struct {
	path string
}

// New returns a Lock bound to path. It does not touch the filesystem.
func New(path string) *Lock {
	return &Lock{path: path}
}

// Path returns the lock file's path.
func (l *Lock) Path() string {
	return l.path
}

// Acquire creates the lock file exclusively. If a lock file already exists,
// Acquire inspects the owning PID:
//   - live process: returns a *shadowerrors.Error of kind ConcurrentOperation.
//   - dead process: returns a *shadowerrors.Error of kind StaleLock, and does
//     NOT clear the file — a stale lock means a prior transaction needs
//     `restore`, and silently clearing it would discard that signal.
func (l *Lock) Acquire() error {
	info, err := l.read()
	if err == nil {
		if info.Alive {
			return shadowerrors.New(shadowerrors.ConcurrentOperation, l.path,
				fmt.Sprintf("another git-shadow process (pid %d) is already running", info.PID))
		}
		return shadowerrors.New(shadowerrors.StaleLock, l.path,
			fmt.Sprintf("lock held by dead process (pid %d); run `git-shadow restore`", info.PID))
	}
	if !os.IsNotExist(err) {
		return shadowerrors.Wrap(shadowerrors.IOError, l.path, "", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return shadowerrors.Wrap(shadowerrors.IOError, l.path, "", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			// Lost a race with another process between the read above and
			// this create; treat it the same as finding it present.
			return l.Acquire()
		}
		return shadowerrors.Wrap(shadowerrors.IOError, l.path, "", err)
	}
	defer f.Close()

	body := fmt.Sprintf("%d\n%s\n", os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if _, err := f.WriteString(body); err != nil {
		os.Remove(l.path)
		return shadowerrors.Wrap(shadowerrors.IOError, l.path, "", err)
	}
	return nil
}

// Release deletes the lock file. Deleting an absent lock is not an error,
// since Release is also called defensively by commands like restore.
func (l *Lock) Release() error {
	return atomicio.Remove(l.path)
}

// Held reports whether the lock file currently exists, and if so, whether
// its owning process is alive.
func (l *Lock) Held() (*Info, bool) {
	info, err := l.read()
	if err != nil {
		return nil, false
	}
	return info, true
}

func (l *Lock) read() (*Info, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, err
	}
	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	if len(lines) == 0 || lines[0] == "" {
		return nil, fmt.Errorf("shadowlock: malformed lock file %s", l.path)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, fmt.Errorf("shadowlock: malformed pid in %s: %w", l.path, err)
	}
	var acquired time.Time
	if len(lines) > 1 {
		acquired, _ = time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
	}
	return &Info{
		PID:      pid,
		Acquired: acquired,
		Alive:    processAlive(pid),
	}, nil
}

// processAlive performs the zero-signal liveness probe: unix.Kill(pid, 0)
// validates the PID exists and is visible to us without actually signaling
// it. ESRCH means the process is gone; EPERM means it exists but is owned
// by someone else, which still counts as alive.
func processAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	if err == nil || err == unix.EPERM {
		return true
	}
	return false
}
