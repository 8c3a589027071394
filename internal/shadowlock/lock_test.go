package shadowlock

import (
	"os"
	"path/filepath"
	"testing"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	l := New(path)

	if err := l.Acquire(); err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("lock file not created: %v", err)
	}

	info, held := l.Held()
	if !held {
		t.Fatal("expected the lock to be reported as held")
	}
	if info.PID != os.Getpid() {
		t.Fatalf("got pid %d, want %d", info.PID, os.Getpid())
	}
	if !info.Alive {
		t.Fatal("our own process should be reported alive")
	}

	if err := l.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, held := l.Held(); held {
		t.Fatal("expected the lock to be released")
	}
}

func TestAcquireWhileHeldByLiveProcess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	l := New(path)
	if err := l.Acquire(); err != nil {
		t.Fatalf("first Acquire: %v", err)
	}
	defer l.Release()

	if err := l.Acquire(); err == nil {
		t.Fatal("expected a second Acquire against our own live pid to fail")
	}
}

func TestAcquireWithStaleLockReportsStale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lock")
	// A PID that is vanishingly unlikely to be alive, to simulate a dead
	// holder without actually spawning and killing a process.
	if err := os.WriteFile(path, []byte("999999\n2020-01-01T00:00:00Z\n"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}
	l := New(path)
	err := l.Acquire()
	if err == nil {
		t.Fatal("expected Acquire to refuse a lock held by a dead pid")
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("a stale lock must not be silently cleared: %v", err)
	}
}

func TestReleaseOfMissingLockIsNotAnError(t *testing.T) {
	l := New(filepath.Join(t.TempDir(), "lock"))
	if err := l.Release(); err != nil {
		t.Fatalf("Release of a never-acquired lock should not error, got %v", err)
	}
}
