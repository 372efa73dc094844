package filelock

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("lock file not created: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("lock file content %q is not a PID", data)
	}
	if pid != os.Getpid() {
		t.Errorf("lock file PID = %d, want %d", pid, os.Getpid())
	}

	if err := lock.Release(); err != nil {
		t.Errorf("Release failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("lock file still exists after release")
	}

	// Second release is a no-op.
	if err := lock.Release(); err != nil {
		t.Errorf("second Release failed: %v", err)
	}
}

func TestAcquireCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "watchdog.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	defer func() { _ = lock.Release() }()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("lock file not created in nested directory: %v", err)
	}
}

func TestAcquireRefusedWhileOwnerAlive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog.lock")

	// A lock held by this very process counts as live, but Acquire treats
	// its own PID as reclaimable so a restart after a crash recovers.
	// Simulate a foreign live owner with PID 1 (init/System, always alive
	// on any platform this test runs on).
	if err := os.WriteFile(path, []byte("1\n"), 0644); err != nil {
		t.Fatalf("failed to seed lock file: %v", err)
	}

	_, err := Acquire(path)
	if err == nil {
		t.Fatal("Acquire succeeded despite a live owner")
	}
	if !errors.Is(err, ErrAlreadyLocked) {
		t.Errorf("error = %v, want ErrAlreadyLocked", err)
	}
}

func TestAcquireReclaimsStaleLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog.lock")

	// No live process has PID 0, so the lock is stale.
	if err := os.WriteFile(path, []byte("0\n"), 0644); err != nil {
		t.Fatalf("failed to seed lock file: %v", err)
	}

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire did not reclaim stale lock: %v", err)
	}
	defer func() { _ = lock.Release() }()

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), strconv.Itoa(os.Getpid())) {
		t.Errorf("reclaimed lock file content = %q, want own PID", data)
	}
}

func TestAcquireReclaimsMalformedLock(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog.lock")

	if err := os.WriteFile(path, []byte("not a pid"), 0644); err != nil {
		t.Fatalf("failed to seed lock file: %v", err)
	}

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire did not reclaim malformed lock: %v", err)
	}
	_ = lock.Release()
}

func TestPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "watchdog.lock")

	lock, err := Acquire(path)
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if lock.Path() != path {
		t.Errorf("Path() = %q, want %q", lock.Path(), path)
	}

	_ = lock.Release()
	if lock.Path() != "" {
		t.Errorf("Path() after release = %q, want empty", lock.Path())
	}
}
