package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
)

const lockFilename = "pprofiler.pid"

// lockDir returns the directory holding the PID lockfile
func lockDir() string {
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return xdg
	}
	return os.TempDir()
}

// acquireLock creates a PID lockfile in dir. It fails if the PID recorded in
// an existing lockfile belongs to a live process; stale lockfiles are
// replaced. The returned func removes the lockfile.
func acquireLock(dir string) (func(), error) {
	lockPath := filepath.Join(dir, lockFilename)

	// Check for an existing lockfile
	if data, err := os.ReadFile(lockPath); err == nil {
		pidStr := strings.TrimSpace(string(data))
		if pid, err := strconv.Atoi(pidStr); err == nil && pid > 0 {
			// Signal 0 checks if the process exists without actually signaling it
			if err := syscall.Kill(pid, 0); err == nil {
				return nil, fmt.Errorf("%s is already running (pid %d)", filepath.Base(os.Args[0]), pid)
			}
		}
		// Stale lockfile
		_ = os.Remove(lockPath)
	}

	if err := os.WriteFile(lockPath, []byte(strconv.Itoa(os.Getpid())), 0644); err != nil {
		return nil, fmt.Errorf("failed to create lockfile %s: %w", lockPath, err)
	}

	return func() { _ = os.Remove(lockPath) }, nil
}
