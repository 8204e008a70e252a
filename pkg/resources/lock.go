package resources

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// containerLock is an exclusive lock file next to a container. It keeps a
// second update from starting while a transaction is open.
type containerLock struct {
	path   string
	logger hclog.Logger
}

func lockPath(container string) string {
	return container + ".lock"
}

// acquireLock creates the lock file for container.
//
// A lock left by a process that is no longer running is removed first. A
// lock held by a live process, or one whose owner cannot be read yet, fails
// with ErrContainerLocked.
func acquireLock(container string, logger hclog.Logger) (*containerLock, error) {
	p := lockPath(container)
	removeStaleLock(p, logger)

	file, err := os.OpenFile(p, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("%w: remove %s if no update is running", ErrContainerLocked, p)
		}
		return nil, fmt.Errorf("failed to create lock file: %w", err)
	}
	defer file.Close()

	if _, err := fmt.Fprintf(file, "%d\n", os.Getpid()); err != nil {
		os.Remove(p)
		return nil, fmt.Errorf("failed to write lock file: %w", err)
	}

	logger.Debug("🔒 Acquired container lock", "lock", p)
	return &containerLock{path: p, logger: logger}, nil
}

func (l *containerLock) release() {
	if err := os.Remove(l.path); err != nil {
		l.logger.Debug("⚠️ Failed to remove lock file", "lock", l.path, "error", err)
		return
	}
	l.logger.Debug("🔓 Released container lock", "lock", l.path)
}

// removeStaleLock deletes the lock at p when the PID it records belongs to
// no running process.
func removeStaleLock(p string, logger hclog.Logger) {
	data, err := os.ReadFile(p)
	if err != nil {
		return
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		// Empty while its owner is still writing it.
		return
	}
	if processRunning(pid) {
		logger.Debug("🔒 Lock held by active process", "lock", p, "pid", pid)
		return
	}
	logger.Info("🧹 Removing stale lock from dead process", "lock", p, "pid", pid)
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		logger.Debug("⚠️ Failed to remove stale lock", "lock", p, "error", err)
	}
}
