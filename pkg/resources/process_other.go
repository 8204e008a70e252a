//go:build !windows

package resources

import (
	"errors"
	"os"
	"syscall"
)

// processRunning reports whether pid names a live process. Signal 0 checks
// for existence without delivering anything.
func processRunning(pid int) bool {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	return err == nil || errors.Is(err, syscall.EPERM)
}
