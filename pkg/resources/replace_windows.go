//go:build windows

package resources

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

const (
	replaceAttempts = 3
	replaceDelay    = 50 * time.Millisecond
)

// atomicReplace moves sourcePath over destPath with MoveFileEx. Scanners and
// indexers briefly hold freshly written files open, so a sharing violation is
// retried with backoff.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	from, err := windows.UTF16PtrFromString(sourcePath)
	if err != nil {
		return fmt.Errorf("invalid source path: %w", err)
	}
	to, err := windows.UTF16PtrFromString(destPath)
	if err != nil {
		return fmt.Errorf("invalid destination path: %w", err)
	}

	const flags = windows.MOVEFILE_REPLACE_EXISTING | windows.MOVEFILE_WRITE_THROUGH
	delay := replaceDelay
	for attempt := 1; ; attempt++ {
		err = windows.MoveFileEx(from, to, flags)
		if err == nil {
			logger.Debug("Replaced file", "source", sourcePath, "dest", destPath, "attempt", attempt)
			return nil
		}
		if attempt == replaceAttempts {
			return fmt.Errorf("failed after %d attempts: %w", attempt, err)
		}
		logger.Debug("Retrying file replacement", "attempt", attempt, "delay_ms", delay.Milliseconds(), "error", err)
		time.Sleep(delay)
		delay *= 2
	}
}
