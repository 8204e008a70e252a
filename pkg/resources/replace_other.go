//go:build !windows

package resources

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// atomicReplace moves sourcePath over destPath. rename(2) is atomic on the
// same filesystem.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	if err := os.Rename(sourcePath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}
	logger.Debug("Replaced file", "source", sourcePath, "dest", destPath)
	return nil
}
