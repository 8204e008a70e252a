//go:build !windows

package resources

import "github.com/hashicorp/go-hclog"

// NewKernel32Updater reports ErrNativeUnsupported outside Windows; use
// WinresUpdater instead.
func NewKernel32Updater(logger hclog.Logger) (Updater, error) {
	return nil, ErrNativeUnsupported
}
