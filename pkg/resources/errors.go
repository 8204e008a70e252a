package resources

import (
	"errors"
	"fmt"
	"syscall"
)

var (
	// Container errors 📦
	ErrContainerOpen    = errors.New("❌ cannot open container for resource update")
	ErrResourceWrite    = errors.New("❌ resource update failed")
	ErrResourceCommit   = errors.New("❌ resource commit failed")
	ErrNotPE            = errors.New("❌ not a PE image")
	ErrContainerLocked  = errors.New("❌ container is locked by another update")
	ErrTransactionEnded = errors.New("❌ resource transaction already ended")

	// Allocation errors 🔢
	ErrIdentifierRange = errors.New("❌ resource identifier out of range")
	ErrEmptyPayload    = errors.New("❌ empty resource payload")

	// Platform errors 🪟
	ErrNativeUnsupported = errors.New("❌ native resource update is only supported on Windows")
)

// platformDetail formats err, adding the numeric code of a system error.
func platformDetail(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return fmt.Sprintf("%v (code %d)", err, uint64(errno))
	}
	return err.Error()
}

// ContainerOpenError reports a failed Begin.
type ContainerOpenError struct {
	Path string
	Err  error
}

func (e *ContainerOpenError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrContainerOpen, e.Path, platformDetail(e.Err))
}

func (e *ContainerOpenError) Unwrap() []error { return []error{ErrContainerOpen, e.Err} }

// ResourceWriteError reports a failed Update for one identifier. The
// transaction it belonged to has been discarded.
type ResourceWriteError struct {
	Path string
	ID   uint16
	Err  error
}

func (e *ResourceWriteError) Error() string {
	return fmt.Sprintf("%v: %s: bitmap %d: %s", ErrResourceWrite, e.Path, e.ID, platformDetail(e.Err))
}

func (e *ResourceWriteError) Unwrap() []error { return []error{ErrResourceWrite, e.Err} }

// ResourceCommitError reports a failed Commit. None of the transaction's
// updates may be assumed to have reached the container.
type ResourceCommitError struct {
	Path string
	Err  error
}

func (e *ResourceCommitError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrResourceCommit, e.Path, platformDetail(e.Err))
}

func (e *ResourceCommitError) Unwrap() []error { return []error{ErrResourceCommit, e.Err} }
