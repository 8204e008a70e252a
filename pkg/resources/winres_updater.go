package resources

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
	"github.com/tc-hib/winres"
)

// WinresUpdater rewrites PE resource sections in pure Go. It works on every
// platform and preserves every resource it does not replace.
type WinresUpdater struct {
	Logger hclog.Logger
}

// NewWinresUpdater returns a WinresUpdater. A nil logger discards output.
func NewWinresUpdater(logger hclog.Logger) *WinresUpdater {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &WinresUpdater{Logger: logger}
}

// Begin locks path and loads its current resources.
//
// The lock is held until Commit or Discard. A container without a resource
// directory starts from an empty set; one that is not a PE image fails with
// ErrNotPE.
func (u *WinresUpdater) Begin(path string) (Transaction, error) {
	lock, err := acquireLock(path, u.Logger)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		lock.release()
		return nil, err
	}
	rs, err := loadResourceSet(f)
	f.Close()
	if err != nil {
		lock.release()
		return nil, err
	}

	u.Logger.Debug("Loaded existing resources", "container", path, "bitmaps", len(bitmapIDs(rs)))
	return &winresTx{path: path, rs: rs, lock: lock, logger: u.Logger}, nil
}

type winresTx struct {
	path   string
	rs     *winres.ResourceSet
	lock   *containerLock
	logger hclog.Logger
	staged int
	ended  bool
}

func (tx *winresTx) Update(typeID, resID, langID uint16, data []byte) error {
	if tx.ended {
		return ErrTransactionEnded
	}
	if err := tx.rs.Set(winres.ID(typeID), winres.ID(resID), langID, data); err != nil {
		return err
	}
	tx.staged++
	return nil
}

func (tx *winresTx) Discard() error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.ended = true
	tx.lock.release()
	tx.logger.Debug("Discarded resource transaction", "container", tx.path, "staged", tx.staged)
	return nil
}

// Commit writes the rebuilt image next to the container and swaps it in.
//
// The image goes to a uniquely named temporary file in the container's
// directory, so leftovers of an interrupted run never block a later commit.
// The container is untouched unless the swap succeeds; the temporary file is
// removed on every failure path.
func (tx *winresTx) Commit() error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.ended = true
	defer tx.lock.release()

	// Step 1: write the rebuilt image beside the container.
	tmpPath, err := tx.writeImage()
	if err != nil {
		return err
	}

	// Step 2: swap it in.
	if err := atomicReplace(tmpPath, tx.path, tx.logger); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace container: %w", err)
	}

	tx.logger.Debug("Committed resource transaction", "container", tx.path, "staged", tx.staged)
	return nil
}

// writeImage writes the container with the staged resources to a new
// temporary file and returns its path. The file carries the container's
// permission bits.
func (tx *winresTx) writeImage() (string, error) {
	src, err := os.Open(tx.path)
	if err != nil {
		return "", fmt.Errorf("failed to reopen container: %w", err)
	}
	defer src.Close()

	info, err := src.Stat()
	if err != nil {
		return "", err
	}

	dst, err := os.CreateTemp(filepath.Dir(tx.path), filepath.Base(tx.path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary output file: %w", err)
	}
	tmpPath := dst.Name()
	fail := func(format string, err error) (string, error) {
		dst.Close()
		os.Remove(tmpPath)
		return "", fmt.Errorf(format, err)
	}

	if err := dst.Chmod(info.Mode().Perm()); err != nil {
		return fail("failed to set temporary file mode: %w", err)
	}
	if err := tx.rs.WriteToEXE(dst, src); err != nil {
		return fail("failed to write resources: %w", err)
	}
	if err := dst.Sync(); err != nil {
		return fail("failed to sync temporary output file: %w", err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("failed to close temporary output file: %w", err)
	}
	return tmpPath, nil
}
