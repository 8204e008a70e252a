package resources

import (
	"fmt"
	"math"

	"github.com/hashicorp/go-hclog"
)

// AllocateIDs returns the n identifiers starting at start. Identifiers are
// 16-bit ordinals and 0 is not addressable.
func AllocateIDs(start uint16, n int) ([]uint16, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrIdentifierRange, n)
	}
	if n == 0 {
		return []uint16{}, nil
	}
	if start == 0 {
		return nil, fmt.Errorf("%w: identifiers start at 1", ErrIdentifierRange)
	}
	if last := int(start) + n - 1; last > math.MaxUint16 {
		return nil, fmt.Errorf("%w: %d bitmaps from %d end at %d", ErrIdentifierRange, n, start, last)
	}

	ids := make([]uint16, n)
	for i := range ids {
		ids[i] = start + uint16(i)
	}
	return ids, nil
}

// Injector registers bitmap payloads in containers through an Updater.
type Injector struct {
	Updater Updater
	Logger  hclog.Logger
	Lang    uint16
}

// NewInjector returns an Injector writing U.S. English bitmaps.
func NewInjector(u Updater, logger hclog.Logger) *Injector {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Injector{Updater: u, Logger: logger, Lang: LangEnUS}
}

// Inject stores payloads as RT_BITMAP resources in the container at path.
//
// Parameters:
//   - path: PE container to update in place
//   - payloads: DIB payloads, one per bitmap, in identifier order
//   - start: identifier of the first payload; the rest follow consecutively
//
// Returns the identifiers used. Either every payload is committed or none
// is: a failed Update discards the whole transaction.
func (in *Injector) Inject(path string, payloads [][]byte, start uint16) ([]uint16, error) {
	// Step 1: allocate identifiers before opening anything.
	ids, err := AllocateIDs(start, len(payloads))
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		in.Logger.Debug("No bitmaps to inject", "container", path)
		return ids, nil
	}

	in.Logger.Info("Injecting bitmaps",
		"container", path,
		"count", len(ids),
		"first_id", ids[0],
		"last_id", ids[len(ids)-1])

	// Step 2: open the transaction and stage every payload.
	tx, err := in.Updater.Begin(path)
	if err != nil {
		return nil, &ContainerOpenError{Path: path, Err: err}
	}

	for i, id := range ids {
		data := payloads[i]
		if len(data) == 0 {
			err = ErrEmptyPayload
		} else {
			err = tx.Update(TypeBitmap, id, in.Lang, data)
		}
		if err != nil {
			if dErr := tx.Discard(); dErr != nil {
				in.Logger.Warn("Failed to discard resource transaction", "container", path, "error", dErr)
			}
			return nil, &ResourceWriteError{Path: path, ID: id, Err: err}
		}
		in.Logger.Trace("Staged bitmap", "id", id, "size", len(data))
	}

	// Step 3: commit; the container changes only here.
	if err := tx.Commit(); err != nil {
		return nil, &ResourceCommitError{Path: path, Err: err}
	}

	in.Logger.Info("✅ Committed bitmaps", "container", path, "ids", ids)
	return ids, nil
}

// Inject is a convenience wrapper around Injector.Inject.
func Inject(u Updater, path string, payloads [][]byte, start uint16, logger hclog.Logger) ([]uint16, error) {
	return NewInjector(u, logger).Inject(path, payloads, start)
}
