// Package resources reads and rewrites the bitmap resources of Windows PE
// containers.
package resources

const (
	// TypeBitmap is RT_BITMAP.
	TypeBitmap uint16 = 2
	// LangEnUS is the U.S. English language identifier (0x0409).
	LangEnUS uint16 = 0x0409
)

// Updater opens resource-update transactions on container files.
type Updater interface {
	// Begin opens path for an exclusive resource update. Existing
	// resources are kept unless replaced.
	Begin(path string) (Transaction, error)
}

// Transaction stages resource changes for one container. Exactly one of
// Commit or Discard ends it.
type Transaction interface {
	// Update adds or replaces the resource (typeID, resID, langID).
	Update(typeID, resID, langID uint16, data []byte) error
	// Commit writes all staged updates to the container in one step.
	Commit() error
	// Discard drops all staged updates and leaves the container untouched.
	Discard() error
}

// Directory lists the bitmap identifiers already present in a container.
type Directory interface {
	BitmapIDs(path string) ([]uint16, error)
}

// MaxID returns the largest identifier in ids, or 0 when ids is empty.
func MaxID(ids []uint16) uint16 {
	var highest uint16
	for _, id := range ids {
		if id > highest {
			highest = id
		}
	}
	return highest
}
