package resources

import (
	"fmt"
	"sort"
	"sync"
)

// Key addresses one resource entry.
type Key struct {
	Type uint16
	ID   uint16
	Lang uint16
}

// MemoryUpdater keeps resource tables in memory, keyed by container path.
// It backs dry runs and tests; no file is read or written.
type MemoryUpdater struct {
	mu     sync.Mutex
	tables map[string]map[Key][]byte
	open   map[string]bool
}

// NewMemoryUpdater returns an empty MemoryUpdater.
func NewMemoryUpdater() *MemoryUpdater {
	return &MemoryUpdater{
		tables: make(map[string]map[Key][]byte),
		open:   make(map[string]bool),
	}
}

// Seed records existing U.S. English bitmaps in the table of path.
func (m *MemoryUpdater) Seed(path string, ids ...uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.table(path)
	for _, id := range ids {
		t[Key{Type: TypeBitmap, ID: id, Lang: LangEnUS}] = []byte{}
	}
}

// Get returns a committed resource.
func (m *MemoryUpdater) Get(path string, k Key) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tables[path][k]
	return data, ok
}

// BitmapIDs implements Directory over the committed tables.
func (m *MemoryUpdater) BitmapIDs(path string) ([]uint16, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[uint16]bool)
	ids := []uint16{}
	for k := range m.tables[path] {
		if k.Type == TypeBitmap && !seen[k.ID] {
			seen[k.ID] = true
			ids = append(ids, k.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Begin implements Updater. Only one transaction per path may be open.
func (m *MemoryUpdater) Begin(path string) (Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.open[path] {
		return nil, fmt.Errorf("%w: %s", ErrContainerLocked, path)
	}
	m.open[path] = true
	return &memoryTx{m: m, path: path, staged: make(map[Key][]byte)}, nil
}

func (m *MemoryUpdater) table(path string) map[Key][]byte {
	t, ok := m.tables[path]
	if !ok {
		t = make(map[Key][]byte)
		m.tables[path] = t
	}
	return t
}

type memoryTx struct {
	m      *MemoryUpdater
	path   string
	staged map[Key][]byte
	ended  bool
}

func (tx *memoryTx) Update(typeID, resID, langID uint16, data []byte) error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.staged[Key{Type: typeID, ID: resID, Lang: langID}] = append([]byte(nil), data...)
	return nil
}

func (tx *memoryTx) Commit() error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.ended = true

	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()
	t := tx.m.table(tx.path)
	for k, v := range tx.staged {
		t[k] = v
	}
	delete(tx.m.open, tx.path)
	return nil
}

func (tx *memoryTx) Discard() error {
	if tx.ended {
		return ErrTransactionEnded
	}
	tx.ended = true

	tx.m.mu.Lock()
	defer tx.m.mu.Unlock()
	delete(tx.m.open, tx.path)
	return nil
}
