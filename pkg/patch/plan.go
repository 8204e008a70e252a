// Package patch slices a sprite sheet and distributes its frames over two
// resource containers.
package patch

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/provide-io/egfpatch/pkg/resources"
	"github.com/provide-io/egfpatch/pkg/sheet"
)

const (
	// PrimaryShare caps the default number of frames sent to the first
	// container.
	PrimaryShare = 22
	// AutoFirstCount selects DefaultFirstCount.
	AutoFirstCount = -1

	DefaultPrimaryGap   = 29
	DefaultSecondaryGap = 1
	outputSuffix        = "_updated"
)

// DefaultFirstCount is min(rows*cols, 22).
func DefaultFirstCount(grid sheet.GridSpec) int {
	return min(grid.Cells(), PrimaryShare)
}

// NextID returns the first identifier to allocate after existing, leaving
// gap-1 unused identifiers in between.
func NextID(existing []uint16, gap int) (uint16, error) {
	if gap < 0 {
		return 0, fmt.Errorf("%w: negative gap %d", resources.ErrIdentifierRange, gap)
	}
	next := int(resources.MaxID(existing)) + gap
	if next > math.MaxUint16 {
		return 0, fmt.Errorf("%w: next identifier %d", resources.ErrIdentifierRange, next)
	}
	return uint16(next), nil
}

// Split returns the first n payloads and the rest. n is clamped to the
// payload count.
func Split(payloads [][]byte, n int) (first, rest [][]byte) {
	n = max(0, min(n, len(payloads)))
	return payloads[:n], payloads[n:]
}

// DefaultOutput derives "<name>_updated<ext>" next to path.
func DefaultOutput(path string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(filepath.Base(path), ext)
	if ext == "" {
		ext = ".egf"
	}
	return filepath.Join(filepath.Dir(path), base+outputSuffix+ext)
}
