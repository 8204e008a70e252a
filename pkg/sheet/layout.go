package sheet

import (
	"fmt"
	"image"
	"sort"
)

// GridSpec describes the regular frame grid of a sheet.
type GridSpec struct {
	FrameWidth  int
	FrameHeight int
	OriginX     int
	OriginY     int
	GapX        int
	GapY        int
	Rows        int
	Cols        int
}

// DefaultGrid is the grid of the reference character sheet.
func DefaultGrid() GridSpec {
	return GridSpec{
		FrameWidth:  34,
		FrameHeight: 77,
		OriginX:     1,
		OriginY:     1,
		GapX:        1,
		GapY:        1,
		Rows:        4,
		Cols:        6,
	}
}

// Validate checks that every value is non-negative and the frame is non-empty.
func (g GridSpec) Validate() error {
	if g.FrameWidth <= 0 || g.FrameHeight <= 0 {
		return fmt.Errorf("%w: frame size %dx%d", ErrInvalidGrid, g.FrameWidth, g.FrameHeight)
	}
	for name, v := range map[string]int{
		"origin x": g.OriginX, "origin y": g.OriginY,
		"gap x": g.GapX, "gap y": g.GapY,
		"rows": g.Rows, "cols": g.Cols,
	} {
		if v < 0 {
			return fmt.Errorf("%w: %s is %d", ErrInvalidGrid, name, v)
		}
	}
	return nil
}

// Cells is the number of cells the grid nominally holds.
func (g GridSpec) Cells() int {
	return g.Rows * g.Cols
}

// Cell addresses one grid position.
type Cell struct {
	Row int
	Col int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.Row, c.Col)
}

// Layout holds the positional exceptions of one sheet variant.
type Layout struct {
	// StopCells end their row: neither the cell nor any later cell in the
	// same row produces a frame.
	StopCells map[Cell]bool
	// SizeOverrides replace the grid frame size for individual cells.
	SizeOverrides map[Cell]image.Point
	// MaxRows caps how many grid rows are read, counting from row 0. Zero
	// reads every configured row, so a zero Layout slices the plain grid.
	MaxRows int
	// Extra is cropped after the grid and appended as the final frame.
	Extra image.Rectangle
}

// DefaultLayout is the layout of the reference character sheet: the row 3
// walk frame at column 4 is smaller than its cell, column 5 of that row is
// empty, and the trailing 44x39 frame sits below the grid.
func DefaultLayout() Layout {
	return Layout{
		StopCells: map[Cell]bool{
			{Row: 3, Col: 5}: true,
		},
		SizeOverrides: map[Cell]image.Point{
			{Row: 3, Col: 4}: {X: 49, Y: 74},
		},
		MaxRows: 4,
		Extra:   image.Rect(141, 311, 141+44, 311+39),
	}
}

// rowLimit is the number of rows read from g.
func (l Layout) rowLimit(g GridSpec) int {
	if l.MaxRows > 0 && l.MaxRows < g.Rows {
		return l.MaxRows
	}
	return g.Rows
}

// frameSize returns the size of the frame cut at c.
func (l Layout) frameSize(c Cell, g GridSpec) image.Point {
	if sz, ok := l.SizeOverrides[c]; ok {
		return sz
	}
	return image.Pt(g.FrameWidth, g.FrameHeight)
}

// Describe lists the exceptions in a stable order, for logging.
func (l Layout) Describe() []string {
	var out []string
	for c := range l.StopCells {
		out = append(out, fmt.Sprintf("stop %v", c))
	}
	for c, sz := range l.SizeOverrides {
		out = append(out, fmt.Sprintf("size %v=%dx%d", c, sz.X, sz.Y))
	}
	sort.Strings(out)
	if l.MaxRows > 0 {
		out = append(out, fmt.Sprintf("max rows %d", l.MaxRows))
	}
	if !l.Extra.Empty() {
		out = append(out, fmt.Sprintf("extra %v", l.Extra))
	}
	return out
}
