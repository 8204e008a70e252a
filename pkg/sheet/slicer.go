// Package sheet cuts sprite frames out of a packed sheet image and encodes
// them as bitmap resource payloads.
package sheet

import (
	"image"
	"image/color"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/image/draw"
)

// Frame is one cropped sprite.
type Frame struct {
	Index  int
	Cell   Cell
	Extra  bool
	Bounds image.Rectangle // source rectangle on the sheet
	Image  *image.RGBA     // fully opaque copy of Bounds
	DIB    []byte          // RT_BITMAP payload
}

// Slicer cuts frames from sheets according to a grid and layout.
type Slicer struct {
	Grid   GridSpec
	Layout Layout
	Logger hclog.Logger
}

// NewSlicer returns a Slicer. A nil logger discards output.
func NewSlicer(grid GridSpec, layout Layout, logger hclog.Logger) *Slicer {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Slicer{Grid: grid, Layout: layout, Logger: logger}
}

// Rects returns the source rectangles of every frame in output order,
// without touching pixels. The extra rectangle, when set, is last.
func (s *Slicer) Rects() ([]Cell, []image.Rectangle) {
	g := s.Grid
	stepX := g.FrameWidth + g.GapX
	stepY := g.FrameHeight + g.GapY

	var cells []Cell
	var rects []image.Rectangle
	rows := s.Layout.rowLimit(g)
	for r := 0; r < rows; r++ {
		for c := 0; c < g.Cols; c++ {
			cell := Cell{Row: r, Col: c}
			if s.Layout.StopCells[cell] {
				break
			}
			sz := s.Layout.frameSize(cell, g)
			x := g.OriginX + c*stepX
			y := g.OriginY + r*stepY
			cells = append(cells, cell)
			rects = append(rects, image.Rect(x, y, x+sz.X, y+sz.Y))
		}
	}
	if !s.Layout.Extra.Empty() {
		cells = append(cells, Cell{Row: -1, Col: -1})
		rects = append(rects, s.Layout.Extra)
	}
	return cells, rects
}

// Slice cuts every frame out of img. All rectangles are checked against the
// sheet before any frame is encoded.
func (s *Slicer) Slice(img image.Image) ([]Frame, error) {
	if err := s.Grid.Validate(); err != nil {
		return nil, err
	}

	cells, rects := s.Rects()
	bounds := img.Bounds()
	for _, r := range rects {
		if !r.In(bounds) {
			return nil, &ImageBoundsError{Rect: r, Bounds: bounds}
		}
	}

	s.Logger.Debug("Slicing sheet",
		"sheet", bounds.Size(),
		"grid", s.Grid,
		"exceptions", s.Layout.Describe(),
		"frames", len(rects))

	frames := make([]Frame, 0, len(rects))
	for i, r := range rects {
		rgb := toRGB(img, r)
		dib, err := EncodeDIB(rgb)
		if err != nil {
			return nil, err
		}
		f := Frame{
			Index:  i,
			Cell:   cells[i],
			Extra:  cells[i].Row < 0,
			Bounds: r,
			Image:  rgb,
			DIB:    dib,
		}
		s.Logger.Trace("Cut frame", "index", i, "cell", f.Cell, "rect", r, "dib_size", len(dib))
		frames = append(frames, f)
	}

	s.Logger.Info("Sliced sheet", "frames", len(frames))
	return frames, nil
}

// Slice cuts img with the given grid and layout.
func Slice(img image.Image, grid GridSpec, layout Layout) ([]Frame, error) {
	return NewSlicer(grid, layout, nil).Slice(img)
}

// toRGB copies r out of src into a new opaque image at the origin. The
// alpha channel is dropped, not composited: straight colour values are kept.
func toRGB(src image.Image, r image.Rectangle) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
	if o, ok := src.(interface{ Opaque() bool }); ok && o.Opaque() {
		draw.Draw(dst, dst.Bounds(), src, r.Min, draw.Src)
		return dst
	}

	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			c := color.NRGBAModel.Convert(src.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
			dst.SetRGBA(x, y, color.RGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return dst
}
