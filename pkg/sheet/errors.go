package sheet

import (
	"errors"
	"fmt"
	"image"
)

var (
	// Sheet errors 🖼
	ErrImageBounds       = errors.New("❌ crop rectangle outside sheet bounds")
	ErrUnsupportedFormat = errors.New("❌ unsupported sheet image format")
	ErrInvalidGrid       = errors.New("❌ invalid grid specification")
)

// ImageBoundsError reports a crop rectangle that does not fit the sheet.
type ImageBoundsError struct {
	Rect   image.Rectangle
	Bounds image.Rectangle
}

func (e *ImageBoundsError) Error() string {
	return fmt.Sprintf("%v: crop %v, sheet %v", ErrImageBounds, e.Rect, e.Bounds)
}

func (e *ImageBoundsError) Unwrap() error { return ErrImageBounds }

// UnsupportedFormatError reports a sheet that cannot be decoded into pixels.
type UnsupportedFormatError struct {
	Path string
	Err  error
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("%v: %s: %v", ErrUnsupportedFormat, e.Path, e.Err)
}

func (e *UnsupportedFormatError) Unwrap() []error {
	return []error{ErrUnsupportedFormat, e.Err}
}
