package sheet

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"image"

	"golang.org/x/image/bmp"
)

const (
	// FileHeaderSize is the BITMAPFILEHEADER that RT_BITMAP payloads omit.
	FileHeaderSize = 14
	// InfoHeaderSize is the BITMAPINFOHEADER that starts every payload.
	InfoHeaderSize = 40
)

// EncodeDIB encodes img as a 24-bit bottom-up bitmap and returns it without
// the file header, as RT_BITMAP resources store it. img must be opaque.
func EncodeDIB(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode bitmap: %w", err)
	}
	data := buf.Bytes()
	if len(data) < FileHeaderSize+InfoHeaderSize {
		return nil, fmt.Errorf("bitmap encoder produced %d bytes", len(data))
	}
	return data[FileHeaderSize:], nil
}

// DIBInfo is the subset of BITMAPINFOHEADER needed to check a payload.
type DIBInfo struct {
	HeaderSize uint32
	Width      int32
	Height     int32
	Planes     uint16
	BitCount   uint16
}

// ParseDIBInfo reads the header at the start of a payload.
func ParseDIBInfo(dib []byte) (DIBInfo, error) {
	var info DIBInfo
	if len(dib) < InfoHeaderSize {
		return info, fmt.Errorf("payload too short for bitmap header: %d bytes", len(dib))
	}
	if err := binary.Read(bytes.NewReader(dib[:16]), binary.LittleEndian, &info); err != nil {
		return info, err
	}
	return info, nil
}

// StrideOf is the padded row length of a 24-bit bitmap width pixels wide.
func StrideOf(width int) int {
	return (3*width + 3) &^ 3
}
