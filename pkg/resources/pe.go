package resources

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"fmt"
	"io"
)

var peSignature = []byte{'P', 'E', 0, 0}

// peHeaderOffset validates the DOS stub and PE signature at the start of r
// and returns the offset of the PE signature (e_lfanew).
func peHeaderOffset(r io.ReaderAt) (int64, error) {
	var dos [0x40]byte
	if _, err := r.ReadAt(dos[:], 0); err != nil {
		return 0, fmt.Errorf("%w: file too short for a DOS header", ErrNotPE)
	}
	if dos[0] != 'M' || dos[1] != 'Z' {
		return 0, fmt.Errorf("%w: missing MZ signature", ErrNotPE)
	}

	offset := int64(binary.LittleEndian.Uint32(dos[0x3C:0x40]))
	var sig [4]byte
	if _, err := r.ReadAt(sig[:], offset); err != nil {
		return 0, fmt.Errorf("%w: no PE header at offset 0x%x", ErrNotPE, offset)
	}
	if !bytes.Equal(sig[:], peSignature) {
		return 0, fmt.Errorf("%w: invalid PE signature at offset 0x%x: %v", ErrNotPE, offset, sig)
	}
	return offset, nil
}

// hasResourceDirectory reports whether the image declares a resource data
// directory. Images without one have no resources at all.
func hasResourceDirectory(r io.ReaderAt) (bool, error) {
	if _, err := peHeaderOffset(r); err != nil {
		return false, err
	}

	f, err := pe.NewFile(r)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrNotPE, err)
	}

	var dir pe.DataDirectory
	switch oh := f.OptionalHeader.(type) {
	case *pe.OptionalHeader32:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return false, nil
		}
		dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE]
	case *pe.OptionalHeader64:
		if oh.NumberOfRvaAndSizes <= pe.IMAGE_DIRECTORY_ENTRY_RESOURCE {
			return false, nil
		}
		dir = oh.DataDirectory[pe.IMAGE_DIRECTORY_ENTRY_RESOURCE]
	default:
		return false, fmt.Errorf("%w: missing optional header", ErrNotPE)
	}
	return dir.VirtualAddress != 0 && dir.Size != 0, nil
}
