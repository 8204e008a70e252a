package resources

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/tc-hib/winres"
)

// PEDirectory reads bitmap identifiers from PE files on disk.
type PEDirectory struct{}

// BitmapIDs implements Directory.
func (PEDirectory) BitmapIDs(path string) ([]uint16, error) {
	return BitmapIDs(path)
}

// BitmapIDs returns the numeric RT_BITMAP identifiers of the PE at path in
// ascending order. Named bitmaps are ignored. A PE without a resource
// directory has none.
func BitmapIDs(path string) ([]uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open container: %w", err)
	}
	defer f.Close()

	rs, err := loadResourceSet(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bitmapIDs(rs), nil
}

// loadResourceSet reads every resource of the PE in f. A PE without a
// resource directory yields an empty set.
func loadResourceSet(f io.ReadSeeker) (*winres.ResourceSet, error) {
	ra, ok := f.(io.ReaderAt)
	if !ok {
		return nil, fmt.Errorf("container reader does not support random access")
	}
	has, err := hasResourceDirectory(ra)
	if err != nil {
		return nil, err
	}
	if !has {
		return &winres.ResourceSet{}, nil
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	rs, err := winres.LoadFromEXE(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read resource directory: %w", err)
	}
	return rs, nil
}

func bitmapIDs(rs *winres.ResourceSet) []uint16 {
	seen := make(map[uint16]bool)
	ids := []uint16{}
	rs.WalkType(winres.RT_BITMAP, func(resID winres.Identifier, langID uint16, data []byte) bool {
		if id, ok := resID.(winres.ID); ok && !seen[uint16(id)] {
			seen[uint16(id)] = true
			ids = append(ids, uint16(id))
		}
		return true
	})
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
