package resources

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

const (
	fixtureFileAlign    = 0x200
	fixtureSectionAlign = 0x1000
)

// writeFixturePE writes a minimal x64 PE image with a single .text section
// and no resource directory, and returns its path.
func writeFixturePE(t *testing.T, name string) string {
	t.Helper()

	var buf bytes.Buffer
	dos := make([]byte, 0x40)
	dos[0], dos[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(dos[0x3C:], 0x40)
	buf.Write(dos)
	buf.Write(peSignature)

	oh := pe.OptionalHeader64{
		Magic:                       0x20b,
		MajorLinkerVersion:          14,
		SizeOfCode:                  fixtureFileAlign,
		AddressOfEntryPoint:         fixtureSectionAlign,
		BaseOfCode:                  fixtureSectionAlign,
		ImageBase:                   0x140000000,
		SectionAlignment:            fixtureSectionAlign,
		FileAlignment:               fixtureFileAlign,
		MajorOperatingSystemVersion: 6,
		MajorSubsystemVersion:       6,
		SizeOfImage:                 2 * fixtureSectionAlign,
		SizeOfHeaders:               fixtureFileAlign,
		Subsystem:                   pe.IMAGE_SUBSYSTEM_WINDOWS_GUI,
		SizeOfStackReserve:          0x100000,
		SizeOfStackCommit:           0x1000,
		SizeOfHeapReserve:           0x100000,
		SizeOfHeapCommit:            0x1000,
		NumberOfRvaAndSizes:         16,
	}
	fh := pe.FileHeader{
		Machine:              pe.IMAGE_FILE_MACHINE_AMD64,
		NumberOfSections:     1,
		SizeOfOptionalHeader: uint16(binary.Size(oh)),
		Characteristics:      pe.IMAGE_FILE_EXECUTABLE_IMAGE | pe.IMAGE_FILE_LARGE_ADDRESS_AWARE,
	}
	text := pe.SectionHeader32{
		Name:             [8]uint8{'.', 't', 'e', 'x', 't'},
		VirtualSize:      0x10,
		VirtualAddress:   fixtureSectionAlign,
		SizeOfRawData:    fixtureFileAlign,
		PointerToRawData: fixtureFileAlign,
		Characteristics:  pe.IMAGE_SCN_CNT_CODE | pe.IMAGE_SCN_MEM_EXECUTE | pe.IMAGE_SCN_MEM_READ,
	}

	for _, v := range []interface{}{fh, oh, text} {
		if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
			t.Fatalf("failed to write PE header: %v", err)
		}
	}
	buf.Write(make([]byte, fixtureFileAlign-buf.Len()))

	code := make([]byte, fixtureFileAlign)
	code[0] = 0xC3 // ret
	buf.Write(code)

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}
