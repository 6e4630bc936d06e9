// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "testing"

// buildLibrary wraps a single member object in a minimal library
// container.
func buildLibrary(t *testing.T, member []byte) []byte {
	t.Helper()

	const headerSize = 28
	const recordSize = 20

	fileName := "add.c"
	nameOffset := headerSize + recordSize
	dataOffset := nameOffset + len(fileName) + 1

	header := make([]byte, headerSize)
	binaryPutU32(header, 0, libMagic)
	binaryPutU32(header, 4, uint32(ProcessorM68K))
	binaryPutU32(header, 8, 0) // flags
	binaryPutU32(header, 12, 2) // version
	binaryPutU32(header, 16, uint32(len(member))) // code_size (advisory)
	binaryPutU32(header, 20, 0)                    // data_size (advisory)
	binaryPutU32(header, 24, 1)                    // num_files

	record := make([]byte, recordSize)
	binaryPutU32(record, 0, 0x1234)           // moddate
	binaryPutU32(record, 4, uint32(nameOffset)) // filename_ptr
	binaryPutU32(record, 8, 0)                  // fullpath_ptr (none)
	binaryPutU32(record, 12, uint32(dataOffset)) // data_start
	binaryPutU32(record, 16, uint32(len(member))) // data_size

	var data []byte
	data = append(data, header...)
	data = append(data, record...)
	data = append(data, []byte(fileName)...)
	data = append(data, 0)
	data = append(data, member...)
	return data
}

func TestDecodeLibraryRoundTrip(t *testing.T) {
	obj := buildObject(t)
	lib := buildLibrary(t, obj)

	l, err := DecodeLibrary(lib)
	if err != nil {
		t.Fatalf("DecodeLibrary: %v", err)
	}
	if l.Processor != ProcessorM68K {
		t.Fatalf("Processor = %v, want M68K", l.Processor)
	}
	if l.Version != 2 {
		t.Fatalf("Version = %d, want 2", l.Version)
	}
	if len(l.Members) != 1 {
		t.Fatalf("len(Members) = %d, want 1", len(l.Members))
	}
	m := l.Members[0]
	if m.FileName != "add.c" {
		t.Fatalf("FileName = %q, want %q", m.FileName, "add.c")
	}
	if m.FullPath != "" {
		t.Fatalf("FullPath = %q, want empty", m.FullPath)
	}

	if m.Object == nil {
		t.Fatal("Object = nil, want decoded object")
	}
	if len(m.Object.Hunks) != 3 {
		t.Fatalf("member hunks = %d, want 3", len(m.Object.Hunks))
	}
}

func TestDecodeLibraryBadMagic(t *testing.T) {
	lib := buildLibrary(t, buildObject(t))
	lib[0] = 0
	_, err := DecodeLibrary(lib)
	if err != ErrBadLibMagic {
		t.Fatalf("err = %v, want ErrBadLibMagic", err)
	}
}

func TestDecodeLibraryBadProcessor(t *testing.T) {
	lib := buildLibrary(t, buildObject(t))
	binaryPutU32(lib, 4, 0xDEADBEEF)
	_, err := DecodeLibrary(lib)
	if err != ErrBadLibVersionForProcessor {
		t.Fatalf("err = %v, want ErrBadLibVersionForProcessor", err)
	}
}

func TestDecodeLibraryZeroFiles(t *testing.T) {
	header := make([]byte, 28)
	binaryPutU32(header, 0, libMagic)
	binaryPutU32(header, 4, uint32(ProcessorPowerPC))
	binaryPutU32(header, 8, 0)
	binaryPutU32(header, 12, 1)
	binaryPutU32(header, 16, 0)
	binaryPutU32(header, 20, 0)
	binaryPutU32(header, 24, 0) // num_files = 0

	l, err := DecodeLibrary(header)
	if err != nil {
		t.Fatalf("DecodeLibrary: %v", err)
	}
	if len(l.Members) != 0 {
		t.Fatalf("Members = %+v, want empty", l.Members)
	}
}
