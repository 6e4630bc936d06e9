// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "testing"

// buildObject assembles a minimal, well-formed object buffer: a
// 64-byte header, a two-entry name table, no symbol table, and a
// three-hunk code stream (Start, GlobalCode, End) whose code_size
// matches the header's declared code_size.
func buildObject(t *testing.T) []byte {
	t.Helper()

	code := []byte{0x4E, 0x75} // rts
	var hunks []byte
	hunks = append(hunks, hunkTag(HunkStart)...)
	hunks = append(hunks, hunkTag(HunkGlobalCode)...)
	hunks = append(hunks, be32(1)...)                  // name_id
	hunks = append(hunks, be32(uint32(len(code)))...)  // size
	hunks = append(hunks, be32(0x80000000)...)         // sym_offset (none)
	hunks = append(hunks, be32(0)...)                  // sym_decl_offset
	hunks = append(hunks, code...)
	hunks = append(hunks, hunkTag(HunkEnd)...)

	var names []byte
	for _, n := range []string{"add", "a"} {
		names = append(names, be16(nametableHash(n))...)
		names = append(names, []byte(n)...)
		names = append(names, 0)
	}

	const headerSize = 64
	nameTableOffset := headerSize + len(hunks)

	header := make([]byte, headerSize)
	binaryPutU32(header, 0, objMagic)
	binaryPutU16(header, 4, 0) // version
	binaryPutU16(header, 6, uint16(ObjFlagCFM))
	binaryPutU32(header, 8, uint32(len(hunks)))         // obj_size
	binaryPutU32(header, 12, uint32(nameTableOffset))   // nametable_offset
	binaryPutU32(header, 16, uint32(len([]string{"add", "a"})+1)) // nametable_count
	binaryPutU32(header, 20, 0) // symtable_offset
	binaryPutU32(header, 24, 0) // symtable_size
	binaryPutU32(header, 28, 0) // reserved1
	binaryPutU32(header, 32, uint32(len(code))) // code_size
	binaryPutU32(header, 36, 0)                 // udata_size
	binaryPutU32(header, 40, 0)                 // idata_size
	// bytes 44..56 (version fields) left zero
	// bytes 56..64 (tail flags) left zero

	var data []byte
	data = append(data, header...)
	data = append(data, hunks...)
	data = append(data, names...)
	return data
}

func binaryPutU32(b []byte, offset int, v uint32) {
	copy(b[offset:offset+4], be32(v))
}

func binaryPutU16(b []byte, offset int, v uint16) {
	copy(b[offset:offset+2], be16(v))
}

func TestDecodeObjectRoundTrip(t *testing.T) {
	data := buildObject(t)
	obj, err := DecodeObject(data)
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if len(obj.Names) != 2 || obj.Names[0].Name != "add" || obj.Names[1].Name != "a" {
		t.Fatalf("Names = %+v", obj.Names)
	}
	if len(obj.Hunks) != 3 {
		t.Fatalf("len(Hunks) = %d, want 3", len(obj.Hunks))
	}
	if !obj.Header.Flags.Has(ObjFlagCFM) {
		t.Fatal("Flags does not carry CFM bit")
	}
	name, ok := obj.LookupName(1)
	if !ok || name != "add" {
		t.Fatalf("LookupName(1) = (%q, %v), want (\"add\", true)", name, ok)
	}
}

func TestDecodeObjectBadMagic(t *testing.T) {
	data := buildObject(t)
	data[0] = 0
	_, err := DecodeObject(data)
	if err != ErrBadObjMagic {
		t.Fatalf("err = %v, want ErrBadObjMagic", err)
	}
}

func TestDecodeObjectBadVersion(t *testing.T) {
	data := buildObject(t)
	binaryPutU16(data, 4, 1)
	_, err := DecodeObject(data)
	if err != ErrBadObjVersion {
		t.Fatalf("err = %v, want ErrBadObjVersion", err)
	}
}

func TestDecodeObjectSizeCrossCheckFailed(t *testing.T) {
	data := buildObject(t)
	binaryPutU32(data, 32, 999) // declare a code_size that disagrees with the hunk stream
	_, err := DecodeObject(data)
	if err == nil {
		t.Fatal("expected SizeCrossCheckFailed, got nil")
	}
	if _, ok := err.(*SizeCrossCheckFailed); !ok {
		t.Fatalf("expected *SizeCrossCheckFailed, got %T", err)
	}
}

func TestDecodeObjectNameHashMismatch(t *testing.T) {
	data := buildObject(t)
	// Corrupt the first name table entry's stored hash.
	const headerSize = 64
	var hunksLen int
	{
		// recompute hunks length the same way buildObject does.
		code := []byte{0x4E, 0x75}
		hunksLen = 2 + 2 + 4 + 4 + 4 + 4 + len(code) + 2
	}
	nameTableOffset := headerSize + hunksLen
	data[nameTableOffset] = 0xFF
	data[nameTableOffset+1] = 0xFF

	_, err := DecodeObject(data)
	if err == nil {
		t.Fatal("expected NameHashMismatch, got nil")
	}
	if _, ok := err.(*NameHashMismatch); !ok {
		t.Fatalf("expected *NameHashMismatch, got %T", err)
	}
}

func TestDecodeObjectEmptyNameAndSymTable(t *testing.T) {
	data := buildObject(t)
	binaryPutU32(data, 12, 0) // nametable_offset = 0
	binaryPutU32(data, 16, 0) // nametable_count = 0

	obj, err := DecodeObject(data)
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	if len(obj.Names) != 0 {
		t.Fatalf("Names = %+v, want empty", obj.Names)
	}
	if len(obj.SymbolTable.Routines) != 0 {
		t.Fatalf("Routines = %+v, want empty", obj.SymbolTable.Routines)
	}
}
