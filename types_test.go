// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import (
	"encoding/binary"
	"testing"
)

func be16(v uint16) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, v)
	return b
}

func be32(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

func TestDecodeTypeTablePointer(t *testing.T) {
	var data []byte
	data = append(data, be16(0)...)           // tag: Pointer
	data = append(data, be32(1)...)           // id
	data = append(data, be16(2)...)           // number
	data = append(data, be32(uint32(BasicTypeLong))...)

	table, n, err := decodeTypeTable(data, 1)
	if err != nil {
		t.Fatalf("decodeTypeTable: %v", err)
	}
	if n != len(data) {
		t.Fatalf("consumed %d bytes, want %d", n, len(data))
	}
	if len(table.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(table.Entries))
	}
	entry := table.Entries[0]
	if entry.Kind != TypePointer {
		t.Fatalf("Kind = %v, want Pointer", entry.Kind)
	}
	if entry.Pointer.Number != 2 {
		t.Fatalf("Pointer.Number = %d, want 2", entry.Pointer.Number)
	}
	if !entry.Pointer.DataType.IsBasic || entry.Pointer.DataType.Basic != BasicTypeLong {
		t.Fatalf("Pointer.DataType = %+v, want BasicTypeLong", entry.Pointer.DataType)
	}
}

func TestDecodeTypeTableUnknownTag(t *testing.T) {
	var data []byte
	data = append(data, be16(99)...)
	data = append(data, be32(1)...)

	_, _, err := decodeTypeTable(data, 1)
	if err == nil {
		t.Fatal("expected BadTypeTag, got nil")
	}
	if _, ok := err.(*BadTypeTag); !ok {
		t.Fatalf("expected *BadTypeTag, got %T", err)
	}
}

func TestDecodeEnumBadBase(t *testing.T) {
	var data []byte
	data = append(data, be16(3)...)  // tag: Enum
	data = append(data, be32(1)...)  // id
	data = append(data, be32(1)...)  // name_id
	data = append(data, be16(0xFFFF)...) // bogus base type
	data = append(data, be16(0)...)      // n_members

	_, _, err := decodeTypeTable(data, 1)
	if err == nil {
		t.Fatal("expected BadEnumBase, got nil")
	}
	if _, ok := err.(*BadEnumBase); !ok {
		t.Fatalf("expected *BadEnumBase, got %T", err)
	}
}

func TestDecodePascalEnumAgreeingCount(t *testing.T) {
	var data []byte
	data = append(data, be16(7)...) // tag: PascalEnum
	data = append(data, be32(1)...) // id
	data = append(data, be32(5)...) // name_id
	data = append(data, 0x00, 0x02, 0x00, 0x02) // narrow == wide == 2
	data = append(data, be32(10)...)
	data = append(data, be32(11)...)

	table, _, err := decodeTypeTable(data, 1)
	if err != nil {
		t.Fatalf("decodeTypeTable: %v", err)
	}
	pe := table.Entries[0].PascalEnum
	if len(pe.Members) != 2 || pe.Members[0] != 10 || pe.Members[1] != 11 {
		t.Fatalf("PascalEnum.Members = %v, want [10 11]", pe.Members)
	}
}

func TestDecodePascalEnumAmbiguousCount(t *testing.T) {
	var data []byte
	data = append(data, be16(7)...)
	data = append(data, be32(1)...)
	data = append(data, be32(5)...)
	// narrow reading (bytes[0:2]) = 0x0001, wide low-16 reading
	// (bytes[0:4] truncated) = 0x0203: these disagree.
	data = append(data, 0x00, 0x01, 0x02, 0x03)

	_, _, err := decodeTypeTable(data, 1)
	if err == nil {
		t.Fatal("expected BadPascalEnumCount, got nil")
	}
	bad, ok := err.(*BadPascalEnumCount)
	if !ok {
		t.Fatalf("expected *BadPascalEnumCount, got %T", err)
	}
	if bad.Narrow != 1 || bad.Wide != 0x0203 {
		t.Fatalf("BadPascalEnumCount = %+v, want Narrow=1 Wide=0x203", bad)
	}
}
