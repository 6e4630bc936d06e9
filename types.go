// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "fmt"

// BasicDataType enumerates the built-in scalar and pointer-ish types a
// DataType reference can resolve to without a further type-table
// lookup.
type BasicDataType uint32

// Known basic data types. The first block is contiguous from 0; the
// "My..." block used by pointer and handle shorthands starts at 100.
const (
	BasicTypeVoid BasicDataType = iota
	BasicTypePstring
	BasicTypeUlong
	BasicTypeLong
	BasicTypeFloat10
	BasicTypeBoolean
	BasicTypeUbyte
	BasicTypeByte
	BasicTypeChar
	BasicTypeWchar
	BasicTypeUword
	BasicTypeWord
	BasicTypeFloat4
	BasicTypeFloat8
	BasicTypeFloat12
	BasicTypeComp
	BasicTypeCstring
	BasicTypeAIstring
)

const (
	MyBasicTypeVoidPtr BasicDataType = iota + 100
	MyBasicTypeVoidHdl
	MyBasicTypeCharPtr
	MyBasicTypeCharHdl
	MyBasicTypeUcharPtr
	MyBasicTypeUcharHdl
	MyBasicTypeFunc
	MyBasicTypeStringPtr
	MyBasicTypePstringPtr
)

func (b BasicDataType) isKnown() bool {
	if b <= BasicTypeAIstring {
		return true
	}
	return b >= MyBasicTypeVoidPtr && b <= MyBasicTypePstringPtr
}

// DataType is a type reference: either one of the fixed basic types
// or the numeric id of an entry elsewhere in the same type table.
type DataType struct {
	Basic   BasicDataType
	IsBasic bool
	Other   uint32
}

func dataTypeFrom(v uint32) DataType {
	b := BasicDataType(v)
	if b.isKnown() {
		return DataType{Basic: b, IsBasic: true}
	}
	return DataType{Other: v}
}

// Pointer is a typed pointer: a small integer count paired with the
// type it points to.
type Pointer struct {
	Number   uint16
	DataType DataType
}

// Array is a fixed-size homogeneous array type.
type Array struct {
	Size, ESize uint32
	DataType    DataType
}

// StructMember is one field of a Struct type.
type StructMember struct {
	NameID   uint32
	DataType DataType
	Offset   uint32
}

// Struct is an aggregate type with named, offset-addressed members.
type Struct struct {
	NameID  uint32
	Size    uint32
	Members []StructMember
}

// EnumMember is one named constant of an Enum type.
type EnumMember struct {
	NameID uint32
	Value  uint32
}

// Enum is an enumeration over a basic integral base type.
type Enum struct {
	NameID   uint32
	BaseType DataType
	Members  []EnumMember
}

// PascalArray is a Pascal-style array, distinguished from Array by
// its packed flag and separate index/element type ids.
type PascalArray struct {
	NameID      uint32
	Packed      bool
	Size        uint32
	IndexTypeID uint32
	ElemType    DataType
}

// PascalRange describes a Pascal subrange type.
type PascalRange struct {
	NameID       uint32
	BaseType     DataType
	Size         uint32
	Lower, Upper uint32
}

// PascalSet describes a Pascal set type over a base type.
type PascalSet struct {
	NameID   uint32
	BaseType DataType
	Size     uint32
}

// PascalEnum is a Pascal-style enumeration: just a name id per
// member, with no associated integer values.
type PascalEnum struct {
	NameID  uint32
	Members []uint32
}

// PascalString is a fixed-capacity Pascal string type.
type PascalString struct {
	NameID uint32
	Size   uint32
}

// TypeKind discriminates the variant held by a TypeEntry.
type TypeKind int

// Known type-table record kinds.
const (
	TypePointer TypeKind = iota
	TypeArrayKind
	TypeStructKind
	TypeEnumKind
	TypePascalArrayKind
	TypePascalRangeKind
	TypePascalSetKind
	TypePascalEnumKind
	TypePascalStringKind
)

// TypeEntry is one record of a decoded type table: the discriminated
// payload plus the numeric id other records reference it by.
type TypeEntry struct {
	ID   uint32
	Kind TypeKind

	Pointer      Pointer
	Array        Array
	Struct       Struct
	Enum         Enum
	PascalArray  PascalArray
	PascalRange  PascalRange
	PascalSet    PascalSet
	PascalEnum   PascalEnum
	PascalString PascalString
}

// TypeTable is a decoded sequence of type records, referenced by
// position-independent ids from symbol tables and from each other.
type TypeTable struct {
	Entries []TypeEntry
}

// decodeTypeTable decodes numTypes consecutive type records from data,
// returning the table and the number of bytes consumed.
func decodeTypeTable(data []byte, numTypes uint32) (TypeTable, int, error) {
	c := newCursor(data)
	table := TypeTable{}

	for i := uint32(0); i < numTypes; i++ {
		tag, err := c.beU16()
		if err != nil {
			return TypeTable{}, 0, err
		}
		id, err := c.beU32()
		if err != nil {
			return TypeTable{}, 0, err
		}

		entry := TypeEntry{ID: id}
		switch tag {
		case 0:
			entry.Kind = TypePointer
			entry.Pointer, err = decodePointer(c)
		case 1:
			entry.Kind = TypeArrayKind
			entry.Array, err = decodeArray(c)
		case 2:
			entry.Kind = TypeStructKind
			entry.Struct, err = decodeStruct(c)
		case 3:
			entry.Kind = TypeEnumKind
			entry.Enum, err = decodeEnum(c)
		case 4:
			entry.Kind = TypePascalArrayKind
			entry.PascalArray, err = decodePascalArray(c)
		case 5:
			entry.Kind = TypePascalRangeKind
			entry.PascalRange, err = decodePascalRange(c)
		case 6:
			entry.Kind = TypePascalSetKind
			entry.PascalSet, err = decodePascalSet(c)
		case 7:
			entry.Kind = TypePascalEnumKind
			entry.PascalEnum, err = decodePascalEnum(c)
		case 8:
			entry.Kind = TypePascalStringKind
			entry.PascalString, err = decodePascalString(c)
		default:
			return TypeTable{}, 0, &BadTypeTag{Tag: tag}
		}
		if err != nil {
			return TypeTable{}, 0, err
		}
		table.Entries = append(table.Entries, entry)
	}
	return table, c.offset(), nil
}

func decodePointer(c *cursor) (Pointer, error) {
	num, err := c.beU16()
	if err != nil {
		return Pointer{}, err
	}
	typ, err := c.beU32()
	if err != nil {
		return Pointer{}, err
	}
	return Pointer{Number: num, DataType: dataTypeFrom(typ)}, nil
}

func decodeArray(c *cursor) (Array, error) {
	size, err := c.beU32()
	if err != nil {
		return Array{}, err
	}
	esize, err := c.beU32()
	if err != nil {
		return Array{}, err
	}
	typ, err := c.beU32()
	if err != nil {
		return Array{}, err
	}
	return Array{Size: size, ESize: esize, DataType: dataTypeFrom(typ)}, nil
}

func decodeStruct(c *cursor) (Struct, error) {
	name, err := c.beU32()
	if err != nil {
		return Struct{}, err
	}
	size, err := c.beU32()
	if err != nil {
		return Struct{}, err
	}
	numMembers, err := c.beU16()
	if err != nil {
		return Struct{}, err
	}
	s := Struct{NameID: name, Size: size}
	for i := uint16(0); i < numMembers; i++ {
		mName, err := c.beU32()
		if err != nil {
			return Struct{}, err
		}
		mType, err := c.beU32()
		if err != nil {
			return Struct{}, err
		}
		mOffset, err := c.beU32()
		if err != nil {
			return Struct{}, err
		}
		s.Members = append(s.Members, StructMember{NameID: mName, DataType: dataTypeFrom(mType), Offset: mOffset})
	}
	return s, nil
}

func decodeEnum(c *cursor) (Enum, error) {
	name, err := c.beU32()
	if err != nil {
		return Enum{}, err
	}
	baseID, err := c.beU16()
	if err != nil {
		return Enum{}, err
	}
	numMembers, err := c.beU16()
	if err != nil {
		return Enum{}, err
	}
	base := dataTypeFrom(uint32(baseID))
	if !base.IsBasic {
		return Enum{}, &BadEnumBase{Got: baseID}
	}
	e := Enum{NameID: name, BaseType: base}
	for i := uint16(0); i < numMembers; i++ {
		mName, err := c.beU32()
		if err != nil {
			return Enum{}, err
		}
		mValue, err := c.beU32()
		if err != nil {
			return Enum{}, err
		}
		e.Members = append(e.Members, EnumMember{NameID: mName, Value: mValue})
	}
	return e, nil
}

func decodePascalArray(c *cursor) (PascalArray, error) {
	packed, err := c.beU32()
	if err != nil {
		return PascalArray{}, err
	}
	size, err := c.beU32()
	if err != nil {
		return PascalArray{}, err
	}
	iid, err := c.beU32()
	if err != nil {
		return PascalArray{}, err
	}
	eid, err := c.beU32()
	if err != nil {
		return PascalArray{}, err
	}
	name, err := c.beU32()
	if err != nil {
		return PascalArray{}, err
	}
	return PascalArray{NameID: name, Packed: packed != 0, Size: size, IndexTypeID: iid, ElemType: dataTypeFrom(eid)}, nil
}

func decodePascalRange(c *cursor) (PascalRange, error) {
	name, err := c.beU32()
	if err != nil {
		return PascalRange{}, err
	}
	base, err := c.beU32()
	if err != nil {
		return PascalRange{}, err
	}
	size, err := c.beU32()
	if err != nil {
		return PascalRange{}, err
	}
	lower, err := c.beU32()
	if err != nil {
		return PascalRange{}, err
	}
	upper, err := c.beU32()
	if err != nil {
		return PascalRange{}, err
	}
	return PascalRange{NameID: name, BaseType: dataTypeFrom(base), Size: size, Lower: lower, Upper: upper}, nil
}

func decodePascalSet(c *cursor) (PascalSet, error) {
	name, err := c.beU32()
	if err != nil {
		return PascalSet{}, err
	}
	base, err := c.beU32()
	if err != nil {
		return PascalSet{}, err
	}
	size, err := c.beU32()
	if err != nil {
		return PascalSet{}, err
	}
	return PascalSet{NameID: name, BaseType: dataTypeFrom(base), Size: size}, nil
}

// decodePascalEnum reads a Pascal enumeration record. The width of the
// member-count field is ambiguous on disk: known emitters disagree on
// whether the count occupies bytes [4:6) of the record or the low half
// of a 4-byte field at [4:8). When input makes the two readings
// disagree there is no principled way to prefer one, so decoding fails
// loudly instead of silently picking a count.
func decodePascalEnum(c *cursor) (PascalEnum, error) {
	name, err := c.beU32()
	if err != nil {
		return PascalEnum{}, err
	}
	field, err := c.bytes(4)
	if err != nil {
		return PascalEnum{}, err
	}
	narrow := uint16(field[0])<<8 | uint16(field[1])
	wide32 := uint32(field[0])<<24 | uint32(field[1])<<16 | uint32(field[2])<<8 | uint32(field[3])
	wide := uint16(wide32) // low 16 bits, as a narrowing `as u16` cast would take
	if narrow != wide {
		return PascalEnum{}, &BadPascalEnumCount{Narrow: narrow, Wide: wide}
	}

	pe := PascalEnum{NameID: name}
	for i := uint16(0); i < narrow; i++ {
		m, err := c.beU32()
		if err != nil {
			return PascalEnum{}, err
		}
		pe.Members = append(pe.Members, m)
	}
	return pe, nil
}

func decodePascalString(c *cursor) (PascalString, error) {
	size, err := c.beU32()
	if err != nil {
		return PascalString{}, err
	}
	name, err := c.beU32()
	if err != nil {
		return PascalString{}, err
	}
	return PascalString{NameID: name, Size: size}, nil
}

func (k TypeKind) String() string {
	switch k {
	case TypePointer:
		return "Pointer"
	case TypeArrayKind:
		return "Array"
	case TypeStructKind:
		return "Struct"
	case TypeEnumKind:
		return "Enum"
	case TypePascalArrayKind:
		return "PascalArray"
	case TypePascalRangeKind:
		return "PascalRange"
	case TypePascalSetKind:
		return "PascalSet"
	case TypePascalEnumKind:
		return "PascalEnum"
	case TypePascalStringKind:
		return "PascalString"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}
