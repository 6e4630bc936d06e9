// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

// objMagic is the leading magic word of every object buffer.
const objMagic = 0xFEEDBEAD

// objHeaderSize is the fixed size of an object's header, after which
// its code region begins.
const objHeaderSize = 64

// ObjectFlags is a bitfield of CFM-related object properties.
type ObjectFlags uint16

// Known object flag bits.
const (
	ObjFlagCFM          ObjectFlags = 0x0001
	ObjFlagCFMSharedLib ObjectFlags = 0x0002
	ObjFlagWeakImport   ObjectFlags = 0x0004
	ObjFlagInitBefore   ObjectFlags = 0x0008
)

// Has reports whether every bit of want is set in the flags.
func (f ObjectFlags) Has(want ObjectFlags) bool {
	return f&want == want
}

// BaseReg names the PC-relative base register an object's Pascal
// runtime expects, where applicable.
type BaseReg uint8

// Known base registers.
const (
	BaseRegUnknown BaseReg = iota
	BaseRegA4
	BaseRegA5
)

func baseRegFrom(b uint8) BaseReg {
	switch b {
	case 4:
		return BaseRegA4
	case 5:
		return BaseRegA5
	default:
		return BaseRegUnknown
	}
}

// NameEntry is one decoded name-table entry: a toolchain-assigned id
// paired with its string body.
type NameEntry struct {
	ID   uint32
	Name string
}

// ObjectHeader is the 64-byte fixed header of a CodeWarrior object.
type ObjectHeader struct {
	Version         uint16
	Flags           ObjectFlags
	ObjSize         uint32
	NameTableOffset uint32
	SymTableOffset  uint32
	SymTableSize    uint32
	CodeSize        uint32
	UDataSize       uint32
	IDataSize       uint32
	OldDefVersion   uint32
	OldImpVersion   uint32
	CurrentVersion  uint32
	HasFlags        uint8
	IsPascal        bool
	IsFourByteInt   bool
	IsEightDouble   bool
	IsMC68881       bool
	BaseReg         BaseReg
}

// Object is a fully decoded CodeWarrior object file: its header, name
// table, optional symbol table, and hunk stream.
type Object struct {
	Header      ObjectHeader
	Names       []NameEntry
	SymbolTable SymbolTable
	Hunks       []Hunk
}

// LookupName resolves a name_id against this object's name table by
// linear scan, as every consumer of a hunk or symbol-table record
// must to turn an id into a string.
func (o *Object) LookupName(id uint32) (string, bool) {
	for _, n := range o.Names {
		if n.ID == id {
			return n.Name, true
		}
	}
	return "", false
}

// DecodeObject decodes a single CodeWarrior object file from data.
func DecodeObject(data []byte) (*Object, error) {
	if err := (&cursor{data: data}).require(objHeaderSize); err != nil {
		return nil, err
	}

	magic, err := beU32At(data, 0)
	if err != nil {
		return nil, err
	}
	if magic != objMagic {
		return nil, ErrBadObjMagic
	}

	version, err := beU16At(data, 4)
	if err != nil {
		return nil, err
	}
	if version != 0 {
		return nil, ErrBadObjVersion
	}

	rawFlags, err := beU16At(data, 6)
	if err != nil {
		return nil, err
	}

	objSize, err := beU32At(data, 8)
	if err != nil {
		return nil, err
	}
	nameTableOffset, err := beU32At(data, 12)
	if err != nil {
		return nil, err
	}
	nameTableCount, err := beU32At(data, 16)
	if err != nil {
		return nil, err
	}
	symTableOffset, err := beU32At(data, 20)
	if err != nil {
		return nil, err
	}
	symTableSize, err := beU32At(data, 24)
	if err != nil {
		return nil, err
	}
	reserved1, err := beU32At(data, 28)
	if err != nil {
		return nil, err
	}
	if reserved1 != 0 {
		return nil, &ReservedNonZero{Field: "reserved1", Got: reserved1}
	}
	codeSize, err := beU32At(data, 32)
	if err != nil {
		return nil, err
	}
	udataSize, err := beU32At(data, 36)
	if err != nil {
		return nil, err
	}
	idataSize, err := beU32At(data, 40)
	if err != nil {
		return nil, err
	}
	oldDef, err := beU32At(data, 44)
	if err != nil {
		return nil, err
	}
	oldImp, err := beU32At(data, 48)
	if err != nil {
		return nil, err
	}
	curVersion, err := beU32At(data, 52)
	if err != nil {
		return nil, err
	}

	tail, err := sliceAt(data, 56, 8)
	if err != nil {
		return nil, err
	}
	hasFlags := tail[0]
	isPascal := tail[1]
	isFourByteInt := tail[2]
	isEightDouble := tail[3]
	isMC68881 := tail[4]
	basereg := tail[5]
	reserved3 := tail[6]
	reserved4 := tail[7]
	if reserved3 != 0 {
		return nil, &ReservedNonZero{Field: "reserved3", Got: uint32(reserved3)}
	}
	if reserved4 != 0 {
		return nil, &ReservedNonZero{Field: "reserved4", Got: uint32(reserved4)}
	}

	header := ObjectHeader{
		Version:         version,
		Flags:           ObjectFlags(rawFlags),
		ObjSize:         objSize,
		NameTableOffset: nameTableOffset,
		SymTableOffset:  symTableOffset,
		SymTableSize:    symTableSize,
		CodeSize:        codeSize,
		UDataSize:       udataSize,
		IDataSize:       idataSize,
		OldDefVersion:   oldDef,
		OldImpVersion:   oldImp,
		CurrentVersion:  curVersion,
		HasFlags:        hasFlags,
		IsPascal:        isPascal != 0,
		IsFourByteInt:   isFourByteInt != 0,
		IsEightDouble:   isEightDouble != 0,
		IsMC68881:       isMC68881 != 0,
		BaseReg:         baseRegFrom(basereg),
	}

	codeRegion, err := sliceAt(data, objHeaderSize, int(objSize))
	if err != nil {
		return nil, err
	}
	hunks, err := DecodeHunks(codeRegion)
	if err != nil {
		return nil, err
	}

	var actualCode, actualUData, actualIData uint32
	for _, h := range hunks {
		switch h.Kind {
		case HunkLocalCode, HunkGlobalCode:
			actualCode += uint32(len(h.Code.Code))
		case HunkLocalUData, HunkGlobalUData, HunkLocalFarUData, HunkGlobalFarUData:
			actualUData += h.Data.Size
		case HunkLocalIData, HunkGlobalIData, HunkLocalFarIData, HunkGlobalFarIData:
			actualIData += h.Data.Size
		}
	}
	if codeSize != actualCode {
		return nil, &SizeCrossCheckFailed{Field: "code_size", Declared: codeSize, Actual: actualCode}
	}
	if udataSize != actualUData {
		return nil, &SizeCrossCheckFailed{Field: "udata_size", Declared: udataSize, Actual: actualUData}
	}
	if idataSize != actualIData {
		return nil, &SizeCrossCheckFailed{Field: "idata_size", Declared: idataSize, Actual: actualIData}
	}

	var names []NameEntry
	if nameTableOffset != 0 && nameTableCount != 0 {
		names, err = decodeNameTable(data, int(nameTableOffset), int(nameTableCount-1))
		if err != nil {
			return nil, err
		}
	}

	var symtab SymbolTable
	if symTableOffset != 0 {
		region, err := sliceAt(data, int(symTableOffset), int(symTableSize))
		if err != nil {
			return nil, err
		}
		symtab, err = DecodeSymbolTable(region)
		if err != nil {
			return nil, err
		}
	}

	return &Object{
		Header:      header,
		Names:       names,
		SymbolTable: symtab,
		Hunks:       hunks,
	}, nil
}

// nameEntryMaxLen bounds how far a name-table entry's string search
// looks for a terminating NUL: a body of at most 255 bytes plus the
// terminator itself. A longer run without a NUL means the entry is
// corrupt.
const nameEntryMaxLen = 256

// cstringCapped reads a NUL-terminated string at offset, searching at
// most maxLen bytes ahead.
func cstringCapped(data []byte, offset, maxLen int) (string, error) {
	if offset < 0 || offset > len(data) {
		return "", &TruncatedInput{Needed: 1, Available: 0}
	}
	limit := len(data)
	if offset+maxLen < limit {
		limit = offset + maxLen
	}
	for i := offset; i < limit; i++ {
		if data[i] == 0 {
			return string(data[offset:i]), nil
		}
	}
	return "", &TruncatedInput{Needed: 1, Available: 0}
}

// decodeNameTable decodes count consecutive name-table entries
// starting at offset, assigning sequential ids starting at 1.
func decodeNameTable(data []byte, offset, count int) ([]NameEntry, error) {
	if err := (&cursor{data: data}).require(offset); err != nil {
		return nil, err
	}
	pos := offset
	var entries []NameEntry
	for i := 0; i < count; i++ {
		hash, err := beU16At(data, pos)
		if err != nil {
			return nil, err
		}
		name, err := cstringCapped(data, pos+2, nameEntryMaxLen)
		if err != nil {
			return nil, err
		}
		got := nametableHash(name)
		if got != hash {
			return nil, &NameHashMismatch{Name: name, Expected: hash, Got: got}
		}
		entries = append(entries, NameEntry{ID: uint32(i + 1), Name: name})
		pos += 2 + len(name) + 1
	}
	return entries, nil
}
