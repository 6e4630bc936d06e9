// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "fmt"

// HunkKind identifies which of the ~45 hunk-stream record kinds a Hunk
// holds. The raw wire tags are contiguous starting at 0x4567; HunkKind
// renumbers them from zero for a friendlier Go enumeration.
type HunkKind uint16

// Raw wire tag of the first hunk kind; every other kind's wire tag is
// hunkTagBase + HunkKind.
const hunkTagBase = 0x4567

// Known hunk kinds, in wire-tag order.
const (
	HunkStart HunkKind = iota
	HunkEnd
	HunkLocalCode
	HunkGlobalCode
	HunkLocalUData
	HunkGlobalUData
	HunkLocalIData
	HunkGlobalIData
	HunkLocalFarUData
	HunkGlobalFarUData
	HunkLocalFarIData
	HunkGlobalFarIData
	HunkXRefCodeJT16
	HunkXRefData16
	HunkXRef32
	HunkLibraryBreak
	HunkGlobalEntry
	HunkLocalEntry
	HunkDiff8
	HunkDiff16
	HunkDiff32
	HunkSegment
	HunkInitCode
	HunkDeinitCode
	HunkMultiDefGlobal
	HunkOverloadGlobal
	HunkXRefCode16
	HunkXRefCode32
	HunkForceActive
	HunkGlobalDataPointer
	HunkGlobalXPointer
	HunkGlobalXVector
	HunkXRefPCRel32
	HunkIllegal1
	HunkIllegal2
	HunkCFMExport
	HunkCFMImport
	HunkCFMImportContainer
	HunkSrcBreak
	HunkLocalDataPointer
	HunkLocalXPointer
	HunkLocalXVector
	HunkExceptionInfo
	HunkCFMInternal
	HunkMethodRef
	HunkMethodClassDef
	HunkXRefAmbig16
	HunkWeakImportContainer

	hunkKindCount
)

var hunkKindNames = [...]string{
	"Start", "End", "LocalCode", "GlobalCode", "LocalUData", "GlobalUData",
	"LocalIData", "GlobalIData", "LocalFarUData", "GlobalFarUData",
	"LocalFarIData", "GlobalFarIData", "XRefCodeJT16", "XRefData16", "XRef32",
	"LibraryBreak", "GlobalEntry", "LocalEntry", "Diff8", "Diff16", "Diff32",
	"Segment", "InitCode", "DeinitCode", "MultiDefGlobal", "OverloadGlobal",
	"XRefCode16", "XRefCode32", "ForceActive", "GlobalDataPointer",
	"GlobalXPointer", "GlobalXVector", "XRefPCRel32", "Illegal1", "Illegal2",
	"CFMExport", "CFMImport", "CFMImportContainer", "SrcBreak",
	"LocalDataPointer", "LocalXPointer", "LocalXVector", "ExceptionInfo",
	"CFMInternal", "MethodRef", "MethodClassDef", "XRefAmbig16",
	"WeakImportContainer",
}

func (k HunkKind) String() string {
	if int(k) < len(hunkKindNames) {
		return hunkKindNames[k]
	}
	return fmt.Sprintf("HunkKind(%d)", uint16(k))
}

// reservedHunkKinds never legitimately appear in a well-formed object;
// encountering one aborts decoding.
var reservedHunkKinds = map[HunkKind]bool{
	HunkLibraryBreak: true,
	HunkDiff8:        true,
	HunkDiff16:       true,
	HunkDiff32:       true,
	HunkDeinitCode:   true,
	HunkForceActive:  true,
	HunkIllegal1:     true,
	HunkIllegal2:     true,
	HunkCFMInternal:  true,
}

// CodeFlag annotates a code hunk with the special status inherited
// from the immediately preceding committed hunk.
type CodeFlag int

// Known code special-flag values.
const (
	CodeFlagNone CodeFlag = iota
	CodeFlagGlobalMultiDef
	CodeFlagGlobalOverload
	CodeFlagCFMExport
)

// XRefPair is one (offset, value) fixup pair of a cross-reference
// hunk.
type XRefPair struct {
	Offset uint32
	Value  uint32
}

// CodeHunk is the payload of a Local/GlobalCode hunk: a named blob of
// machine code plus the symbol-table offsets locating its debug info.
type CodeHunk struct {
	NameID        uint32
	SymOffset     uint32
	SymDeclOffset uint32
	Flag          CodeFlag
	Code          []byte
}

// HasSymTab reports whether this code hunk has an associated symbol
// table entry; the linker uses 0x80000000 as a sentinel meaning "no
// debug info for this routine".
func (h CodeHunk) HasSymTab() bool {
	return h.SymOffset != 0x80000000
}

// DataHunk is the payload of any of the eight data hunk kinds. Only
// the *IData variants carry an inline byte payload; the *UData
// variants merely reserve size bytes of uninitialized storage.
type DataHunk struct {
	NameID        uint32
	Size          uint32
	SymOffset     uint32
	SymDeclOffset uint32
	Data          []byte
}

// EntryHunk names an alternate entry point into a code hunk at a
// given offset.
type EntryHunk struct {
	NameID uint32
	Offset uint32
}

// XRefHunk is a named list of cross-reference fixups.
type XRefHunk struct {
	NameID uint32
	Pairs  []XRefPair
}

// ContainerHunk records CFM container import/weak-import version
// information.
type ContainerHunk struct {
	NameID         uint32
	OldDefVersion  uint32
	OldImpVersion  uint32
	CurrentVersion uint32
}

// ImportHunk names a CFM-imported symbol.
type ImportHunk struct {
	NameID uint32
}

// DataPointerHunk associates a data-pointer symbol with the data
// symbol it points to.
type DataPointerHunk struct {
	NameID     uint32
	DataNameID uint32
}

// XPointerHunk associates a transition-vector pointer symbol with the
// transition vector it points to.
type XPointerHunk struct {
	NameID        uint32
	XVectorNameID uint32
}

// XVectorHunk associates a transition vector with the function it
// dispatches to.
type XVectorHunk struct {
	NameID         uint32
	FunctionNameID uint32
}

// SourceHunk records a source-break marker: a file name and its
// modification date.
type SourceHunk struct {
	NameID  uint32
	ModDate uint32
}

// SegmentHunk names an M68K segment. It carries no other data.
type SegmentHunk struct {
	NameID uint32
}

// MethodRefHunk names a referenced virtual method and its dispatch
// table size.
type MethodRefHunk struct {
	NameID uint32
	Size   uint32
}

// ClassPair is one (base class id, offset bias) entry of a
// MethodClassDefHunk.
type ClassPair struct {
	BaseID uint32
	Bias   uint32
}

// MethodClassDefHunk defines a class's virtual dispatch layout: its
// method count and its base-class inheritance offsets.
type MethodClassDefHunk struct {
	NameID     uint32
	NumMethods uint16
	Pairs      []ClassPair
}

// Hunk is one decoded record of a hunk stream, discriminated by Kind.
// Only the field matching Kind is populated.
type Hunk struct {
	Kind HunkKind

	Code          CodeHunk
	InitCode      []byte
	Data          DataHunk
	Entry         EntryHunk
	XRef          XRefHunk
	ExceptionInfo []byte
	Container     ContainerHunk
	Import        ImportHunk
	DataPointer   DataPointerHunk
	XPointer      XPointerHunk
	XVector       XVectorHunk
	Source        SourceHunk
	Segment       SegmentHunk
	MethodRef     MethodRefHunk
	ClassDef      MethodClassDefHunk
}

// DecodeHunks decodes a complete hunk stream, as found in an object's
// code region (buffer[64 : 64+obj_size]). Decoding stops exactly when
// the cursor reaches the end of data; an End record does not itself
// terminate the stream; whatever follows it, if anything, is decoded
// as further hunks.
func DecodeHunks(data []byte) ([]Hunk, error) {
	c := newCursor(data)
	var hunks []Hunk

	for c.remaining() > 0 {
		rawTag, err := c.beU16()
		if err != nil {
			return nil, err
		}
		if rawTag < hunkTagBase || rawTag-hunkTagBase >= uint16(hunkKindCount) {
			return nil, &BadHunkTag{Tag: rawTag}
		}
		kind := HunkKind(rawTag - hunkTagBase)

		if reservedHunkKinds[kind] {
			return nil, &ReservedHunkEncountered{Kind: kind}
		}

		hunk := Hunk{Kind: kind}
		switch kind {
		case HunkStart, HunkEnd, HunkMultiDefGlobal, HunkOverloadGlobal, HunkCFMExport:
			// no payload

		case HunkLocalCode, HunkGlobalCode:
			var prev HunkKind = hunkKindCount
			if len(hunks) > 0 {
				prev = hunks[len(hunks)-1].Kind
			}
			flag := CodeFlagNone
			switch prev {
			case HunkCFMExport:
				flag = CodeFlagCFMExport
			case HunkOverloadGlobal:
				flag = CodeFlagGlobalOverload
			case HunkMultiDefGlobal:
				flag = CodeFlagGlobalMultiDef
			}

			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			size, err := c.beU32()
			if err != nil {
				return nil, err
			}
			symOffset, err := c.beU32()
			if err != nil {
				return nil, err
			}
			symDeclOffset, err := c.beU32()
			if err != nil {
				return nil, err
			}
			code, err := c.bytes(int(size))
			if err != nil {
				return nil, err
			}
			hunk.Code = CodeHunk{
				NameID: nameID, SymOffset: symOffset, SymDeclOffset: symDeclOffset,
				Flag: flag, Code: append([]byte(nil), code...),
			}

		case HunkInitCode:
			size, err := c.beU32()
			if err != nil {
				return nil, err
			}
			code, err := c.bytes(int(size))
			if err != nil {
				return nil, err
			}
			hunk.InitCode = append([]byte(nil), code...)

		case HunkLocalUData, HunkGlobalUData, HunkLocalIData, HunkGlobalIData,
			HunkLocalFarUData, HunkGlobalFarUData, HunkLocalFarIData, HunkGlobalFarIData:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			size, err := c.beU32()
			if err != nil {
				return nil, err
			}
			symOffset, err := c.beU32()
			if err != nil {
				return nil, err
			}
			symDeclOffset, err := c.beU32()
			if err != nil {
				return nil, err
			}
			var payload []byte
			switch kind {
			case HunkGlobalIData, HunkLocalIData, HunkGlobalFarIData, HunkLocalFarIData:
				payload, err = c.bytes(int(size))
				if err != nil {
					return nil, err
				}
				payload = append([]byte(nil), payload...)
			}
			hunk.Data = DataHunk{NameID: nameID, Size: size, SymOffset: symOffset, SymDeclOffset: symDeclOffset, Data: payload}

		case HunkGlobalEntry, HunkLocalEntry:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			offset, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.Entry = EntryHunk{NameID: nameID, Offset: offset}

		case HunkXRefCodeJT16, HunkXRefData16, HunkXRef32, HunkXRefCode16,
			HunkXRefCode32, HunkXRefPCRel32, HunkXRefAmbig16:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			numPairs, err := c.beU16()
			if err != nil {
				return nil, err
			}
			xref := XRefHunk{NameID: nameID}
			for i := uint16(0); i < numPairs; i++ {
				offset, err := c.beU32()
				if err != nil {
					return nil, err
				}
				value, err := c.beU32()
				if err != nil {
					return nil, err
				}
				xref.Pairs = append(xref.Pairs, XRefPair{Offset: offset, Value: value})
			}
			hunk.XRef = xref

		case HunkExceptionInfo:
			size, err := c.beU32()
			if err != nil {
				return nil, err
			}
			info, err := c.bytes(int(size))
			if err != nil {
				return nil, err
			}
			hunk.ExceptionInfo = append([]byte(nil), info...)

		case HunkCFMImportContainer, HunkWeakImportContainer:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			oldDef, err := c.beU32()
			if err != nil {
				return nil, err
			}
			oldImp, err := c.beU32()
			if err != nil {
				return nil, err
			}
			cur, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.Container = ContainerHunk{NameID: nameID, OldDefVersion: oldDef, OldImpVersion: oldImp, CurrentVersion: cur}

		case HunkCFMImport:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.Import = ImportHunk{NameID: nameID}

		case HunkLocalDataPointer, HunkGlobalDataPointer:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			dataID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.DataPointer = DataPointerHunk{NameID: nameID, DataNameID: dataID}

		case HunkLocalXPointer, HunkGlobalXPointer:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			xvID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.XPointer = XPointerHunk{NameID: nameID, XVectorNameID: xvID}

		case HunkLocalXVector, HunkGlobalXVector:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			fnID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.XVector = XVectorHunk{NameID: nameID, FunctionNameID: fnID}

		case HunkSrcBreak:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			moddate, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.Source = SourceHunk{NameID: nameID, ModDate: moddate}

		case HunkSegment:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.Segment = SegmentHunk{NameID: nameID}

		case HunkMethodRef:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			size, err := c.beU32()
			if err != nil {
				return nil, err
			}
			hunk.MethodRef = MethodRefHunk{NameID: nameID, Size: size}

		case HunkMethodClassDef:
			nameID, err := c.beU32()
			if err != nil {
				return nil, err
			}
			numMethods, err := c.beU16()
			if err != nil {
				return nil, err
			}
			numPairs, err := c.beU16()
			if err != nil {
				return nil, err
			}
			def := MethodClassDefHunk{NameID: nameID, NumMethods: numMethods}
			for i := uint16(0); i < numPairs; i++ {
				baseID, err := c.beU32()
				if err != nil {
					return nil, err
				}
				bias, err := c.beU32()
				if err != nil {
					return nil, err
				}
				def.Pairs = append(def.Pairs, ClassPair{BaseID: baseID, Bias: bias})
			}
			hunk.ClassDef = def

		default:
			return nil, &BadHunkTag{Tag: rawTag}
		}

		hunks = append(hunks, hunk)
	}

	return hunks, nil
}
