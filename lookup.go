// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

// NameResolver turns a name_id referenced from a hunk, symbol, or type
// record into the string an object's name table actually stores.
// *Object satisfies this by linear scan over its decoded Names.
type NameResolver interface {
	LookupName(id uint32) (string, bool)
}

// ResolveHunkName returns the name a hunk primarily identifies itself
// by, if that hunk kind carries one. Hunks with no name id (Start,
// End, the MultiDefGlobal/OverloadGlobal/CFMExport markers, InitCode
// and ExceptionInfo) report ok=false.
func ResolveHunkName(r NameResolver, h Hunk) (name string, ok bool) {
	var id uint32
	switch h.Kind {
	case HunkLocalCode, HunkGlobalCode:
		id = h.Code.NameID
	case HunkLocalUData, HunkGlobalUData, HunkLocalIData, HunkGlobalIData,
		HunkLocalFarUData, HunkGlobalFarUData, HunkLocalFarIData, HunkGlobalFarIData:
		id = h.Data.NameID
	case HunkGlobalEntry, HunkLocalEntry:
		id = h.Entry.NameID
	case HunkXRefCodeJT16, HunkXRefData16, HunkXRef32, HunkXRefCode16,
		HunkXRefCode32, HunkXRefPCRel32, HunkXRefAmbig16:
		id = h.XRef.NameID
	case HunkCFMImportContainer, HunkWeakImportContainer:
		id = h.Container.NameID
	case HunkCFMImport:
		id = h.Import.NameID
	case HunkLocalDataPointer, HunkGlobalDataPointer:
		id = h.DataPointer.NameID
	case HunkLocalXPointer, HunkGlobalXPointer:
		id = h.XPointer.NameID
	case HunkLocalXVector, HunkGlobalXVector:
		id = h.XVector.NameID
	case HunkSrcBreak:
		id = h.Source.NameID
	case HunkSegment:
		id = h.Segment.NameID
	case HunkMethodRef:
		id = h.MethodRef.NameID
	case HunkMethodClassDef:
		id = h.ClassDef.NameID
	default:
		return "", false
	}
	return r.LookupName(id)
}

// ResolveTypeName returns the name a type table entry is declared
// under, for the variants that carry one. Pointer and Array entries
// have no name of their own and report ok=false.
func ResolveTypeName(r NameResolver, t TypeEntry) (name string, ok bool) {
	var id uint32
	switch t.Kind {
	case TypeStructKind:
		id = t.Struct.NameID
	case TypeEnumKind:
		id = t.Enum.NameID
	case TypePascalArrayKind:
		id = t.PascalArray.NameID
	case TypePascalRangeKind:
		id = t.PascalRange.NameID
	case TypePascalSetKind:
		id = t.PascalSet.NameID
	case TypePascalEnumKind:
		id = t.PascalEnum.NameID
	case TypePascalStringKind:
		id = t.PascalString.NameID
	default:
		return "", false
	}
	return r.LookupName(id)
}
