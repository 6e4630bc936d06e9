// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "fmt"

// Sentinel errors for malformed container headers. These never carry
// decode-specific context, so they are compared with errors.Is.
var (
	// ErrBadLibMagic is returned when a library buffer does not start
	// with the "MWOB" magic number.
	ErrBadLibMagic = fmt.Errorf("cwobj: bad library magic")

	// ErrBadObjMagic is returned when an object buffer does not start
	// with the 0xFEEDBEAD magic number.
	ErrBadObjMagic = fmt.Errorf("cwobj: bad object magic")

	// ErrBadSymMagic is returned when a symbol table buffer does not
	// start with the "SYMH" magic number.
	ErrBadSymMagic = fmt.Errorf("cwobj: bad symbol table magic")

	// ErrBadObjVersion is returned when an object header's version
	// field is non-zero.
	ErrBadObjVersion = fmt.Errorf("cwobj: unsupported object version")

	// ErrBadLibVersionForProcessor is returned when a library's
	// processor field does not match one of the known targets, or when
	// its version does not agree with a known processor (1 for
	// PowerPC, 2 for M68K).
	ErrBadLibVersionForProcessor = fmt.Errorf("cwobj: unrecognized library processor")

	// ErrSymTableSizeMismatch is returned when the sum of routine
	// record lengths plus the 32-byte header does not equal the
	// expected end-of-table offset.
	ErrSymTableSizeMismatch = fmt.Errorf("cwobj: symbol table size mismatch")
)

// TruncatedInput is returned whenever a decoder needs more bytes than
// remain in the buffer it was given.
type TruncatedInput struct {
	Needed    int
	Available int
}

func (e *TruncatedInput) Error() string {
	return fmt.Sprintf("cwobj: truncated input: needed %d bytes, %d available", e.Needed, e.Available)
}

// ReservedNonZero is returned when a header field documented as
// reserved-must-be-zero carries a nonzero value.
type ReservedNonZero struct {
	Field string
	Got   uint32
}

func (e *ReservedNonZero) Error() string {
	return fmt.Sprintf("cwobj: reserved field %q is nonzero: 0x%x", e.Field, e.Got)
}

// NameHashMismatch is returned when a name table entry's stored hash
// does not match the hash recomputed from its string body.
type NameHashMismatch struct {
	Name     string
	Expected uint16
	Got      uint16
}

func (e *NameHashMismatch) Error() string {
	return fmt.Sprintf("cwobj: name hash mismatch for %q: expected 0x%x, got 0x%x", e.Name, e.Expected, e.Got)
}

// BadTypeTag is returned when a type-table record's leading tag is
// outside the known range of type kinds.
type BadTypeTag struct {
	Tag uint16
}

func (e *BadTypeTag) Error() string {
	return fmt.Sprintf("cwobj: unrecognized type tag 0x%x", e.Tag)
}

// BadPascalEnumCount is returned when a PascalEnum record's member
// count cannot be decoded unambiguously: the narrow (bytes 4..6) and
// wide (bytes 4..8, low 16 bits) readings of the count field disagree.
type BadPascalEnumCount struct {
	Narrow uint16
	Wide   uint16
}

func (e *BadPascalEnumCount) Error() string {
	return fmt.Sprintf("cwobj: ambiguous pascal enum member count: narrow=%d wide=%d", e.Narrow, e.Wide)
}

// BadHunkTag is returned when a hunk-stream record's leading tag is
// outside the contiguous known range of hunk kinds.
type BadHunkTag struct {
	Tag uint16
}

func (e *BadHunkTag) Error() string {
	return fmt.Sprintf("cwobj: unrecognized hunk tag 0x%x", e.Tag)
}

// ReservedHunkEncountered is returned when the hunk stream contains a
// record kind that is reserved in this target's toolchain and must
// never appear in a well-formed object.
type ReservedHunkEncountered struct {
	Kind HunkKind
}

func (e *ReservedHunkEncountered) Error() string {
	return fmt.Sprintf("cwobj: reserved hunk kind encountered: %s", e.Kind)
}

// BadRoutineType is returned when a symbol table routine record's
// type field is neither Procedure nor Function.
type BadRoutineType struct {
	Got uint16
}

func (e *BadRoutineType) Error() string {
	return fmt.Sprintf("cwobj: unrecognized routine type 0x%x", e.Got)
}

// BadStorageKind is returned when a local variable's storage kind
// byte is not one of the known kinds.
type BadStorageKind struct {
	Got uint8
}

func (e *BadStorageKind) Error() string {
	return fmt.Sprintf("cwobj: unrecognized storage kind 0x%x", e.Got)
}

// BadStorageClass is returned when a local variable's storage class
// byte is not one of the known classes.
type BadStorageClass struct {
	Got uint8
}

func (e *BadStorageClass) Error() string {
	return fmt.Sprintf("cwobj: unrecognized storage class 0x%x", e.Got)
}

// BadEnumBase is returned when an Enum type record's base type tag is
// not one of the known basic data types.
type BadEnumBase struct {
	Got uint16
}

func (e *BadEnumBase) Error() string {
	return fmt.Sprintf("cwobj: unrecognized enum base type 0x%x", e.Got)
}

// SizeCrossCheckFailed is returned when two redundant size counters
// for the same region disagree.
type SizeCrossCheckFailed struct {
	Field    string
	Declared uint32
	Actual   uint32
}

func (e *SizeCrossCheckFailed) Error() string {
	return fmt.Sprintf("cwobj: size cross-check failed for %q: declared %d, actual %d", e.Field, e.Declared, e.Actual)
}
