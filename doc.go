// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

// Package cwobj decodes Metrowerks CodeWarrior object files (.o) and
// library containers (.lib) for the M68K, CFM68K and PowerPC targets.
//
// A library is a flat container of member objects ("MWOB"). Each
// object carries a name table, an optional symbol-and-type table, and a
// tagged hunk stream describing code, data and cross-reference records.
// Decoding is purely functional: every Decode* call takes an immutable
// byte slice and returns an owned value tree, never retaining the input.
package cwobj
