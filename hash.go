// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "time"

// nameHashSize is the modulus applied to every nametable hash; name
// table buckets are addressed with 10 bits.
const nameHashSize = 1024

// nametableHash reproduces the linker's name-table hash so that
// decoded name entries can be validated against their stored hash.
// The length seeds the high byte of the hash, then every byte of the
// name folds into a one-byte accumulator via a 3-bit rotate before
// the final value is masked down to 10 bits.
func nametableHash(name string) uint16 {
	length := uint16(len(name) & 0xff)
	if length == 0 {
		return 0
	}
	var u uint8
	for i := 0; i < len(name); i++ {
		u = (u >> 3) | (u << 5)
		u += name[i]
	}
	hash := (length << 8) | uint16(u)
	return hash & (nameHashSize - 1)
}

// macEpochOffset is the absolute value, in seconds, of the Unix
// timestamp for 1904-01-01 00:00:00 UTC: the origin CodeWarrior tools
// use for all on-disk modification dates. Computed against a fixed UTC
// origin rather than the host's local zone so that decoding the same
// bytes on two machines never disagrees.
var macEpochOffset = computeMacEpochOffset()

func computeMacEpochOffset() int64 {
	origin := time.Date(1904, time.January, 1, 0, 0, 0, 0, time.UTC)
	ts := origin.Unix()
	if ts < 0 {
		ts = -ts
	}
	return ts
}

// fromMacDate converts a raw Mac-epoch seconds count, as stored in a
// library member or source-break hunk, to a UTC time.
func fromMacDate(d uint32) time.Time {
	return time.Unix(int64(d)-macEpochOffset, 0).UTC()
}

// toMacDate converts a UTC time back to the raw Mac-epoch seconds
// count used on disk.
func toMacDate(t time.Time) uint32 {
	return uint32(t.Unix() + macEpochOffset)
}
