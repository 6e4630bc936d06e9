// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "testing"

func TestNametableHashEmpty(t *testing.T) {
	if got := nametableHash(""); got != 0 {
		t.Fatalf("hash(\"\") = %d, want 0", got)
	}
}

func TestNametableHashSingleChar(t *testing.T) {
	if got := nametableHash("a"); got != 0x161 {
		t.Fatalf("hash(\"a\") = 0x%x, want 0x161", got)
	}
}

func TestNametableHashBounded(t *testing.T) {
	names := []string{"a", "add", "two_funcs", "veryLongIdentifierThatIsStillValid"}
	for _, n := range names {
		if h := nametableHash(n); h >= nameHashSize {
			t.Fatalf("hash(%q) = %d, want < %d", n, h, nameHashSize)
		}
	}
}

func TestNametableHashDeterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		if nametableHash("add") != nametableHash("add") {
			t.Fatal("nametableHash is not deterministic")
		}
	}
}

func TestMacEpochRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 0xDEADBEEF, 0x7FFFFFFF, 0xFFFFFFFF}
	for _, d := range cases {
		if got := toMacDate(fromMacDate(d)); got != d {
			t.Fatalf("round trip for %d: got %d", d, got)
		}
	}
}

func TestFromMacDateMonotonic(t *testing.T) {
	earlier := fromMacDate(1000)
	later := fromMacDate(2000)
	if !later.After(earlier) {
		t.Fatalf("fromMacDate(2000) = %v, want after fromMacDate(1000) = %v", later, earlier)
	}
}
