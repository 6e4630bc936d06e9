// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "testing"

func TestResolveHunkName(t *testing.T) {
	obj, err := DecodeObject(buildObject(t))
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}

	for _, h := range obj.Hunks {
		if h.Kind != HunkGlobalCode {
			continue
		}
		name, ok := ResolveHunkName(obj, h)
		if !ok || name != "add" {
			t.Fatalf("ResolveHunkName(GlobalCode) = (%q, %v), want (\"add\", true)", name, ok)
		}
		return
	}
	t.Fatal("no GlobalCode hunk found")
}

func TestResolveHunkNameUnsupportedKind(t *testing.T) {
	obj, err := DecodeObject(buildObject(t))
	if err != nil {
		t.Fatalf("DecodeObject: %v", err)
	}
	for _, h := range obj.Hunks {
		if h.Kind == HunkStart {
			if _, ok := ResolveHunkName(obj, h); ok {
				t.Fatal("ResolveHunkName(Start) = ok, want false (no name on Start)")
			}
			return
		}
	}
	t.Fatal("no Start hunk found")
}
