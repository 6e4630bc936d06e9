// Copyright 2021 Saferwall. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package cwobj

import "encoding/binary"

// cursor walks a byte slice left to right, handing out big-endian
// scalars and sub-slices. All CodeWarrior container fields are
// big-endian regardless of host, unlike the little-endian PE formats
// this decoder's ancestor handled.
type cursor struct {
	data []byte
	pos  int
}

func newCursor(data []byte) *cursor {
	return &cursor{data: data}
}

// offset reports the cursor's current position within the buffer it
// was created from.
func (c *cursor) offset() int {
	return c.pos
}

// remaining reports how many bytes are left to read.
func (c *cursor) remaining() int {
	return len(c.data) - c.pos
}

func (c *cursor) require(n int) error {
	if n < 0 || c.pos+n > len(c.data) {
		return &TruncatedInput{Needed: n, Available: c.remaining()}
	}
	return nil
}

// bytes returns the next n bytes without copying and advances the
// cursor past them.
func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.require(n); err != nil {
		return nil, err
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// skip advances the cursor by n bytes without returning them.
func (c *cursor) skip(n int) error {
	_, err := c.bytes(n)
	return err
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) i8() (int8, error) {
	b, err := c.u8()
	return int8(b), err
}

func (c *cursor) beU16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) beI16() (int16, error) {
	v, err := c.beU16()
	return int16(v), err
}

func (c *cursor) beU32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) beI32() (int32, error) {
	v, err := c.beU32()
	return int32(v), err
}

// cstring reads a NUL-terminated string starting at the cursor's
// current position and advances past the terminator (inclusive).
func (c *cursor) cstring(maxLen int) (string, error) {
	start := c.pos
	limit := len(c.data)
	if maxLen >= 0 && start+maxLen < limit {
		limit = start + maxLen
	}
	for i := start; i < limit; i++ {
		if c.data[i] == 0 {
			s := string(c.data[start:i])
			c.pos = i + 1
			return s, nil
		}
	}
	return "", &TruncatedInput{Needed: 1, Available: 0}
}

// beU16At and beU32At read a big-endian uint16 or uint32 at an absolute
// offset within data without disturbing any cursor, mirroring the
// offset-indexed reads used by the object and library header parsers,
// which jump directly to fixed-offset fields instead of consuming a
// stream.
func beU16At(data []byte, offset int) (uint16, error) {
	if offset < 0 || offset+2 > len(data) {
		return 0, &TruncatedInput{Needed: 2, Available: len(data) - offset}
	}
	return binary.BigEndian.Uint16(data[offset : offset+2]), nil
}

func beU32At(data []byte, offset int) (uint32, error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, &TruncatedInput{Needed: 4, Available: len(data) - offset}
	}
	return binary.BigEndian.Uint32(data[offset : offset+4]), nil
}

// cstringAt reads a NUL-terminated string at an absolute offset
// within data, used by the library decoder to resolve file-name and
// full-path pointers that index the library buffer directly.
func cstringAt(data []byte, offset int) (string, error) {
	if offset < 0 || offset > len(data) {
		return "", &TruncatedInput{Needed: 1, Available: 0}
	}
	for i := offset; i < len(data); i++ {
		if data[i] == 0 {
			return string(data[offset:i]), nil
		}
	}
	return "", &TruncatedInput{Needed: 1, Available: 0}
}

// sliceAt returns data[offset:offset+n], bounds-checked.
func sliceAt(data []byte, offset, n int) ([]byte, error) {
	if offset < 0 || n < 0 || offset+n > len(data) {
		avail := len(data) - offset
		if avail < 0 {
			avail = 0
		}
		return nil, &TruncatedInput{Needed: n, Available: avail}
	}
	return data[offset : offset+n], nil
}
