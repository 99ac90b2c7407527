package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "encoding/binary"

// Bounded field accessors. Older SMBIOS revisions omit trailing fields, so a
// field is present only if it lies entirely within the declared length. The
// second return value is false for absent fields and the value is zero.

func (e *Entry) has(offset, size int) bool {
	return offset >= 0 && offset+size <= int(e.Length) && offset+size <= len(e.Data)
}

// Uint8 returns the byte at offset.
func (e *Entry) Uint8(offset int) (uint8, bool) {
	if !e.has(offset, 1) {
		return 0, false
	}
	return e.Data[offset], true
}

// Uint16 returns the little-endian word at offset.
func (e *Entry) Uint16(offset int) (uint16, bool) {
	if !e.has(offset, 2) {
		return 0, false
	}
	return binary.LittleEndian.Uint16(e.Data[offset:]), true
}

// Uint32 returns the little-endian dword at offset.
func (e *Entry) Uint32(offset int) (uint32, bool) {
	if !e.has(offset, 4) {
		return 0, false
	}
	return binary.LittleEndian.Uint32(e.Data[offset:]), true
}

// Uint64 returns the little-endian qword at offset.
func (e *Entry) Uint64(offset int) (uint64, bool) {
	if !e.has(offset, 8) {
		return 0, false
	}
	return binary.LittleEndian.Uint64(e.Data[offset:]), true
}

// StringField resolves the string number stored in the byte at offset. An
// absent field or a zero string number yields "".
func (e *Entry) StringField(offset int) (string, error) {
	n, ok := e.Uint8(offset)
	if !ok {
		return "", nil
	}
	return e.String(int(n))
}

// the sentinel accessors below return zero for absent fields

func (e *Entry) u8(offset int) uint8 {
	v, _ := e.Uint8(offset)
	return v
}

func (e *Entry) u16(offset int) uint16 {
	v, _ := e.Uint16(offset)
	return v
}

func (e *Entry) u32(offset int) uint32 {
	v, _ := e.Uint32(offset)
	return v
}

func (e *Entry) u64(offset int) uint64 {
	v, _ := e.Uint64(offset)
	return v
}
