// Package dmitest builds synthetic SMBIOS tables for tests.
package dmitest

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/binary"

	"dmimap/internal/dmi"
)

const headerSize = 4

// Record is one SMBIOS structure. Data is the formatted area including the
// four byte header; Type, Length and Handle are written into it by Bytes.
type Record struct {
	Type    uint8
	Handle  uint16
	Data    []byte
	Strings []string
}

// NewRecord returns a record with a zeroed formatted area of length bytes.
func NewRecord(typ uint8, handle uint16, length int, strs ...string) Record {
	return Record{Type: typ, Handle: handle, Data: make([]byte, length), Strings: strs}
}

func (r Record) Put8(offset int, v uint8)   { r.Data[offset] = v }
func (r Record) Put16(offset int, v uint16) { binary.LittleEndian.PutUint16(r.Data[offset:], v) }
func (r Record) Put32(offset int, v uint32) { binary.LittleEndian.PutUint32(r.Data[offset:], v) }

// Bytes returns the structure followed by its string block.
func (r Record) Bytes() []byte {
	b := append([]byte(nil), r.Data...)
	b[0], b[1] = r.Type, uint8(len(r.Data))
	binary.LittleEndian.PutUint16(b[2:], r.Handle)
	if len(r.Strings) == 0 {
		return append(b, 0, 0)
	}
	for _, s := range r.Strings {
		b = append(b, s...)
		b = append(b, 0)
	}
	return append(b, 0)
}

// MemoryDevice returns an SMBIOS 2.6 DDR4 DIMM. strs are, in order, the
// device locator, bank locator, manufacturer, serial number and part number.
func MemoryDevice(handle uint16, size uint16, strs ...string) Record {
	r := NewRecord(dmi.TypeMemoryDevice, handle, 0x1C, strs...)
	r.Put16(0x04, 0x1000)
	r.Put16(0x06, 0xFFFE)
	r.Put16(0x08, 72)
	r.Put16(0x0A, 64)
	r.Put16(0x0C, size)
	r.Put8(0x0E, 0x09)
	r.Put8(0x12, 0x1A)
	r.Put16(0x13, 0x0080)
	r.Put16(0x15, 2666)
	r.Put8(0x1B, 2) // rank
	for i, offset := range []int{0x10, 0x11, 0x17, 0x18, 0x1A} {
		if i < len(strs) {
			r.Put8(offset, uint8(i+1))
		}
	}
	return r
}

// DIMM is a 16 GB MemoryDevice with stock bank and vendor strings.
func DIMM(handle uint16, locator string) Record {
	return MemoryDevice(handle, 0x4000, locator, "BANK 0", "Samsung", "0DEADBEEF", "M393A2K43BB1-CTD")
}

// DeviceRange maps [start, end) KB to the memory device with handle device.
func DeviceRange(handle uint16, start, end uint32, device uint16) Record {
	r := NewRecord(dmi.TypeMemoryDeviceAddr, handle, 0x13)
	r.Put32(0x04, start)
	r.Put32(0x08, end)
	r.Put16(0x0C, device)
	r.Put16(0x0E, 0x2000)
	r.Put8(0x10, 1)
	r.Put8(0x12, 1)
	return r
}

// ArrayRange maps [start, end) KB to the memory array with handle array.
func ArrayRange(handle uint16, start, end uint32, array uint16) Record {
	r := NewRecord(dmi.TypeMemoryArrayAddress, handle, 0x0F)
	r.Put32(0x04, start)
	r.Put32(0x08, end)
	r.Put16(0x0C, array)
	r.Put8(0x0E, 2)
	return r
}

// EndOfTable is the type 127 terminator.
func EndOfTable() Record {
	return NewRecord(127, 0xFEFF, headerSize)
}

func Table(records ...Record) []byte {
	var table []byte
	for _, r := range records {
		table = append(table, r.Bytes()...)
	}
	return table
}

// NewDecoder decodes a table of records behind an SMBIOS 2.8 anchor.
func NewDecoder(records ...Record) *dmi.Decoder {
	table := Table(records...)
	anchor := dmi.Anchor{
		Signature:    "_SM_",
		MajorVersion: 2,
		MinorVersion: 8,
		TableAddress: 0xE0000,
		TableLength:  len(table),
		EntryCount:   len(records),
	}
	return dmi.NewDecoder(anchor, table)
}

// TwoDIMMs is a consistent table with DIMM_A1 at [0, 1000) KB and DIMM_B1
// at [2000, 3000) KB.
func TwoDIMMs() []Record {
	return []Record{
		DIMM(0x1100, "DIMM_A1"),
		DIMM(0x1101, "DIMM_B1"),
		ArrayRange(0x2000, 0, 3000, 0x1000),
		DeviceRange(0x3000, 0, 1000, 0x1100),
		DeviceRange(0x3001, 2000, 3000, 0x1101),
		EndOfTable(),
	}
}

func checksum(b []byte) uint8 {
	var s uint8
	for _, v := range b {
		s += v
	}
	return s
}

// EntryPoint returns a checksummed 32-bit entry point.
func EntryPoint(tableAddress uint32, tableLength uint16, entries uint16) []byte {
	ep := make([]byte, 0x1F)
	copy(ep, "_SM_")
	ep[5] = 0x1F
	ep[6] = 2
	ep[7] = 8
	copy(ep[0x10:], "_DMI_")
	binary.LittleEndian.PutUint16(ep[0x16:], tableLength)
	binary.LittleEndian.PutUint32(ep[0x18:], tableAddress)
	binary.LittleEndian.PutUint16(ep[0x1C:], entries)
	ep[0x15] = -checksum(ep[0x10:0x1F])
	ep[4] = -checksum(ep)
	return ep
}

// DumpImage lays records out as `dmidecode --dump-bin` does: the entry
// point at offset 0 and the table at 0x20.
func DumpImage(records ...Record) []byte {
	table := Table(records...)
	image := make([]byte, 0x20, 0x20+len(table))
	copy(image, EntryPoint(0x20, uint16(len(table)), uint16(len(records))))
	return append(image, table...)
}
