package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// record is a synthetic SMBIOS structure used to build test tables
type record struct {
	typ     uint8
	handle  uint16
	data    []byte // formatted area following the 4 byte header
	strings []string
}

func (r record) bytes() []byte {
	b := []byte{r.typ, uint8(headerSize + len(r.data)), 0, 0}
	binary.LittleEndian.PutUint16(b[2:], r.handle)
	b = append(b, r.data...)
	if len(r.strings) == 0 {
		return append(b, 0, 0)
	}
	for _, s := range r.strings {
		b = append(b, s...)
		b = append(b, 0)
	}
	return append(b, 0)
}

func buildTable(records ...record) []byte {
	var table []byte
	for _, r := range records {
		table = append(table, r.bytes()...)
	}
	return table
}

// formatted returns a zeroed formatted area for a structure of the given
// declared length
func formatted(length int) []byte {
	return make([]byte, length-headerSize)
}

func put16(data []byte, offset int, v uint16) {
	binary.LittleEndian.PutUint16(data[offset-headerSize:], v)
}

func put32(data []byte, offset int, v uint32) {
	binary.LittleEndian.PutUint32(data[offset-headerSize:], v)
}

func put8(data []byte, offset int, v uint8) {
	data[offset-headerSize] = v
}

// deviceRecord builds an SMBIOS 2.6 memory device with the given size field
// and device locator
func deviceRecord(handle uint16, size uint16, locator string) record {
	data := formatted(0x1C)
	put16(data, devArrayHandle, 0x1000)
	put16(data, devErrorHandle, 0xFFFE)
	put16(data, devTotalWidth, 72)
	put16(data, devDataWidth, 64)
	put16(data, devSize, size)
	put8(data, devFormFactor, 0x09)
	put8(data, devLocator, 1)
	put8(data, devBankLocator, 2)
	put8(data, devMemoryType, 0x1A)
	put16(data, devTypeDetail, 0x0080)
	put16(data, devSpeed, 2666)
	put8(data, devManufacturer, 3)
	put8(data, devSerialNumber, 4)
	put8(data, devPartNumber, 5)
	return record{
		typ:     TypeMemoryDevice,
		handle:  handle,
		data:    data,
		strings: []string{locator, "BANK 0", "Samsung", "0DEADBEEF", "M393A2K43BB1-CTD"},
	}
}

func deviceRangeRecord(handle uint16, start, end uint32, device uint16) record {
	data := formatted(0x13)
	put32(data, rngStart, start)
	put32(data, rngEnd, end)
	put16(data, devRngDeviceHandle, device)
	put16(data, devRngArrayAddrHandle, 0x2000)
	put8(data, devRngRow, 1)
	put8(data, devRngInterleavePos, 0)
	put8(data, devRngInterleaveDepth, 1)
	return record{typ: TypeMemoryDeviceAddr, handle: handle, data: data}
}

func arrayRangeRecord(handle uint16, start, end uint32, array uint16) record {
	data := formatted(0x0F)
	put32(data, rngStart, start)
	put32(data, rngEnd, end)
	put16(data, arrRngArrayHandle, array)
	put8(data, arrRngPartitionWidth, 2)
	return record{typ: TypeMemoryArrayAddress, handle: handle, data: data}
}

func arrayRecord(handle uint16, devices uint16) record {
	data := formatted(0x0F)
	put8(data, arrLocation, 0x03)
	put8(data, arrUse, 0x03)
	put8(data, arrErrorCorrection, 0x06)
	put32(data, arrMaxCapacity, 0x4000000)
	put16(data, arrErrorHandle, 0xFFFE)
	put16(data, arrNumDevices, devices)
	return record{typ: TypeMemoryArray, handle: handle, data: data}
}

// twoDimmTable has two DIMMs behind the disjoint ranges [1000,2000) and
// [2000,3000) KB, listed out of order, plus the array records.
func twoDimmTable() []record {
	return []record{
		{typ: 0, handle: 0x0000, data: formatted(0x12), strings: []string{"Vendor", "1.0"}},
		arrayRecord(0x1000, 2),
		deviceRecord(0x1100, 0x0400, "DIMM_A1"),
		deviceRecord(0x1101, 0x0400, "DIMM_B1"),
		arrayRangeRecord(0x2000, 1000, 3000, 0x1000),
		deviceRangeRecord(0x3001, 2000, 3000, 0x1101),
		deviceRangeRecord(0x3000, 1000, 2000, 0x1100),
		{typ: 127, handle: 0xFEFF},
	}
}

// staticSource is a TableSource over a prebuilt table
type staticSource struct {
	anchor Anchor
	table  []byte
	err    error
}

func (s staticSource) Load() (Anchor, []byte, error) {
	return s.anchor, s.table, s.err
}

func newStaticSource(records ...record) staticSource {
	table := buildTable(records...)
	return staticSource{
		anchor: Anchor{Signature: "_SM_", TableLength: len(table), EntryCount: len(records)},
		table:  table,
	}
}

func decoderFor(records ...record) *Decoder {
	src := newStaticSource(records...)
	return NewDecoder(src.anchor, src.table)
}

// physicalMemory is a WindowReader over a flat byte image starting at base
type physicalMemory struct {
	base uint64
	mem  []byte
}

func (m physicalMemory) ReadWindow(start uint64, length int) ([]byte, error) {
	if start < m.base || start-m.base+uint64(length) > uint64(len(m.mem)) {
		return nil, errors.Wrapf(ErrIO, "window %#x+%#x outside image", start, length)
	}
	off := start - m.base
	out := make([]byte, length)
	copy(out, m.mem[off:off+uint64(length)])
	return out, nil
}

// entryPoint builds a checksummed 32-bit entry point describing a table
func entryPoint(tableAddress uint32, tableLength uint16, entries uint16) []byte {
	ep := make([]byte, anchorSize)
	copy(ep, "_SM_")
	ep[5] = anchorSize
	ep[6] = 2
	ep[7] = 8
	copy(ep[0x10:], "_DMI_")
	binary.LittleEndian.PutUint16(ep[0x16:], tableLength)
	binary.LittleEndian.PutUint32(ep[0x18:], tableAddress)
	binary.LittleEndian.PutUint16(ep[0x1C:], entries)
	ep[4] = -checksum(ep)
	return ep
}
