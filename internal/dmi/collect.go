package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "log/slog"

// Collection holds the memory records of a table, each sequence in table
// order until the ranges are sorted.
type Collection struct {
	Arrays       []MemoryArray
	Devices      []MemoryDevice
	ArrayRanges  []MemoryArrayAddress
	DeviceRanges []MemoryDeviceAddress
	Skipped      int // records of a collected type that were rejected
}

// Collect selects the memory array, device and address range records of t.
// Records too short for the fields the decoder reads are skipped, as are
// memory devices with a zero size field, which marks an empty slot.
func Collect(t *Table) *Collection {
	c := &Collection{}
	for _, e := range t.Entries() {
		switch e.Type {
		case TypeMemoryArray:
			if c.accept(e, minMemoryArray) {
				c.Arrays = append(c.Arrays, MemoryArray{e})
			}
		case TypeMemoryDevice:
			if !c.accept(e, minMemoryDevice) {
				continue
			}
			d := MemoryDevice{e}
			if d.Size() == 0 {
				slog.Debug("memory device disabled", slog.String("handle", hex16(e.Handle)))
				c.Skipped++
				continue
			}
			c.Devices = append(c.Devices, d)
		case TypeMemoryArrayAddress:
			if c.accept(e, minMemoryArrayAddress) {
				c.ArrayRanges = append(c.ArrayRanges, MemoryArrayAddress{e})
			}
		case TypeMemoryDeviceAddr:
			if c.accept(e, minMemoryDeviceAddr) {
				c.DeviceRanges = append(c.DeviceRanges, MemoryDeviceAddress{e})
			}
		}
	}
	return c
}

func (c *Collection) accept(e *Entry, minLength int) bool {
	if int(e.Length) < minLength {
		slog.Debug("record too short", slog.String("handle", hex16(e.Handle)), slog.Int("type", int(e.Type)), slog.Int("length", int(e.Length)), slog.Int("expected", minLength))
		c.Skipped++
		return false
	}
	return true
}
