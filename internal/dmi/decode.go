package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// DecodeSize splits the 16-bit memory device size field into a magnitude and
// a unit. Bit 15 set means kilobytes, clear means megabytes; megabyte values
// of 1024 or more are reported in gigabytes.
func DecodeSize(field uint16) (uint32, string) {
	size := uint32(field &^ (1 << 15))
	if field&(1<<15) != 0 {
		return size, "KB"
	}
	if size >= 1024 {
		return size / 1024, "GB"
	}
	return size, "MB"
}

// DecodeTypeDetails returns the label for every set bit of the memory device
// type detail field, lowest bit first.
func DecodeTypeDetails(field uint16) []string {
	var labels []string
	for i := 0; i < 16; i++ {
		if field&(1<<i) != 0 {
			labels = append(labels, typeDetails[i])
		}
	}
	return labels
}
