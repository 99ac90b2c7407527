package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"dmimap/internal/dmi"
)

// Resolution pairs a queried physical address with the DIMMs behind it.
type Resolution struct {
	Address uint64
	Devices []dmi.MemoryDevice
}

// NotFound is the line printed for an address without a DIMM.
func NotFound(addr uint64) string {
	return fmt.Sprintf("No DIMM found for %x in SMBIOS", addr)
}

// ResolutionText renders each resolution as a DIMM description per device,
// or the not found line.
func ResolutionText(results []Resolution) string {
	var sb strings.Builder
	for _, r := range results {
		if len(r.Devices) == 0 {
			sb.WriteString(NotFound(r.Address) + "\n")
			continue
		}
		for _, dev := range r.Devices {
			sb.WriteString(DescribeDevice(dev))
		}
	}
	return sb.String()
}

// DescribeDevice renders a memory device as a summary line followed by its
// locator and vendor strings. Strings that are missing, empty or "None" are
// left out.
func DescribeDevice(dev dmi.MemoryDevice) string {
	memType, _ := dev.MemoryType()
	words := []string{dmi.MemoryTypeLabel(memType)}
	if ff := dev.FormFactor(); ff >= 3 {
		words = append(words, dmi.FormFactorLabel(ff))
	}
	if speed, _ := dev.Speed(); speed != 0 {
		words = append(words, fmt.Sprintf("%d Mhz", speed))
	}
	if td, ok := dev.TypeDetail(); ok {
		words = append(words, dmi.DecodeTypeDetails(td)...)
	}
	dataWidth, _ := dev.DataWidth()
	size, unit := deviceSize(dev)
	words = append(words, fmt.Sprintf("Width %d Data Width %d Size %d %s", dev.TotalWidth(), dataWidth, size, unit))

	var sb strings.Builder
	sb.WriteString(strings.Join(words, " ") + "\n")
	writeString := func(name string, get func() (string, error)) {
		s, err := get()
		if err != nil || s == "" || s == "None" {
			return
		}
		fmt.Fprintf(&sb, "%s: %s\n", name, s)
	}
	writeString("Device Locator", dev.DeviceLocator)
	writeString("Bank Locator", dev.BankLocator)
	if !dev.HasVendorInfo() {
		return sb.String()
	}
	writeString("Manufacturer", dev.Manufacturer)
	writeString("Serial Number", dev.SerialNumber)
	writeString("Asset Tag", dev.AssetTag)
	writeString("Part Number", dev.PartNumber)
	return sb.String()
}

// deviceSize is DecodeSize, with the extended size field used when the
// size field holds the 0x7FFF escape
func deviceSize(dev dmi.MemoryDevice) (uint32, string) {
	if dev.Size() == 0x7FFF {
		if ext, ok := dev.ExtendedSize(); ok {
			mb := ext & 0x7FFFFFFF
			if mb >= 1024 {
				return mb / 1024, "GB"
			}
			return mb, "MB"
		}
	}
	return dmi.DecodeSize(dev.Size())
}

func sizeString(dev dmi.MemoryDevice) string {
	size, unit := deviceSize(dev)
	return fmt.Sprintf("%d %s", size, unit)
}
