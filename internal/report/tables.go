package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strconv"

	"dmimap/internal/dmi"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// table names
const (
	SummaryTableName     = "SMBIOS"
	ArrayTableName       = "Memory Arrays"
	DeviceTableName      = "Memory Devices"
	DeviceRangeTableName = "Memory Device Mapped Addresses"
	ArrayRangeTableName  = "Memory Array Mapped Addresses"
	ResolutionTableName  = "Address Resolution"
)

var printer = message.NewPrinter(language.English)

func hex16(v uint16) string { return fmt.Sprintf("%#06x", v) }
func hex32(v uint32) string { return fmt.Sprintf("%#x", v) }

// optional formats a field that may be absent from a short record
func optional[T uint8 | uint16 | uint32 | uint64](v T, ok bool) string {
	if !ok {
		return ""
	}
	return strconv.FormatUint(uint64(v), 10)
}

func optionalHandle(h uint16, ok bool) string {
	if !ok {
		return ""
	}
	return hex16(h)
}

func str(get func() (string, error)) string {
	s, _ := get()
	return s
}

// DumpTables returns every table rendered by the dump command.
func DumpTables(d *dmi.Decoder) []TableValues {
	return []TableValues{
		SummaryTable(d),
		ArrayTable(d.Arrays()),
		DeviceTable(d.Devices()),
		DeviceRangeTable(d.DeviceRanges()),
		ArrayRangeTable(d.ArrayRanges()),
	}
}

// SummaryTable describes the entry point and the outcome of decoding.
func SummaryTable(d *dmi.Decoder) TableValues {
	a := d.Anchor()
	entries := "unknown"
	if a.EntryCount != dmi.UnknownEntryCount {
		entries = strconv.Itoa(a.EntryCount)
	}
	mapped := mapset.NewThreadUnsafeSet[uint16]()
	for _, r := range d.DeviceRanges() {
		mapped.Add(r.DeviceHandle())
	}
	reliable, reason := "yes", ""
	if err := d.Unreliable(); err != nil {
		reliable, reason = "no", err.Error()
	}
	t := newTable(SummaryTableName, false,
		"Signature", "Version", "Table Address", "Table Length", "Entries", "Records Walked",
		"Skipped Records", "Mapped Devices", "Reliable", "Reason")
	t.addRow(
		a.Signature,
		fmt.Sprintf("%d.%d", a.MajorVersion, a.MinorVersion),
		fmt.Sprintf("%#x", a.TableAddress),
		printer.Sprintf("%d bytes", a.TableLength),
		entries,
		strconv.Itoa(len(d.Entries())),
		strconv.Itoa(d.Skipped()),
		strconv.Itoa(mapped.Cardinality()),
		reliable,
		reason,
	)
	return t
}

func ArrayTable(arrays []dmi.MemoryArray) TableValues {
	t := newTable(ArrayTableName, true,
		"Handle", "Location", "Use", "Error Correction", "Error Handle", "Maximum Capacity", "Devices")
	for _, a := range arrays {
		capacity := ""
		if kb, ok := a.MaxCapacity(); ok {
			if ext, extOK := a.ExtendedMaxCapacity(); kb == 0x80000000 && extOK {
				capacity = printer.Sprintf("%d bytes", ext)
			} else {
				capacity = printer.Sprintf("%d KB", kb)
			}
		}
		numDevices, ok := a.NumDevices()
		t.addRow(
			hex16(a.Handle),
			dmi.ArrayLocationLabel(a.Location()),
			dmi.ArrayUseLabel(a.Use()),
			dmi.ErrorCorrectionLabel(a.ErrorCorrection()),
			optionalHandle(a.ErrorInfoHandle()),
			capacity,
			optional(numDevices, ok),
		)
	}
	t.NoDataFound = "No memory arrays found."
	return t
}

func DeviceTable(devices []dmi.MemoryDevice) TableValues {
	t := newTable(DeviceTableName, true,
		"Handle", "Array", "Locator", "Bank", "Type", "Form Factor", "Speed", "Configured Speed",
		"Size", "Width", "Data Width", "Set", "Rank", "Error Handle", "Manufacturer", "Serial Number", "Part Number")
	for _, dev := range devices {
		memType, _ := dev.MemoryType()
		speed, speedOK := dev.Speed()
		dataWidth, dataWidthOK := dev.DataWidth()
		configured, configuredOK := dev.ConfiguredSpeed()
		attributes, attributesOK := dev.Attributes()
		t.addRow(
			hex16(dev.Handle),
			hex16(dev.ArrayHandle()),
			str(dev.DeviceLocator),
			str(dev.BankLocator),
			dmi.MemoryTypeLabel(memType),
			dmi.FormFactorLabel(dev.FormFactor()),
			optional(speed, speedOK),
			optional(configured, configuredOK),
			sizeString(dev),
			strconv.Itoa(int(dev.TotalWidth())),
			optional(dataWidth, dataWidthOK),
			strconv.Itoa(int(dev.DeviceSet())),
			optional(attributes&0x0F, attributesOK), // rank
			optionalHandle(dev.ErrorInfoHandle()),
			str(dev.Manufacturer),
			str(dev.SerialNumber),
			str(dev.PartNumber),
		)
	}
	t.NoDataFound = "No memory devices found."
	return t
}

func DeviceRangeTable(ranges []dmi.MemoryDeviceAddress) TableValues {
	t := newTable(DeviceRangeTableName, true,
		"Handle", "Start (KB)", "End (KB)", "Size", "Device", "Array Address", "Row",
		"Interleave Position", "Interleave Depth")
	for _, r := range ranges {
		arrayAddr, arrayAddrOK := r.ArrayAddressHandle()
		arrayAddrHandle := ""
		if arrayAddrOK {
			arrayAddrHandle = hex16(arrayAddr)
		}
		row, rowOK := r.Row()
		pos, posOK := r.InterleavePosition()
		depth, depthOK := r.InterleaveDepth()
		t.addRow(
			hex16(r.Handle),
			hex32(r.Start()),
			hex32(r.End()),
			rangeSize(r.Start(), r.End()),
			hex16(r.DeviceHandle()),
			arrayAddrHandle,
			optional(row, rowOK),
			optional(pos, posOK),
			optional(depth, depthOK),
		)
	}
	t.NoDataFound = "No memory device mapped addresses found."
	return t
}

func ArrayRangeTable(ranges []dmi.MemoryArrayAddress) TableValues {
	t := newTable(ArrayRangeTableName, true,
		"Handle", "Start (KB)", "End (KB)", "Size", "Array", "Partition Width")
	for _, r := range ranges {
		width, widthOK := r.PartitionWidth()
		t.addRow(
			hex16(r.Handle),
			hex32(r.Start()),
			hex32(r.End()),
			rangeSize(r.Start(), r.End()),
			hex16(r.ArrayHandle()),
			optional(width, widthOK),
		)
	}
	t.NoDataFound = "No memory array mapped addresses found."
	return t
}

// rangeSize formats the length of [start, end) KB; inverted ranges are left blank
func rangeSize(start, end uint32) string {
	if end < start {
		return ""
	}
	return printer.Sprintf("%d KB", end-start)
}

// ResolutionTable has one row per resolved DIMM. An address without a DIMM
// gets a row with only the address set.
func ResolutionTable(results []Resolution) TableValues {
	t := newTable(ResolutionTableName, true,
		"Address", "Handle", "Locator", "Bank", "Type", "Size", "Manufacturer", "Serial Number", "Part Number")
	for _, r := range results {
		addr := fmt.Sprintf("%#x", r.Address)
		if len(r.Devices) == 0 {
			t.addRow(addr)
			continue
		}
		for _, dev := range r.Devices {
			memType, _ := dev.MemoryType()
			t.addRow(
				addr,
				hex16(dev.Handle),
				str(dev.DeviceLocator),
				str(dev.BankLocator),
				dmi.MemoryTypeLabel(memType),
				sizeString(dev),
				str(dev.Manufacturer),
				str(dev.SerialNumber),
				str(dev.PartNumber),
			)
		}
	}
	return t
}
