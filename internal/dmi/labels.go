package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "fmt"

var formFactors = [...]string{
	"?",
	"Other", "Unknown", "SIMM", "SIP", "Chip", "DIP", "ZIP",
	"Proprietary Card", "DIMM", "TSOP", "Row of chips", "RIMM",
	"SODIMM", "SRIMM", "FB-DIMM", "Die",
}

var memoryTypes = [...]string{
	"?",
	"Other", "Unknown", "DRAM", "EDRAM", "VRAM", "SRAM", "RAM",
	"ROM", "FLASH", "EEPROM", "FEPROM", "EPROM", "CDRAM", "3DRAM",
	"SDRAM", "SGRAM", "RDRAM", "DDR", "DDR2", "DDR2 FB-DIMM",
	"Reserved", "Reserved", "Reserved", "DDR3", "FBD2", "DDR4",
	"LPDDR", "LPDDR2", "LPDDR3", "LPDDR4", "Logical non-volatile device",
	"HBM", "HBM2", "DDR5", "LPDDR5", "HBM3",
}

var typeDetails = [16]string{
	"Reserved", "Other", "Unknown", "Fast-paged", "Static Column",
	"Pseudo static", "RAMBUS", "Synchronous", "CMOS", "EDO",
	"Window DRAM", "Cache DRAM", "Non-volatile", "Res13", "Res14", "Res15",
}

var arrayLocations = [...]string{
	"?",
	"Other", "Unknown", "System Board Or Motherboard", "ISA Add-on Card",
	"EISA Add-on Card", "PCI Add-on Card", "MCA Add-on Card",
	"PCMCIA Add-on Card", "Proprietary Add-on Card", "NuBus",
}

var arrayUses = [...]string{
	"?",
	"Other", "Unknown", "System Memory", "Video Memory", "Flash Memory",
	"Non-volatile RAM", "Cache Memory",
}

var errorCorrectionTypes = [...]string{
	"?",
	"Other", "Unknown", "None", "Parity", "Single-bit ECC",
	"Multi-bit ECC", "CRC",
}

func lookup(table []string, v uint8) string {
	if int(v) >= len(table) {
		return fmt.Sprintf("<%d>", v)
	}
	return table[v]
}

// FormFactorLabel names a memory device form factor code.
func FormFactorLabel(v uint8) string { return lookup(formFactors[:], v) }

// MemoryTypeLabel names a memory device type code.
func MemoryTypeLabel(v uint8) string { return lookup(memoryTypes[:], v) }

// ArrayLocationLabel names a memory array location code. Codes from 0xA0
// up are vendor add-on locations that are not named.
func ArrayLocationLabel(v uint8) string { return lookup(arrayLocations[:], v) }

// ArrayUseLabel names a memory array use code.
func ArrayUseLabel(v uint8) string { return lookup(arrayUses[:], v) }

// ErrorCorrectionLabel names a memory array error correction code.
func ErrorCorrectionLabel(v uint8) string { return lookup(errorCorrectionTypes[:], v) }
