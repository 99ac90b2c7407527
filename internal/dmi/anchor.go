package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/binary"
	"log/slog"

	"github.com/pkg/errors"
)

// Conventional legacy BIOS region scanned for the entry point.
const (
	FirmwareWindowStart  = 0xF0000
	FirmwareWindowLength = 0x10000
)

// UnknownEntryCount is the entry count of an anchor that does not declare
// one (64-bit entry points). The walk is then bounded by table length only.
const UnknownEntryCount = -1

const anchorSize = 0x1F

// minAnchorLength accepts the SMBIOS 2.1 entry points that declare 0x1E
// bytes; parseAnchor reads nothing beyond that.
const minAnchorLength = 0x1E

var anchorSignature = []byte("_SM_")

// Anchor is the SMBIOS entry point structure.
type Anchor struct {
	Signature    string
	Checksum     uint8
	Length       uint8 // entry point length, covered by Checksum
	MajorVersion uint8
	MinorVersion uint8
	TableAddress uint64
	TableLength  int
	EntryCount   int
}

// checksum returns the byte sum of b modulo 256
func checksum(b []byte) uint8 {
	var sum uint8
	for _, c := range b {
		sum += c
	}
	return sum
}

// FindAnchor scans window for the first "_SM_" signature whose entry point
// checksums to zero. Candidates may start at any byte offset.
func FindAnchor(window []byte) (Anchor, error) {
	for pos := 0; pos < len(window); {
		i := bytes.Index(window[pos:], anchorSignature)
		if i < 0 {
			break
		}
		off := pos + i
		pos = off + 1
		candidate := window[off:]
		if len(candidate) < minAnchorLength {
			slog.Debug("anchor candidate truncated", slog.Int("offset", off))
			continue
		}
		epLen := int(candidate[5])
		if epLen < minAnchorLength || epLen > len(candidate) {
			slog.Debug("anchor candidate has bad length", slog.Int("offset", off), slog.Int("length", epLen))
			continue
		}
		if checksum(candidate[:epLen]) != 0 {
			slog.Debug("anchor candidate checksum mismatch", slog.Int("offset", off))
			continue
		}
		a := parseAnchor(candidate)
		slog.Debug("found SMBIOS anchor", slog.Int("offset", off), slog.Uint64("table", a.TableAddress), slog.Int("length", a.TableLength), slog.Int("entries", a.EntryCount))
		return a, nil
	}
	return Anchor{}, errors.WithMessagef(ErrTableNotFound, "no valid anchor in %d byte window", len(window))
}

// parseAnchor decodes a 32-bit entry point; b holds at least minAnchorLength bytes
func parseAnchor(b []byte) Anchor {
	return Anchor{
		Signature:    string(b[0:4]),
		Checksum:     b[4],
		Length:       b[5],
		MajorVersion: b[6],
		MinorVersion: b[7],
		TableLength:  int(binary.LittleEndian.Uint16(b[0x16:0x18])),
		TableAddress: uint64(binary.LittleEndian.Uint32(b[0x18:0x1C])),
		EntryCount:   int(binary.LittleEndian.Uint16(b[0x1C:0x1E])),
	}
}
