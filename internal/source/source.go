/*
Package source acquires the SMBIOS entry point and entry table from the
running system or from a dump file.
*/
package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"slices"

	"dmimap/internal/dmi"
	"dmimap/internal/util"

	"github.com/digitalocean/go-smbios/smbios"
)

// source kinds
const (
	KindAuto   = "auto"
	KindDevMem = "devmem"
	KindSysfs  = "sysfs"
	KindFile   = "file"
)

// Kinds lists the accepted source kinds.
var Kinds = []string{KindAuto, KindDevMem, KindSysfs, KindFile}

// sysfsTablePath is where Linux exposes the raw DMI table
const sysfsTablePath = "/sys/firmware/dmi/tables/DMI"

// Options selects and configures a table source.
type Options struct {
	Kind         string
	Input        string // dump file for KindFile, device path for KindDevMem
	WindowStart  uint64
	WindowLength int
}

// New returns the table source described by opts.
func New(opts Options) (dmi.TableSource, error) {
	if opts.WindowLength == 0 {
		opts.WindowStart = dmi.FirmwareWindowStart
		opts.WindowLength = dmi.FirmwareWindowLength
	}
	kind := opts.Kind
	if kind == "" || kind == KindAuto {
		kind = detect(opts)
	}
	slog.Debug("using table source", slog.String("kind", kind), slog.String("input", opts.Input))
	switch kind {
	case KindDevMem:
		return &DevMem{Path: opts.Input, WindowStart: opts.WindowStart, WindowLength: opts.WindowLength}, nil
	case KindSysfs:
		return Sysfs{}, nil
	case KindFile:
		if opts.Input == "" {
			return nil, fmt.Errorf("the %s source requires an input file", KindFile)
		}
		return &File{Path: opts.Input}, nil
	}
	return nil, fmt.Errorf("unknown table source %q, expected one of %v", opts.Kind, Kinds)
}

// ValidKind reports whether kind names a table source.
func ValidKind(kind string) bool {
	return slices.Contains(Kinds, kind)
}

func detect(opts Options) string {
	if opts.Input != "" {
		return KindFile
	}
	if exists, err := util.FileExists(sysfsTablePath); err == nil && exists {
		return KindSysfs
	}
	return KindDevMem
}

// anchorFromEntryPoint converts a parsed go-smbios entry point
func anchorFromEntryPoint(ep smbios.EntryPoint) dmi.Anchor {
	address, size := ep.Table()
	major, minor, _ := ep.Version()
	a := dmi.Anchor{
		MajorVersion: uint8(major),
		MinorVersion: uint8(minor),
		TableAddress: uint64(address),
		TableLength:  size,
		EntryCount:   dmi.UnknownEntryCount,
	}
	switch e := ep.(type) {
	case *smbios.EntryPoint32Bit:
		a.Signature = e.Anchor
		a.Checksum = e.Checksum
		a.Length = e.Length
		a.EntryCount = int(e.NumberStructures)
	case *smbios.EntryPoint64Bit:
		a.Signature = e.Anchor
		a.Checksum = e.Checksum
		a.Length = e.Length
	}
	return a
}
