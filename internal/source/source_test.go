package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/binary"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dmimap/internal/dmi"

	"github.com/digitalocean/go-smbios/smbios"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// endOfTable is a lone type 127 structure
var endOfTable = []byte{127, 4, 0xFF, 0xFE, 0, 0}

func sum(b []byte) uint8 {
	var s uint8
	for _, v := range b {
		s += v
	}
	return s
}

func entryPoint32(tableAddress uint32, tableLength uint16, entries uint16) []byte {
	ep := make([]byte, 0x1F)
	copy(ep, "_SM_")
	ep[5] = 0x1F
	ep[6] = 2
	ep[7] = 8
	copy(ep[0x10:], "_DMI_")
	binary.LittleEndian.PutUint16(ep[0x16:], tableLength)
	binary.LittleEndian.PutUint32(ep[0x18:], tableAddress)
	binary.LittleEndian.PutUint16(ep[0x1C:], entries)
	ep[0x15] = -sum(ep[0x10:0x1F])
	ep[4] = -sum(ep)
	return ep
}

func entryPoint64(tableAddress uint64, maxSize uint32) []byte {
	ep := make([]byte, 0x18)
	copy(ep, "_SM3_")
	ep[6] = 0x18
	ep[7] = 3
	ep[8] = 2
	ep[10] = 1
	binary.LittleEndian.PutUint32(ep[0x0C:], maxSize)
	binary.LittleEndian.PutUint64(ep[0x10:], tableAddress)
	ep[5] = -sum(ep)
	return ep
}

// writeDump lays out a dmidecode style dump: entry point at 0, table at 0x20
func writeDump(t *testing.T, ep []byte, table []byte) string {
	t.Helper()
	image := make([]byte, 0x20)
	copy(image, ep)
	image = append(image, table...)
	path := filepath.Join(t.TempDir(), "dmi.bin")
	require.NoError(t, os.WriteFile(path, image, 0o600))
	return path
}

func TestFileLoad32Bit(t *testing.T) {
	path := writeDump(t, entryPoint32(0x20, uint16(len(endOfTable)), 1), endOfTable)
	src := &File{Path: path}
	anchor, table, err := src.Load()
	require.NoError(t, err)
	assert.Equal(t, "_SM_", anchor.Signature)
	assert.Equal(t, uint64(0x20), anchor.TableAddress)
	assert.Equal(t, 1, anchor.EntryCount)
	assert.Equal(t, endOfTable, table)
}

func TestFileLoad64Bit(t *testing.T) {
	path := writeDump(t, entryPoint64(0x20, 0x1000), endOfTable)
	anchor, table, err := (&File{Path: path}).Load()
	require.NoError(t, err)
	assert.Equal(t, "_SM3_", anchor.Signature)
	assert.Equal(t, uint8(3), anchor.MajorVersion)
	assert.Equal(t, uint8(2), anchor.MinorVersion)
	assert.Equal(t, dmi.UnknownEntryCount, anchor.EntryCount)
	// the maximum size is larger than the dump, so the rest of the file is read
	assert.Equal(t, endOfTable, table)
}

func TestFileLoadNoAnchor(t *testing.T) {
	path := writeDump(t, make([]byte, 0x1F), endOfTable)
	_, _, err := (&File{Path: path}).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, dmi.ErrTableNotFound)
}

func TestFileLoadTablePastEnd(t *testing.T) {
	path := writeDump(t, entryPoint32(0x20, 0x100, 1), endOfTable)
	_, _, err := (&File{Path: path}).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, dmi.ErrIO)
}

func TestFileMissing(t *testing.T) {
	_, _, err := (&File{Path: filepath.Join(t.TempDir(), "missing.bin")}).Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, dmi.ErrIO)
}

func TestFileReadWindow(t *testing.T) {
	path := writeDump(t, entryPoint32(0x20, uint16(len(endOfTable)), 1), endOfTable)
	f := &File{Path: path}
	b, err := f.ReadWindow(0x20, len(endOfTable))
	require.NoError(t, err)
	assert.Equal(t, endOfTable, b)
	b[0] = 0
	again, err := f.ReadWindow(0x20, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte{127}, again, "returned windows are copies")

	_, err = f.ReadWindow(0x20, len(endOfTable)+1)
	assert.ErrorIs(t, err, dmi.ErrIO)
	_, err = f.ReadWindow(1<<40, 1)
	assert.ErrorIs(t, err, dmi.ErrIO)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		want    any
		wantErr string
	}{
		{name: "file", opts: Options{Kind: KindFile, Input: "dmi.bin"}, want: &File{}},
		{name: "auto with input", opts: Options{Input: "dmi.bin"}, want: &File{}},
		{name: "sysfs", opts: Options{Kind: KindSysfs}, want: Sysfs{}},
		{name: "devmem", opts: Options{Kind: KindDevMem}, want: &DevMem{}},
		{name: "file without input", opts: Options{Kind: KindFile}, wantErr: "requires an input file"},
		{name: "unknown", opts: Options{Kind: "efi"}, wantErr: "unknown table source"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := New(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, src)
		})
	}
}

func TestNewDevMemDefaults(t *testing.T) {
	src, err := New(Options{Kind: KindDevMem})
	require.NoError(t, err)
	m := src.(*DevMem)
	assert.Equal(t, uint64(dmi.FirmwareWindowStart), m.WindowStart)
	assert.Equal(t, dmi.FirmwareWindowLength, m.WindowLength)

	src, err = New(Options{Kind: KindDevMem, Input: "/tmp/mem", WindowStart: 0x1000, WindowLength: 0x200})
	require.NoError(t, err)
	m = src.(*DevMem)
	assert.Equal(t, "/tmp/mem", m.Path)
	assert.Equal(t, uint64(0x1000), m.WindowStart)
	assert.Equal(t, 0x200, m.WindowLength)
}

func TestValidKind(t *testing.T) {
	for _, k := range Kinds {
		assert.True(t, ValidKind(k), k)
	}
	assert.False(t, ValidKind("efi"))
	assert.False(t, ValidKind(""))
}

func TestAnchorFromEntryPoint(t *testing.T) {
	a := anchorFromEntryPoint(&smbios.EntryPoint32Bit{
		Anchor:                "_SM_",
		Checksum:              0x42,
		Length:                0x1F,
		Major:                 2,
		Minor:                 7,
		StructureTableLength:  0x800,
		StructureTableAddress: 0xE0000,
		NumberStructures:      40,
	})
	assert.Equal(t, dmi.Anchor{
		Signature:    "_SM_",
		Checksum:     0x42,
		Length:       0x1F,
		MajorVersion: 2,
		MinorVersion: 7,
		TableAddress: 0xE0000,
		TableLength:  0x800,
		EntryCount:   40,
	}, a)

	a = anchorFromEntryPoint(&smbios.EntryPoint64Bit{
		Anchor:                "_SM3_",
		Length:                0x18,
		Major:                 3,
		Minor:                 3,
		StructureTableMaxSize: 0x4000,
		StructureTableAddress: 0x7A000000,
	})
	assert.Equal(t, "_SM3_", a.Signature)
	assert.Equal(t, uint64(0x7A000000), a.TableAddress)
	assert.Equal(t, 0x4000, a.TableLength)
	assert.Equal(t, dmi.UnknownEntryCount, a.EntryCount)
}

func TestReadTable(t *testing.T) {
	b, err := readTable(strings.NewReader("abcdef"), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("abcd"), b)

	b, err = readTable(strings.NewReader("ab"), 4)
	require.NoError(t, err)
	assert.Equal(t, []byte("ab"), b)

	_, err = readTable(strings.NewReader(""), 4)
	assert.ErrorIs(t, err, dmi.ErrIO)
	_, err = readTable(strings.NewReader("ab"), 0)
	assert.ErrorIs(t, err, dmi.ErrIO)
}

func TestStreamError(t *testing.T) {
	const table = "/sys/firmware/dmi/tables/DMI"
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "missing", err: &fs.PathError{Op: "open", Path: table, Err: fs.ErrNotExist}, want: dmi.ErrTableNotFound},
		{name: "not root", err: &fs.PathError{Op: "open", Path: table, Err: fs.ErrPermission}, want: dmi.ErrIO},
		{name: "read failure", err: &fs.PathError{Op: "read", Path: table, Err: errors.New("input/output error")}, want: dmi.ErrIO},
		{name: "no entry point", err: errors.New("failed to find entry point"), want: dmi.ErrTableNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := streamError(tt.err)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorContains(t, err, tt.err.Error())
		})
	}
}
