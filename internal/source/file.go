package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"errors"
	"log/slog"
	"os"

	"dmimap/internal/dmi"
	"dmimap/internal/util"

	"github.com/digitalocean/go-smbios/smbios"
	pkgerrors "github.com/pkg/errors"
)

// File reads a binary dump as written by `dmidecode --dump-bin`: the entry
// point at offset 0 and the table at the offset the (rewritten) entry point
// names, normally 0x20. The file is treated as physical memory starting at 0.
type File struct {
	Path  string
	image []byte
}

func (f *File) read() error {
	if f.image != nil {
		return nil
	}
	path, err := util.AbsPath(f.Path)
	if err != nil {
		return pkgerrors.Wrapf(dmi.ErrIO, "%s: %v", f.Path, err)
	}
	image, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return pkgerrors.Wrapf(dmi.ErrIO, "%v", err)
	}
	f.image = image
	return nil
}

// Load finds a 32-bit anchor anywhere in the first firmware window worth of
// the file, falling back to a 64-bit entry point at offset 0.
func (f *File) Load() (dmi.Anchor, []byte, error) {
	if err := f.read(); err != nil {
		return dmi.Anchor{}, nil, err
	}
	window := min(len(f.image), dmi.FirmwareWindowLength)
	anchor, table, err := dmi.LoadWindow(f, 0, window)
	if err == nil || !errors.Is(err, dmi.ErrTableNotFound) {
		return anchor, table, err
	}
	ep, epErr := smbios.ParseEntryPoint(bytes.NewReader(f.image))
	if epErr != nil {
		slog.Debug("no 64-bit entry point in dump", slog.String("error", epErr.Error()))
		return dmi.Anchor{}, nil, err
	}
	anchor = anchorFromEntryPoint(ep)
	if anchor.TableAddress > uint64(len(f.image)) {
		return dmi.Anchor{}, nil, pkgerrors.Wrapf(dmi.ErrIO, "table at %#x is outside the %d byte dump", anchor.TableAddress, len(f.image))
	}
	table, err = readTable(bytes.NewReader(f.image[anchor.TableAddress:]), anchor.TableLength)
	if err != nil {
		return dmi.Anchor{}, nil, err
	}
	return anchor, table, nil
}

// ReadWindow returns a copy of length bytes of the dump at offset start.
func (f *File) ReadWindow(start uint64, length int) ([]byte, error) {
	if err := f.read(); err != nil {
		return nil, err
	}
	if length < 0 || start > uint64(len(f.image)) || uint64(len(f.image))-start < uint64(length) {
		return nil, pkgerrors.Wrapf(dmi.ErrIO, "%s: %d bytes at %#x past end of %d byte dump", f.Path, length, start, len(f.image))
	}
	out := make([]byte, length)
	copy(out, f.image[start:])
	return out, nil
}
