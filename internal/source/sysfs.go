package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"io"
	"io/fs"
	"log/slog"

	"dmimap/internal/dmi"

	"github.com/digitalocean/go-smbios/smbios"
	"github.com/pkg/errors"
)

// Sysfs reads the entry point and table the kernel exports under
// /sys/firmware/dmi/tables. go-smbios falls back to scanning /dev/mem when
// those files are missing.
type Sysfs struct{}

func (Sysfs) Load() (dmi.Anchor, []byte, error) {
	rc, ep, err := smbios.Stream()
	if err != nil {
		return dmi.Anchor{}, nil, streamError(err)
	}
	defer rc.Close()
	anchor := anchorFromEntryPoint(ep)
	table, err := readTable(rc, anchor.TableLength)
	if err != nil {
		return dmi.Anchor{}, nil, err
	}
	slog.Debug("read SMBIOS table from sysfs", slog.String("signature", anchor.Signature), slog.Int("bytes", len(table)))
	return anchor, table, nil
}

// streamError classifies a smbios.Stream failure. Files that exist but
// cannot be read, e.g. without root, are I/O errors; anything else means no
// table was found.
func streamError(err error) error {
	var pathErr *fs.PathError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return errors.WithMessage(dmi.ErrTableNotFound, err.Error())
	case errors.Is(err, fs.ErrPermission), errors.As(err, &pathErr):
		return errors.WithMessage(dmi.ErrIO, err.Error())
	}
	return errors.WithMessage(dmi.ErrTableNotFound, err.Error())
}

// readTable reads at most size bytes of table from r. A 64-bit entry point
// only gives a maximum size, so a shorter table is not an error.
func readTable(r io.Reader, size int) ([]byte, error) {
	if size <= 0 {
		return nil, errors.Wrapf(dmi.ErrIO, "invalid table size %d", size)
	}
	table, err := io.ReadAll(io.LimitReader(r, int64(size)))
	if err != nil {
		return nil, errors.Wrap(dmi.ErrIO, err.Error())
	}
	if len(table) == 0 {
		return nil, errors.Wrap(dmi.ErrIO, "empty SMBIOS table")
	}
	return table, nil
}
