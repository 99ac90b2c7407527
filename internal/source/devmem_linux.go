package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"os"

	"dmimap/internal/dmi"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

const devMemPath = "/dev/mem"

// DevMem reads physical memory through /dev/mem. Each window is mapped,
// copied into a new slice and unmapped before ReadWindow returns.
type DevMem struct {
	Path         string // defaults to /dev/mem
	WindowStart  uint64
	WindowLength int
}

func (m *DevMem) path() string {
	if m.Path == "" {
		return devMemPath
	}
	return m.Path
}

// Load scans the configured firmware window for the anchor and reads the
// table it points to.
func (m *DevMem) Load() (dmi.Anchor, []byte, error) {
	return dmi.LoadWindow(m, m.WindowStart, m.WindowLength)
}

// ReadWindow returns a copy of length bytes of physical memory at start.
func (m *DevMem) ReadWindow(start uint64, length int) ([]byte, error) {
	if length <= 0 {
		return nil, errors.Wrapf(dmi.ErrIO, "invalid window length %d", length)
	}
	f, err := os.Open(m.path())
	if err != nil {
		return nil, errors.Wrapf(dmi.ErrIO, "cannot open %s for DMI decoding: %v", m.path(), err)
	}
	defer f.Close()
	pageSize := uint64(os.Getpagesize())
	base := start &^ (pageSize - 1)
	corr := int(start - base)
	mem, err := unix.Mmap(int(f.Fd()), int64(base), corr+length, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, errors.Wrapf(dmi.ErrIO, "cannot mmap %#x: %v", start, err)
	}
	defer func() {
		if err := unix.Munmap(mem); err != nil {
			slog.Warn("failed to unmap physical memory", slog.String("error", err.Error()))
		}
	}()
	if len(mem) < corr+length {
		return nil, errors.Wrapf(dmi.ErrIO, "short mapping at %#x: %d bytes", start, len(mem)-corr)
	}
	out := make([]byte, length)
	copy(out, mem[corr:corr+length])
	return out, nil
}
