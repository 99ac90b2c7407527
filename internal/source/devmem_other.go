//go:build !linux

package source

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"runtime"

	"dmimap/internal/dmi"

	"github.com/pkg/errors"
)

// DevMem is only supported on Linux.
type DevMem struct {
	Path         string
	WindowStart  uint64
	WindowLength int
}

func (m *DevMem) Load() (dmi.Anchor, []byte, error) {
	return dmi.LoadWindow(m, m.WindowStart, m.WindowLength)
}

func (m *DevMem) ReadWindow(start uint64, length int) ([]byte, error) {
	return nil, errors.Wrapf(dmi.ErrIO, "physical memory access is not supported on %s", runtime.GOOS)
}
