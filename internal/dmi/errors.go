package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "github.com/pkg/errors"

var (
	// ErrTableNotFound is returned when no valid SMBIOS anchor is found. DIMM
	// decoding should be disabled by the caller.
	ErrTableNotFound = errors.New("SMBIOS DMI table not found")
	// ErrIO is returned when the firmware window or the table cannot be read.
	ErrIO = errors.New("SMBIOS read failed")
	// ErrProtocol marks a malformed individual record. It is recovered
	// locally by skipping the record and is never returned by Initialize.
	ErrProtocol = errors.New("malformed SMBIOS record")
	// ErrUnreliable wraps the reason a decoded dataset failed the sanity check.
	ErrUnreliable = errors.New("SMBIOS DIMM sanity check failed")
)
