package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "log/slog"

// UnreliableWarning is logged once when an address is first resolved
// against a dataset that failed the sanity check. Commands also print it.
const UnreliableWarning = "SMBIOS data is often unreliable. Take with a grain of salt!"

// ResolveAddress returns the memory devices whose device mapped address
// range contains the physical byte address addr, in range order. Ranges
// whose handle does not name a memory device are ignored. The returned
// slice is newly allocated and empty, not nil, when nothing matches.
//
// Interleaved sets that are only described by a shared array mapped
// address range are not resolved.
func (d *Decoder) ResolveAddress(addr uint64) []MemoryDevice {
	devs := make([]MemoryDevice, 0, 2)
	for _, r := range d.coll.DeviceRanges {
		if !r.Contains(addr) {
			continue
		}
		dev, ok := d.device(r.DeviceHandle())
		if !ok {
			slog.Debug("range handle does not resolve", slog.String("range", hex16(r.Handle)), slog.String("device", hex16(r.DeviceHandle())))
			continue
		}
		devs = append(devs, dev)
	}
	if len(devs) > 0 && d.unreliable != nil {
		d.warnOnce.Do(func() {
			slog.Warn(UnreliableWarning, slog.String("reason", d.unreliable.Error()))
		})
	}
	return devs
}

// device looks up a memory device record by handle
func (d *Decoder) device(handle uint16) (MemoryDevice, bool) {
	e, ok := d.table.Lookup(handle)
	if !ok || e.Type != TypeMemoryDevice || int(e.Length) < minMemoryDevice {
		return MemoryDevice{}, false
	}
	return MemoryDevice{e}, true
}
