package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/pkg/errors"
)

// Check validates the internal consistency of a collection whose ranges
// have been sorted. It returns nil if the DIMM mapping can be trusted and
// otherwise an error wrapping ErrUnreliable that names the first failed
// check. Vendor tables are often wrong, so an error here is a verdict, not
// a reason to stop decoding.
func Check(c *Collection) error {
	if len(c.DeviceRanges) == 0 {
		return errors.WithMessage(ErrUnreliable, "no memory device address ranges")
	}
	// counts ranges, not start-value transitions: one range for more than
	// two devices fails, two ranges pass
	distinct := 1
	for k := 1; k < len(c.DeviceRanges); k++ {
		prev, next := c.DeviceRanges[k-1], c.DeviceRanges[k]
		if next.Start() <= prev.End() {
			return errors.WithMessagef(ErrUnreliable, "address range %s overlaps %s", hex16(next.Handle), hex16(prev.Handle))
		}
		distinct++
	}
	if distinct == 1 && len(c.Devices) > 2 {
		return errors.WithMessagef(ErrUnreliable, "not enough unique address ranges for %d memory devices", len(c.Devices))
	}
	locators := mapset.NewThreadUnsafeSet[string]()
	for _, d := range c.Devices {
		loc, err := d.DeviceLocator()
		if err != nil {
			return errors.WithMessagef(ErrUnreliable, "missing locator: %v", err)
		}
		if loc == "" {
			return errors.WithMessagef(ErrUnreliable, "missing locator for memory device %s", hex16(d.Handle))
		}
		if !locators.Add(loc) {
			return errors.WithMessagef(ErrUnreliable, "ambiguous locator %q", loc)
		}
	}
	return nil
}
