package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheck(t *testing.T) {
	deviceWithoutLocatorString := deviceRecord(0x1101, 0x0400, "")
	deviceWithoutLocatorString.strings = nil
	put8(deviceWithoutLocatorString.data, devManufacturer, 0)
	put8(deviceWithoutLocatorString.data, devSerialNumber, 0)
	put8(deviceWithoutLocatorString.data, devPartNumber, 0)
	put8(deviceWithoutLocatorString.data, devBankLocator, 0)

	tests := []struct {
		name     string
		records  []record
		reliable bool
	}{
		{
			name: "two dimms two ranges",
			records: []record{
				arrayRecord(0x1000, 2),
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRangeRecord(0x3001, 2000, 3000, 0x1101),
				deviceRangeRecord(0x3000, 1000, 1999, 0x1100),
			},
			reliable: true,
		},
		{
			// the end of one range equal to the start of the next counts as overlap
			name:     "adjacent ranges",
			records:  twoDimmTable(),
			reliable: false,
		},
		{
			name: "no device ranges",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
			},
			reliable: false,
		},
		{
			name: "overlapping ranges",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRangeRecord(0x3000, 1000, 2500, 0x1100),
				deviceRangeRecord(0x3001, 2000, 3000, 0x1101),
			},
			reliable: false,
		},
		{
			name: "touching ranges",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRangeRecord(0x3000, 1000, 1999, 0x1100),
				deviceRangeRecord(0x3001, 1999, 3000, 0x1101),
			},
			reliable: false,
		},
		{
			name: "one range for three dimms",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRecord(0x1102, 0x0400, "DIMM_C1"),
				deviceRangeRecord(0x3000, 0, 3000, 0x1100),
			},
			reliable: false,
		},
		{
			name: "two ranges for three dimms",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRecord(0x1102, 0x0400, "DIMM_C1"),
				deviceRangeRecord(0x3000, 0, 1000, 0x1100),
				deviceRangeRecord(0x3001, 2000, 3000, 0x1101),
			},
			reliable: true,
		},
		{
			name: "one range for two dimms",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_B1"),
				deviceRangeRecord(0x3000, 0, 3000, 0x1100),
			},
			reliable: true,
		},
		{
			name: "missing locator string",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceWithoutLocatorString,
				deviceRangeRecord(0x3000, 1000, 2000, 0x1100),
				deviceRangeRecord(0x3001, 3000, 4000, 0x1101),
			},
			reliable: false,
		},
		{
			name: "empty locator",
			records: []record{
				deviceRecord(0x1100, 0x0400, ""),
				deviceRangeRecord(0x3000, 1000, 2000, 0x1100),
			},
			reliable: false,
		},
		{
			name: "duplicate locators",
			records: []record{
				deviceRecord(0x1100, 0x0400, "DIMM_A1"),
				deviceRecord(0x1101, 0x0400, "DIMM_A1"),
				deviceRangeRecord(0x3000, 1000, 2000, 0x1100),
				deviceRangeRecord(0x3001, 3000, 4000, 0x1101),
			},
			reliable: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := decoderFor(tt.records...)
			assert.Equal(t, tt.reliable, d.IsDatasetReliable())
			if tt.reliable {
				assert.NoError(t, d.Unreliable())
			} else {
				assert.ErrorIs(t, d.Unreliable(), ErrUnreliable)
			}
		})
	}
}

func TestCheckEmptyCollection(t *testing.T) {
	assert.ErrorIs(t, Check(&Collection{}), ErrUnreliable)
}
