package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// SMBIOS structure types decoded by this package
const (
	TypeMemoryArray        = 16
	TypeMemoryDevice       = 17
	TypeMemoryArrayAddress = 19
	TypeMemoryDeviceAddr   = 20
)

// field offsets within the formatted area
const (
	arrLocation        = 0x04
	arrUse             = 0x05
	arrErrorCorrection = 0x06
	arrMaxCapacity     = 0x07
	arrErrorHandle     = 0x0B
	arrNumDevices      = 0x0D
	arrExtMaxCapacity  = 0x0F

	devArrayHandle     = 0x04
	devErrorHandle     = 0x06
	devTotalWidth      = 0x08
	devDataWidth       = 0x0A
	devSize            = 0x0C
	devFormFactor      = 0x0E
	devDeviceSet       = 0x0F
	devLocator         = 0x10
	devBankLocator     = 0x11
	devMemoryType      = 0x12
	devTypeDetail      = 0x13
	devSpeed           = 0x15
	devManufacturer    = 0x17
	devSerialNumber    = 0x18
	devAssetTag        = 0x19
	devPartNumber      = 0x1A
	devAttributes      = 0x1B
	devExtendedSize    = 0x1C
	devConfiguredSpeed = 0x20

	rngStart = 0x04
	rngEnd   = 0x08

	arrRngArrayHandle    = 0x0C
	arrRngPartitionWidth = 0x0E
	arrRngExtStart       = 0x0F
	arrRngExtEnd         = 0x17

	devRngDeviceHandle    = 0x0C
	devRngArrayAddrHandle = 0x0E
	devRngRow             = 0x10
	devRngInterleavePos   = 0x11
	devRngInterleaveDepth = 0x12
	devRngExtStart        = 0x13
	devRngExtEnd          = 0x1B
)

// Minimum declared lengths: the end of the furthest field each view needs.
const (
	minMemoryArray        = arrLocation + 1
	minMemoryDevice       = devLocator + 1
	minMemoryArrayAddress = arrRngArrayHandle + 2
	minMemoryDeviceAddr   = devRngDeviceHandle + 2
)

// MemoryArray is a type 16 Physical Memory Array.
type MemoryArray struct{ *Entry }

func (a MemoryArray) Location() uint8 { return a.u8(arrLocation) }
func (a MemoryArray) Use() uint8 { return a.u8(arrUse) }
func (a MemoryArray) ErrorCorrection() uint8 { return a.u8(arrErrorCorrection) }

// MaxCapacity is the maximum capacity in kilobytes; 0x80000000 means the
// extended field holds the value in bytes.
func (a MemoryArray) MaxCapacity() (uint32, bool) { return a.Uint32(arrMaxCapacity) }
func (a MemoryArray) ErrorInfoHandle() (uint16, bool) { return a.Uint16(arrErrorHandle) }
func (a MemoryArray) NumDevices() (uint16, bool) { return a.Uint16(arrNumDevices) }
func (a MemoryArray) ExtendedMaxCapacity() (uint64, bool) {
	return a.Uint64(arrExtMaxCapacity)
}

// MemoryDevice is a type 17 Memory Device, i.e. one DIMM or slot.
type MemoryDevice struct{ *Entry }

func (d MemoryDevice) ArrayHandle() uint16 { return d.u16(devArrayHandle) }
func (d MemoryDevice) ErrorInfoHandle() (uint16, bool) { return d.Uint16(devErrorHandle) }
func (d MemoryDevice) TotalWidth() uint16 { return d.u16(devTotalWidth) }
func (d MemoryDevice) DataWidth() (uint16, bool) { return d.Uint16(devDataWidth) }
func (d MemoryDevice) Size() uint16 { return d.u16(devSize) }
func (d MemoryDevice) FormFactor() uint8 { return d.u8(devFormFactor) }
func (d MemoryDevice) DeviceSet() uint8 { return d.u8(devDeviceSet) }
func (d MemoryDevice) MemoryType() (uint8, bool) { return d.Uint8(devMemoryType) }
func (d MemoryDevice) TypeDetail() (uint16, bool) { return d.Uint16(devTypeDetail) }
func (d MemoryDevice) Speed() (uint16, bool) { return d.Uint16(devSpeed) }
func (d MemoryDevice) Attributes() (uint8, bool) { return d.Uint8(devAttributes) }
func (d MemoryDevice) ExtendedSize() (uint32, bool) { return d.Uint32(devExtendedSize) }
func (d MemoryDevice) ConfiguredSpeed() (uint16, bool) {
	return d.Uint16(devConfiguredSpeed)
}

// DeviceLocator returns the slot name, e.g. "DIMM_A1".
func (d MemoryDevice) DeviceLocator() (string, error) { return d.StringField(devLocator) }
func (d MemoryDevice) BankLocator() (string, error) { return d.StringField(devBankLocator) }
func (d MemoryDevice) Manufacturer() (string, error) { return d.StringField(devManufacturer) }
func (d MemoryDevice) SerialNumber() (string, error) { return d.StringField(devSerialNumber) }
func (d MemoryDevice) AssetTag() (string, error) { return d.StringField(devAssetTag) }
func (d MemoryDevice) PartNumber() (string, error) { return d.StringField(devPartNumber) }

// HasVendorInfo reports whether the record is long enough to carry the
// manufacturer, serial, asset tag and part number strings.
func (d MemoryDevice) HasVendorInfo() bool {
	return int(d.Length) > devManufacturer
}

// Capacity returns the module size in bytes. It is false for an empty slot
// or an unknown size.
func (d MemoryDevice) Capacity() (uint64, bool) {
	size := d.Size()
	switch size {
	case 0, 0xFFFF:
		return 0, false
	case 0x7FFF:
		ext, ok := d.ExtendedSize()
		if !ok {
			return 0, false
		}
		return uint64(ext&0x7FFFFFFF) << 20, true
	}
	if size&(1<<15) != 0 {
		return uint64(size&0x7FFF) << 10, true
	}
	return uint64(size) << 20, true
}

// MemoryArrayAddress is a type 19 Memory Array Mapped Address.
type MemoryArrayAddress struct{ *Entry }

// Start and End are in kilobytes; the range is treated as [Start, End).
func (r MemoryArrayAddress) Start() uint32 { return r.u32(rngStart) }
func (r MemoryArrayAddress) End() uint32 { return r.u32(rngEnd) }
func (r MemoryArrayAddress) ArrayHandle() uint16 { return r.u16(arrRngArrayHandle) }
func (r MemoryArrayAddress) PartitionWidth() (uint8, bool) { return r.Uint8(arrRngPartitionWidth) }
func (r MemoryArrayAddress) ExtendedStart() (uint64, bool) { return r.Uint64(arrRngExtStart) }
func (r MemoryArrayAddress) ExtendedEnd() (uint64, bool) { return r.Uint64(arrRngExtEnd) }

// MemoryDeviceAddress is a type 20 Memory Device Mapped Address.
type MemoryDeviceAddress struct{ *Entry }

// Start and End are in kilobytes; the range is treated as [Start, End).
func (r MemoryDeviceAddress) Start() uint32 { return r.u32(rngStart) }
func (r MemoryDeviceAddress) End() uint32 { return r.u32(rngEnd) }
func (r MemoryDeviceAddress) DeviceHandle() uint16 { return r.u16(devRngDeviceHandle) }
func (r MemoryDeviceAddress) ArrayAddressHandle() (uint16, bool) {
	return r.Uint16(devRngArrayAddrHandle)
}
func (r MemoryDeviceAddress) Row() (uint8, bool) { return r.Uint8(devRngRow) }
func (r MemoryDeviceAddress) InterleavePosition() (uint8, bool) { return r.Uint8(devRngInterleavePos) }
func (r MemoryDeviceAddress) InterleaveDepth() (uint8, bool) { return r.Uint8(devRngInterleaveDepth) }
func (r MemoryDeviceAddress) ExtendedStart() (uint64, bool) { return r.Uint64(devRngExtStart) }
func (r MemoryDeviceAddress) ExtendedEnd() (uint64, bool) { return r.Uint64(devRngExtEnd) }

// Contains reports whether the physical byte address falls in [Start, End).
func (r MemoryDeviceAddress) Contains(addr uint64) bool {
	return addr >= uint64(r.Start())*1024 && addr < uint64(r.End())*1024
}

// Contains reports whether the physical byte address falls in [Start, End).
func (r MemoryArrayAddress) Contains(addr uint64) bool {
	return addr >= uint64(r.Start())*1024 && addr < uint64(r.End())*1024
}
