/*
Package dmi decodes the SMBIOS/DMI memory records needed to map a physical
address to the DIMM behind it.

The decoder is built once from an owned copy of the table and is read-only
afterwards, so its query methods may be called from multiple goroutines.
*/
package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/pkg/errors"
)

// TableSource supplies the entry point and an owned copy of the entry
// table. The returned slice must not be modified after it is handed over.
type TableSource interface {
	Load() (Anchor, []byte, error)
}

// WindowReader reads physical memory. ReadWindow returns exactly length
// bytes starting at start, or an error wrapping ErrIO.
type WindowReader interface {
	ReadWindow(start uint64, length int) ([]byte, error)
}

// LoadWindow locates the anchor in [start, start+length) and reads the table
// it points to.
func LoadWindow(r WindowReader, start uint64, length int) (Anchor, []byte, error) {
	window, err := r.ReadWindow(start, length)
	if err != nil {
		return Anchor{}, nil, err
	}
	anchor, err := FindAnchor(window)
	if err != nil {
		return Anchor{}, nil, err
	}
	table, err := r.ReadWindow(anchor.TableAddress, anchor.TableLength)
	if err != nil {
		return Anchor{}, nil, errors.WithMessagef(err, "SMBIOS table at %#x", anchor.TableAddress)
	}
	return anchor, table, nil
}

// Decoder holds the decoded memory records of one SMBIOS table.
type Decoder struct {
	anchor     Anchor
	table      *Table
	coll       *Collection
	unreliable error
	warnOnce   sync.Once
}

// Initialize loads the table from src and decodes it. Only ErrTableNotFound
// and ErrIO are returned; malformed records are skipped and an inconsistent
// dataset is reported by IsDatasetReliable.
func Initialize(src TableSource) (*Decoder, error) {
	anchor, table, err := src.Load()
	if err != nil {
		return nil, err
	}
	slog.Info("DMI tables found", slog.String("address", hex64(anchor.TableAddress)), slog.Int("bytes", anchor.TableLength), slog.Int("entries", anchor.EntryCount))
	return NewDecoder(anchor, table), nil
}

// NewDecoder decodes table as described by anchor.
func NewDecoder(anchor Anchor, table []byte) *Decoder {
	if anchor.TableLength > 0 && anchor.TableLength < len(table) {
		table = table[:anchor.TableLength]
	}
	d := &Decoder{
		anchor: anchor,
		table:  Parse(table, anchor.EntryCount),
	}
	d.coll = Collect(d.table)
	d.coll.SortRanges()
	d.unreliable = Check(d.coll)
	if d.unreliable != nil {
		slog.Debug(d.unreliable.Error())
	}
	slog.Debug("collected memory records",
		slog.Int("arrays", len(d.coll.Arrays)),
		slog.Int("devices", len(d.coll.Devices)),
		slog.Int("array_ranges", len(d.coll.ArrayRanges)),
		slog.Int("device_ranges", len(d.coll.DeviceRanges)),
		slog.Int("skipped", d.coll.Skipped))
	return d
}

// IsDatasetReliable reports whether the decoded records passed the sanity check.
func (d *Decoder) IsDatasetReliable() bool {
	return d.unreliable == nil
}

// Unreliable returns the reason the sanity check failed, or nil.
func (d *Decoder) Unreliable() error {
	return d.unreliable
}

func (d *Decoder) Anchor() Anchor { return d.anchor }

// Entries returns every record walked, in table order.
func (d *Decoder) Entries() []*Entry { return d.table.Entries() }

func (d *Decoder) Lookup(handle uint16) (*Entry, bool) { return d.table.Lookup(handle) }

// Skipped returns the number of memory records rejected during collection.
func (d *Decoder) Skipped() int { return d.coll.Skipped }

// The slices below are shared; callers must not modify them.

func (d *Decoder) Arrays() []MemoryArray { return d.coll.Arrays }
func (d *Decoder) Devices() []MemoryDevice { return d.coll.Devices }
func (d *Decoder) ArrayRanges() []MemoryArrayAddress { return d.coll.ArrayRanges }
func (d *Decoder) DeviceRanges() []MemoryDeviceAddress { return d.coll.DeviceRanges }

func hex64(v uint64) string {
	return fmt.Sprintf("%#x", v)
}
