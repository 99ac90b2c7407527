package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/binary"
	"log/slog"

	"github.com/pkg/errors"
)

const headerSize = 4

// Entry is one SMBIOS structure. Data aliases the table buffer owned by the
// Table, which is never modified or released.
type Entry struct {
	Type    uint8
	Length  uint8 // declared length of the formatted area, header included
	Handle  uint16
	Offset  int    // offset of the header within the table
	Data    []byte // formatted area, len(Data) == Length
	End     int    // offset just past the string block terminator
	strings []string
}

// Table is the parsed entry table: records in physical order and the
// handle cross-reference.
type Table struct {
	buf     []byte
	entries []*Entry
	handles map[uint16]*Entry
}

// Parse walks up to count records from table. Walking stops early, without
// error, at the first record whose header or string block runs past the end
// of the table. Pass UnknownEntryCount to walk until the table ends.
func Parse(table []byte, count int) *Table {
	t := &Table{
		buf:     table,
		handles: make(map[uint16]*Entry),
	}
	t.walk(count, func(e *Entry) {
		t.entries = append(t.entries, e)
		t.handles[e.Handle] = e
	})
	slog.Debug("parsed SMBIOS table", slog.Int("bytes", len(table)), slog.Int("expected", count), slog.Int("entries", len(t.entries)))
	return t
}

func (t *Table) walk(count int, fn func(*Entry)) {
	off := 0
	for i := 0; count == UnknownEntryCount || i < count; i++ {
		if off >= len(t.buf) {
			return
		}
		e, err := t.entryAt(off)
		if err != nil {
			slog.Debug("stopping table walk", slog.Int("index", i), slog.String("error", err.Error()))
			return
		}
		fn(e)
		off = e.End
	}
}

// entryAt validates the record at off and its string block
func (t *Table) entryAt(off int) (*Entry, error) {
	end := len(t.buf)
	if end-off < headerSize {
		return nil, errors.Wrapf(ErrProtocol, "header at %#x truncated", off)
	}
	h := t.buf[off:]
	e := &Entry{
		Type:   h[0],
		Length: h[1],
		Handle: binary.LittleEndian.Uint16(h[2:4]),
		Offset: off,
	}
	if int(e.Length) < headerSize || int(e.Length) > end-off {
		return nil, errors.Wrapf(ErrProtocol, "handle %#x length %d out of bounds", e.Handle, e.Length)
	}
	e.Data = t.buf[off : off+int(e.Length)]
	s := off + int(e.Length)
	for {
		start := s
		for s < end-1 && t.buf[s] != 0 {
			s++
		}
		if s >= end-1 {
			return nil, errors.Wrapf(ErrProtocol, "handle %#x length %d truncated", e.Handle, e.Length)
		}
		e.strings = append(e.strings, string(t.buf[start:s]))
		s++
		if t.buf[s] == 0 {
			break
		}
	}
	// a block of just the double terminator carries no strings
	if len(e.strings) == 1 && e.strings[0] == "" {
		e.strings = nil
	}
	e.End = s + 1
	return e, nil
}

// Entries returns the records in table order.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Lookup returns the record with the given handle.
func (t *Table) Lookup(handle uint16) (*Entry, bool) {
	e, ok := t.handles[handle]
	return e, ok
}

// String returns string number index from the record's string block.
// Index 0 is the empty string by definition.
func (e *Entry) String(index int) (string, error) {
	if index == 0 {
		return "", nil
	}
	if index < 0 || index > len(e.strings) {
		return "", errors.Wrapf(ErrProtocol, "handle %#x has %d strings, want string %d", e.Handle, len(e.strings), index)
	}
	return e.strings[index-1], nil
}

// NumStrings returns the number of strings in the record's string block.
func (e *Entry) NumStrings() int {
	return len(e.strings)
}
