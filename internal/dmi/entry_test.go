package dmi

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWellFormed(t *testing.T) {
	records := twoDimmTable()
	table := Parse(buildTable(records...), len(records))
	entries := table.Entries()
	require.Len(t, entries, len(records))
	assert.Equal(t, 0, entries[0].Offset)
	for i := 1; i < len(entries); i++ {
		assert.Equal(t, entries[i-1].End, entries[i].Offset, "record %d", i)
	}
	for i, e := range entries {
		assert.Equal(t, records[i].typ, e.Type)
		assert.Equal(t, records[i].handle, e.Handle)
		assert.Equal(t, int(e.Length), len(e.Data))
	}
	last := entries[len(entries)-1]
	assert.Equal(t, len(buildTable(records...)), last.End)
}

func TestParseIsIdempotent(t *testing.T) {
	buf := buildTable(twoDimmTable()...)
	first := Parse(buf, 8).Entries()
	second := Parse(buf, 8).Entries()
	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Offset, second[i].Offset)
		assert.Equal(t, first[i].End, second[i].End)
	}
}

func TestParseStopsAtEntryCount(t *testing.T) {
	records := twoDimmTable()
	table := Parse(buildTable(records...), 3)
	assert.Len(t, table.Entries(), 3)
	_, ok := table.Lookup(0x1101)
	assert.False(t, ok)
}

func TestParseUnknownEntryCount(t *testing.T) {
	records := twoDimmTable()
	table := Parse(buildTable(records...), UnknownEntryCount)
	assert.Len(t, table.Entries(), len(records))
}

func TestParseMissingTerminator(t *testing.T) {
	records := twoDimmTable()
	buf := buildTable(records...)
	// cut the table inside the last device range's string block terminator
	cut := len(buildTable(records[:6]...)) + 0x13 + 1
	table := Parse(buf[:cut], len(records))
	assert.Len(t, table.Entries(), 6)
}

func TestParseMalformedHeaders(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
		want int
	}{
		{name: "empty table", buf: nil, want: 0},
		{name: "short header", buf: []byte{17, 0x1C}, want: 0},
		{name: "length below header size", buf: []byte{17, 2, 0, 0, 0, 0}, want: 0},
		{name: "length past table end", buf: []byte{17, 0x40, 0, 0, 0, 0}, want: 0},
		{name: "valid then truncated", buf: append(record{typ: 1, handle: 1}.bytes(), 17, 0x40, 0, 0), want: 1},
		{name: "string without block terminator", buf: []byte{1, 4, 1, 0, 'a', 'b', 0}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, Parse(tt.buf, 4).Entries(), tt.want)
		})
	}
}

func TestLookupLastHandleWins(t *testing.T) {
	table := Parse(buildTable(
		deviceRecord(0x10, 0x0400, "first"),
		deviceRecord(0x10, 0x0400, "second"),
	), 2)
	e, ok := table.Lookup(0x10)
	require.True(t, ok)
	loc, err := MemoryDevice{e}.DeviceLocator()
	require.NoError(t, err)
	assert.Equal(t, "second", loc)
}

func TestEntryString(t *testing.T) {
	records := twoDimmTable()
	table := Parse(buildTable(records...), len(records))
	for _, e := range table.Entries() {
		s, err := e.String(0)
		require.NoError(t, err)
		assert.Equal(t, "", s)
	}

	dev, ok := table.Lookup(0x1100)
	require.True(t, ok)
	assert.Equal(t, 5, dev.NumStrings())
	s, err := dev.String(1)
	require.NoError(t, err)
	assert.Equal(t, "DIMM_A1", s)
	s, err = dev.String(5)
	require.NoError(t, err)
	assert.Equal(t, "M393A2K43BB1-CTD", s)

	_, err = dev.String(6)
	assert.True(t, errors.Is(err, ErrProtocol))
	_, err = dev.String(-1)
	assert.True(t, errors.Is(err, ErrProtocol))
}

func TestEntryStringEmptyBlock(t *testing.T) {
	table := Parse(record{typ: 127, handle: 0xFEFF}.bytes(), 1)
	require.Len(t, table.Entries(), 1)
	e := table.Entries()[0]
	assert.Equal(t, 0, e.NumStrings())
	_, err := e.String(1)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestEntryStringLeadingEmptyString(t *testing.T) {
	// an empty first string keeps later string numbers in place
	buf := []byte{1, 4, 1, 0, 0, 'a', 'b', 0, 0}
	table := Parse(buf, 1)
	require.Len(t, table.Entries(), 1)
	e := table.Entries()[0]
	s, err := e.String(2)
	require.NoError(t, err)
	assert.Equal(t, "ab", s)
	s, err = e.String(1)
	require.NoError(t, err)
	assert.Equal(t, "", s)
}
