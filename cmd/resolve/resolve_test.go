package resolve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dmimap/internal/common"
	"dmimap/internal/config"
	"dmimap/internal/dmi"
	"dmimap/internal/dmi/dmitest"
	"dmimap/internal/report"
	"dmimap/internal/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddresses(t *testing.T) {
	addrs, err := parseAddresses([]string{"0x1000", "4096", "2*KB"})
	require.NoError(t, err)
	assert.Equal(t, []uint64{0x1000, 4096, 2048}, addrs)

	_, err = parseAddresses([]string{"0x1000", "-1"})
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	d := dmitest.NewDecoder(dmitest.TwoDIMMs()...)
	results := Resolve(d, []uint64{0x1000, 1500 * 1024})
	require.Len(t, results, 2)
	require.Len(t, results[0].Devices, 1)
	assert.Empty(t, results[1].Devices)

	out, err := Render(report.FormatTxt, results)
	require.NoError(t, err)
	assert.Contains(t, string(out), "Device Locator: DIMM_A1\n")
	assert.Contains(t, string(out), "No DIMM found for 177000 in SMBIOS\n")

	out, err = Render(report.FormatJson, results)
	require.NoError(t, err)
	var parsed map[string][]map[string]string
	require.NoError(t, json.Unmarshal(out, &parsed))
	rows := parsed[report.ResolutionTableName]
	require.Len(t, rows, 2)
	assert.Equal(t, "0x1000", rows[0]["Address"])
	assert.Equal(t, "16 GB", rows[0]["Size"])
}

func TestResolveUnreliable(t *testing.T) {
	// ranges without devices to match
	d := dmitest.NewDecoder(dmitest.DIMM(0x1100, "DIMM_A1"))
	require.False(t, d.IsDatasetReliable())
	results := Resolve(d, []uint64{0x1000})
	assert.Empty(t, results[0].Devices)
}

func duplicateLocators() []dmitest.Record {
	return []dmitest.Record{
		dmitest.DIMM(0x1100, "DIMM_A1"),
		dmitest.DIMM(0x1101, "DIMM_A1"),
		dmitest.DeviceRange(0x3000, 0, 1000, 0x1100),
		dmitest.DeviceRange(0x3001, 2000, 3000, 0x1101),
		dmitest.EndOfTable(),
	}
}

func TestWarnUnreliable(t *testing.T) {
	tests := []struct {
		name    string
		records []dmitest.Record
		addrs   []uint64
		warned  bool
	}{
		{name: "reliable", records: dmitest.TwoDIMMs(), addrs: []uint64{0x1000}},
		{name: "unreliable miss", records: duplicateLocators(), addrs: []uint64{1500 * 1024}},
		{name: "unreliable hit", records: duplicateLocators(), addrs: []uint64{1500 * 1024, 0x1000, 2500 * 1024}, warned: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := dmitest.NewDecoder(tt.records...)
			var buf bytes.Buffer
			warnUnreliable(&buf, d, Resolve(d, tt.addrs))
			if tt.warned {
				assert.Equal(t, dmi.UnreliableWarning+"\n", buf.String())
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestRunCmdWarnsOnUnreliableTables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dmi.bin")
	require.NoError(t, os.WriteFile(path, dmitest.DumpImage(duplicateLocators()...), 0o600))
	cfg := config.Default()
	cfg.Source = source.KindFile
	cfg.Input = path
	cfg.Format = report.FormatTxt
	require.NoError(t, cfg.Validate())

	var stdout, stderr bytes.Buffer
	Cmd.SetContext(context.WithValue(context.Background(), common.AppContext{}, common.AppContext{Config: cfg}))
	Cmd.SetOut(&stdout)
	Cmd.SetErr(&stderr)
	t.Cleanup(func() {
		Cmd.SetContext(context.Background())
		Cmd.SetOut(nil)
		Cmd.SetErr(nil)
	})

	require.NoError(t, runCmd(Cmd, []string{"0x1000", "2500*KB"}))
	assert.Contains(t, stdout.String(), "Device Locator: DIMM_A1\n")
	assert.NotContains(t, stdout.String(), dmi.UnreliableWarning)
	assert.Equal(t, 1, strings.Count(stderr.String(), dmi.UnreliableWarning))
}
