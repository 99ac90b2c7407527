// Package resolve is a subcommand of the root command. It prints the DIMMs behind physical addresses.
package resolve

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"strings"

	"dmimap/internal/common"
	"dmimap/internal/dmi"
	"dmimap/internal/report"
	"dmimap/internal/util"

	"github.com/spf13/cobra"
)

const cmdName = "resolve"

var examples = []string{
	fmt.Sprintf("  Resolve one address:         $ %s %s 0x1f4a3c000", common.AppName, cmdName),
	fmt.Sprintf("  Resolve several addresses:   $ %s %s 0x1000 4096 '2*GB'", common.AppName, cmdName),
	fmt.Sprintf("  Resolve from a dump as json: $ %s %s --input dmi.bin --format json 0x1000", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName + " ADDRESS [ADDRESS...]",
	Short:         "Print the DIMM(s) behind physical memory addresses",
	Long:          "Addresses are decimal, 0x hex, or expressions such as '4*GB + 0x1000' using KB, MB, GB and TB.",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.MinimumNArgs(1),
	SilenceErrors: true,
}

func init() {
	common.AddOutputFlags(Cmd)
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{common.GetOutputFlagGroup()}
}

// parseAddresses parses every argument before any table is read
func parseAddresses(args []string) ([]uint64, error) {
	addrs := make([]uint64, 0, len(args))
	for _, arg := range args {
		addr, err := util.ParseAddress(arg)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// Resolve resolves each address against d
func Resolve(d *dmi.Decoder, addrs []uint64) []report.Resolution {
	results := make([]report.Resolution, 0, len(addrs))
	for _, addr := range addrs {
		results = append(results, report.Resolution{Address: addr, Devices: d.ResolveAddress(addr)})
	}
	return results
}

// Render formats the results as format
func Render(format string, results []report.Resolution) ([]byte, error) {
	if format == report.FormatTxt {
		return []byte(report.ResolutionText(results)), nil
	}
	return report.Create(format, []report.TableValues{report.ResolutionTable(results)})
}

// warnUnreliable tells the user, once, that DIMMs were resolved from tables
// that failed the sanity check
func warnUnreliable(w io.Writer, d *dmi.Decoder, results []report.Resolution) {
	if d.IsDatasetReliable() {
		return
	}
	for _, r := range results {
		if len(r.Devices) > 0 {
			fmt.Fprintln(w, dmi.UnreliableWarning)
			return
		}
	}
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	addrs, err := parseAddresses(args)
	if err != nil {
		return common.Fail(cmd, err)
	}
	d, err := common.LoadDecoder(appContext.Config)
	if err != nil {
		return common.Fail(cmd, err)
	}
	results := Resolve(d, addrs)
	out, err := Render(common.OutputFormat(appContext.Config), results)
	if err != nil {
		return common.Fail(cmd, err)
	}
	warnUnreliable(cmd.ErrOrStderr(), d, results)
	if err := common.WriteOutput(cmd, appContext.Config, out); err != nil {
		return common.Fail(cmd, err)
	}
	return nil
}
