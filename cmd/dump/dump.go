// Package dump is a subcommand of the root command. It prints the decoded SMBIOS memory records.
package dump

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"

	"dmimap/internal/common"
	"dmimap/internal/report"

	"github.com/spf13/cobra"
)

const cmdName = "dump"

var examples = []string{
	fmt.Sprintf("  Print the memory records:      $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Write a workbook from a dump:  $ %s %s --input dmi.bin --format xlsx --output dmi.xlsx", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Print the memory arrays, devices and mapped address ranges",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

func init() {
	common.AddOutputFlags(Cmd)
	Cmd.SetUsageFunc(common.UsageFunc(func() []common.FlagGroup {
		return []common.FlagGroup{common.GetOutputFlagGroup()}
	}))
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	d, err := common.LoadDecoder(appContext.Config)
	if err != nil {
		return common.Fail(cmd, err)
	}
	out, err := report.Create(common.OutputFormat(appContext.Config), report.DumpTables(d))
	if err != nil {
		return common.Fail(cmd, err)
	}
	if err := common.WriteOutput(cmd, appContext.Config, out); err != nil {
		return common.Fail(cmd, err)
	}
	return nil
}
