// Package check is a subcommand of the root command. It reports whether the
// SMBIOS memory records can be trusted to map addresses to DIMMs.
package check

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io"
	"strings"

	"dmimap/internal/common"
	"dmimap/internal/dmi"

	"github.com/spf13/cobra"
)

const cmdName = "check"

// ExitUnreliable is the exit status of --strict when the check fails.
const ExitUnreliable = 2

var examples = []string{
	fmt.Sprintf("  Check the running system:      $ %s %s", common.AppName, cmdName),
	fmt.Sprintf("  Fail a script on bad tables:   $ %s %s --strict || echo unusable", common.AppName, cmdName),
}

var Cmd = &cobra.Command{
	Use:           cmdName,
	Short:         "Check whether the SMBIOS memory records are consistent",
	Example:       strings.Join(examples, "\n"),
	RunE:          runCmd,
	GroupID:       "primary",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
}

var flagStrict bool

const flagStrictName = "strict"

func init() {
	Cmd.Flags().BoolVar(&flagStrict, flagStrictName, false, "")
	Cmd.SetUsageFunc(common.UsageFunc(getFlagGroups))
}

func getFlagGroups() []common.FlagGroup {
	return []common.FlagGroup{{
		GroupName: "Options",
		Flags: []common.Flag{
			{Name: flagStrictName, Help: fmt.Sprintf("exit with status %d when the records are unreliable", ExitUnreliable)},
		},
	}}
}

// writeVerdict prints the outcome of the sanity check and returns the
// unreliable reason, if any
func writeVerdict(w io.Writer, d *dmi.Decoder) error {
	a := d.Anchor()
	fmt.Fprintf(w, "SMBIOS %d.%d: %d memory devices, %d device mapped address ranges\n", a.MajorVersion, a.MinorVersion, len(d.Devices()), len(d.DeviceRanges()))
	if err := d.Unreliable(); err != nil {
		fmt.Fprintf(w, "unreliable: %v\n", err)
		return err
	}
	fmt.Fprintln(w, "reliable")
	return nil
}

func runCmd(cmd *cobra.Command, args []string) error {
	appContext := common.GetAppContext(cmd)
	d, err := common.LoadDecoder(appContext.Config)
	if err != nil {
		return common.Fail(cmd, err)
	}
	if err := writeVerdict(cmd.OutOrStdout(), d); err != nil && flagStrict {
		cmd.SilenceUsage = true
		return common.ExitError{Code: ExitUnreliable, Err: err}
	}
	return nil
}
