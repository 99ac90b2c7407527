// Package common defines data structures and functions that are used by multiple
// application commands, e.g., resolve, dump, check, serve.
package common

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dmimap/internal/config"
	"dmimap/internal/dmi"
	"dmimap/internal/report"
	"dmimap/internal/source"
	"dmimap/internal/util"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"
)

var AppName = filepath.Base(os.Args[0])

// AppContext represents the application context that can be accessed from all commands.
type AppContext struct {
	Config      config.Config // Config is the configuration file merged with the command line flags.
	LogFilePath string        // LogFilePath is empty when logging to syslog or stdout.
	Version     string
	Debug       bool
}

type Flag struct {
	Name string
	Help string
}
type FlagGroup struct {
	GroupName string
	Flags     []Flag
}

var (
	FlagSource string
	FlagInput  string
	FlagFormat string
	FlagOutput string
)

const (
	FlagSourceName = "source"
	FlagInputName  = "input"
	FlagFormatName = "format"
	FlagOutputName = "output"
)

// ExitError carries the process exit status for an error.
type ExitError struct {
	Code int
	Err  error
}

func (e ExitError) Error() string { return e.Err.Error() }
func (e ExitError) Unwrap() error { return e.Err }

// AddOutputFlags adds the --format and --output flags to cmd
func AddOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&FlagFormat, FlagFormatName, "", outputFlags[0].Help)
	cmd.Flags().StringVar(&FlagOutput, FlagOutputName, "", outputFlags[1].Help)
}

var outputFlags = []Flag{
	{Name: FlagFormatName, Help: fmt.Sprintf("choose output format from: %s (default: %s on a terminal, otherwise %s)", strings.Join(report.FormatOptions, ", "), report.FormatTxt, report.FormatJson)},
	{Name: FlagOutputName, Help: "write output to this file instead of stdout, required for xlsx"},
}

func GetOutputFlagGroup() FlagGroup {
	return FlagGroup{
		GroupName: "Output Options",
		Flags:     outputFlags,
	}
}

// UsageFunc prints the flags of cmd in the given groups followed by the
// global flags
func UsageFunc(groups func() []FlagGroup) func(cmd *cobra.Command) error {
	return func(cmd *cobra.Command) error {
		cmd.Printf("Usage: %s [flags]\n\n", cmd.UseLine())
		if cmd.Example != "" {
			cmd.Printf("Examples:\n%s\n\n", cmd.Example)
		}
		cmd.Println("Flags:")
		for _, group := range groups() {
			cmd.Printf("  %s:\n", group.GroupName)
			for _, flag := range group.Flags {
				flagDefault := ""
				if f := cmd.Flags().Lookup(flag.Name); f != nil && f.DefValue != "" && f.DefValue != "false" {
					flagDefault = fmt.Sprintf(" (default: %s)", f.DefValue)
				}
				cmd.Printf("    --%-20s %s%s\n", flag.Name, flag.Help, flagDefault)
			}
		}
		cmd.Println("\nGlobal Flags:")
		cmd.Root().PersistentFlags().VisitAll(func(pf *pflag.Flag) {
			flagDefault := ""
			if pf.DefValue != "" && pf.DefValue != "false" {
				flagDefault = fmt.Sprintf(" (default: %s)", pf.DefValue)
			}
			cmd.Printf("  --%-20s %s%s\n", pf.Name, pf.Usage, flagDefault)
		})
		return nil
	}
}

// GetAppContext returns the context set up by the root command
func GetAppContext(cmd *cobra.Command) AppContext {
	return cmd.Root().Context().Value(AppContext{}).(AppContext)
}

// LoadDecoder reads and decodes the SMBIOS table selected by cfg.
func LoadDecoder(cfg config.Config) (*dmi.Decoder, error) {
	src, err := source.New(cfg.SourceOptions())
	if err != nil {
		return nil, err
	}
	d, err := dmi.Initialize(src)
	if err != nil {
		return nil, err
	}
	if !d.IsDatasetReliable() {
		slog.Info("SMBIOS memory records failed the sanity check", slog.String("reason", d.Unreliable().Error()))
	}
	return d, nil
}

// OutputFormat returns the configured format, or txt on a terminal and
// json otherwise.
func OutputFormat(cfg config.Config) string {
	if cfg.Format != "" {
		return cfg.Format
	}
	if cfg.Output == "" && term.IsTerminal(int(os.Stdout.Fd())) {
		return report.FormatTxt
	}
	return report.FormatJson
}

// WriteOutput writes out to the configured output file or to the command's
// standard output
func WriteOutput(cmd *cobra.Command, cfg config.Config, out []byte) error {
	if cfg.Output == "" {
		_, err := cmd.OutOrStdout().Write(out)
		return err
	}
	path, err := util.AbsPath(cfg.Output)
	if err != nil {
		return err
	}
	if err := util.CreateDirectoryIfNotExists(filepath.Dir(path), 0755); err != nil { // #nosec G301
		return err
	}
	if err := os.WriteFile(path, out, 0644); err != nil { // #nosec G306
		return fmt.Errorf("failed to write %s: %v", path, err)
	}
	slog.Info("wrote output file", slog.String("path", path))
	fmt.Fprintf(cmd.ErrOrStderr(), "Output written to %s\n", path)
	return nil
}

// Fail prints err for the user, logs it and returns it for cobra
func Fail(cmd *cobra.Command, err error) error {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	slog.Error(err.Error())
	cmd.SilenceUsage = true
	return err
}
