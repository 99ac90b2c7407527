/*
Package config loads dmimap settings from an optional YAML file.
*/
package config

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dmimap/internal/dmi"
	"dmimap/internal/report"
	"dmimap/internal/source"
	"dmimap/internal/util"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// FileName is the configuration file looked up beside the executable.
const FileName = "dmimap.yaml"

// DefaultListen is the address served when none is configured.
const DefaultListen = "localhost:9367"

// Config holds settings shared by the commands. Zero values mean "not set"
// so that file values and flags can be layered.
type Config struct {
	Source       string `yaml:"source"`
	Input        string `yaml:"input"`
	WindowStart  uint64 `yaml:"window_start"`
	WindowLength int    `yaml:"window_length"`
	Format       string `yaml:"format"`
	Output       string `yaml:"output"`
	Listen       string `yaml:"listen"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Source:       source.KindAuto,
		WindowStart:  dmi.FirmwareWindowStart,
		WindowLength: dmi.FirmwareWindowLength,
		Listen:       DefaultListen,
	}
}

// Load reads the file at path over the defaults. An empty path selects
// dmimap.yaml beside the executable, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()
	required := path != ""
	if !required {
		path = filepath.Join(util.GetAppDir(), FileName)
	}
	path, err := util.AbsPath(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config path")
	}
	exists, err := util.FileExists(path)
	if err != nil {
		return cfg, errors.Wrapf(err, "config file %s", path)
	}
	if !exists {
		if required {
			return cfg, fmt.Errorf("config file %s does not exist", path)
		}
		return cfg, nil
	}
	data, err := os.ReadFile(path) // #nosec G304
	if err != nil {
		return cfg, errors.Wrapf(err, "failed to read config file %s", path)
	}
	var fileCfg Config
	if err := yaml.UnmarshalStrict(data, &fileCfg); err != nil {
		return cfg, errors.Wrapf(err, "failed to parse config file %s", path)
	}
	cfg.Merge(fileCfg)
	slog.Debug("loaded config file", slog.String("path", path))
	return cfg, nil
}

// Merge overwrites the settings of c that are set in o.
func (c *Config) Merge(o Config) {
	if o.Source != "" {
		c.Source = o.Source
	}
	if o.Input != "" {
		c.Input = o.Input
	}
	// a length moves the whole window, so a zero start is kept with it
	if o.WindowLength != 0 {
		c.WindowStart = o.WindowStart
		c.WindowLength = o.WindowLength
	} else if o.WindowStart != 0 {
		c.WindowStart = o.WindowStart
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Listen != "" {
		c.Listen = o.Listen
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if !source.ValidKind(c.Source) {
		return fmt.Errorf("source must be one of %s, got %q", strings.Join(source.Kinds, ", "), c.Source)
	}
	if c.Source == source.KindFile && c.Input == "" {
		return fmt.Errorf("source %s requires an input file", source.KindFile)
	}
	if c.WindowLength <= 0 {
		return fmt.Errorf("window length must be positive, got %d", c.WindowLength)
	}
	if c.Format != "" && !report.ValidFormat(c.Format) {
		return fmt.Errorf("format must be one of %s, got %q", strings.Join(report.FormatOptions, ", "), c.Format)
	}
	if c.Format == report.FormatXlsx && c.Output == "" {
		return fmt.Errorf("format %s requires an output file", report.FormatXlsx)
	}
	return nil
}

// SourceOptions returns the table source selected by c.
func (c Config) SourceOptions() source.Options {
	return source.Options{
		Kind:         c.Source,
		Input:        c.Input,
		WindowStart:  c.WindowStart,
		WindowLength: c.WindowLength,
	}
}
