/*
Package util includes utility/helper functions that may be useful to other modules.
*/
package util

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"io/fs"
	"math"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/casbin/govaluate"
)

// ExpandUser expands '~' to user's home directory, if found, otherwise returns original path
func ExpandUser(path string) string {
	usr, err := user.Current()
	if err != nil {
		return path
	}
	if path == "~" {
		return usr.HomeDir
	} else if strings.HasPrefix(path, "~"+string(os.PathSeparator)) {
		return filepath.Join(usr.HomeDir, path[2:])
	} else {
		return path
	}
}

// AbsPath returns absolute path after expanding '~' to user's home dir
// Use everywhere in place of filepath.Abs()
func AbsPath(path string) (string, error) {
	return filepath.Abs(ExpandUser(path))
}

// FileExists checks if a file exists at the given path.
// It returns a boolean indicating whether the file exists, and an error if the
// path refers to a non-regular file, e.g., a directory.
func FileExists(path string) (exists bool, err error) {
	var fileInfo fs.FileInfo
	fileInfo, err = os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			exists = false
			err = nil
			return
		}
		return
	}
	if !fileInfo.Mode().IsRegular() {
		err = fmt.Errorf("%s not a file", path)
		return
	}
	exists = true
	return
}

// CreateDirectoryIfNotExists creates a directory at the specified path if it does not already exist.
func CreateDirectoryIfNotExists(dir string, perm os.FileMode) error {
	if _, err := os.Stat(dir); err == nil {
		return nil
	}
	if err := os.MkdirAll(dir, perm); err != nil {
		return fmt.Errorf("failed to create directory: '%s', error: '%s'", dir, err.Error())
	}
	return nil
}

// GetAppDir returns the directory of the executable
func GetAppDir() string {
	exePath, _ := os.Executable()
	return filepath.Dir(exePath)
}

// size units accepted in address expressions
var addressUnits = map[string]any{
	"KB": float64(1 << 10),
	"MB": float64(1 << 20),
	"GB": float64(1 << 30),
	"TB": float64(1 << 40),
}

// maxExactAddress is the largest address an expression can produce without
// losing precision
const maxExactAddress = 1 << 53

// ParseAddress parses a physical address. Plain numbers are accepted in any
// base strconv understands, e.g. "0x1f000", "4096", "0o777". Anything else is
// evaluated as an arithmetic expression in which KB, MB, GB and TB stand for
// their byte counts, e.g. "4*GB + 0x1000".
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty address")
	}
	if v, err := strconv.ParseUint(s, 0, 64); err == nil {
		return v, nil
	}
	expr, err := govaluate.NewEvaluableExpression(s)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %v", s, err)
	}
	result, err := evaluate(expr)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q: %v", s, err)
	}
	v, ok := result.(float64)
	if !ok {
		return 0, fmt.Errorf("address %q is not a number", s)
	}
	if v < 0 || v > maxExactAddress || v != math.Trunc(v) {
		return 0, fmt.Errorf("address %q evaluates to %v, expected a whole number in [0, 2^53]", s, v)
	}
	return uint64(v), nil
}

// evaluate catches the panics govaluate raises on some malformed input
func evaluate(expr *govaluate.EvaluableExpression) (result any, err error) {
	defer func() {
		if errx := recover(); errx != nil {
			err = fmt.Errorf("%v", errx)
		}
	}()
	return expr.Evaluate(addressUnits)
}
