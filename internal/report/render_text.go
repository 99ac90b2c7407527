package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
	"strings"
)

const columnSpacing = 3

func createTextReport(allTableValues []TableValues) (out []byte, err error) {
	var sb strings.Builder
	for _, tableValues := range allTableValues {
		sb.WriteString(tableValues.Name + "\n")
		sb.WriteString(strings.Repeat("=", len(tableValues.Name)) + "\n")
		if tableValues.numRows() == 0 {
			msg := NoDataFound
			if tableValues.NoDataFound != "" {
				msg = tableValues.NoDataFound
			}
			sb.WriteString(msg + "\n\n")
			continue
		}
		sb.WriteString(renderTextTable(tableValues))
		sb.WriteString("\n")
	}
	out = []byte(sb.String())
	return
}

func renderTextTable(tableValues TableValues) string {
	var sb strings.Builder
	if !tableValues.HasRows {
		// get the longest field name to format the table nicely
		maxFieldNameLen := 0
		for _, field := range tableValues.Fields {
			maxFieldNameLen = max(maxFieldNameLen, len(field.Name))
		}
		// print the field names followed by their value
		for _, field := range tableValues.Fields {
			var value string
			if len(field.Values) > 0 {
				value = field.Values[0]
			}
			fmt.Fprintf(&sb, "%s%-*s %s\n", field.Name, maxFieldNameLen-len(field.Name)+1, ":", value)
		}
		return sb.String()
	}
	// column width is the longer of the field name and its longest value,
	// the last column is not padded
	widths := make([]int, len(tableValues.Fields))
	for i, field := range tableValues.Fields {
		if i == len(tableValues.Fields)-1 {
			continue
		}
		widths[i] = len(field.Name)
		for _, val := range field.Values {
			widths[i] = max(widths[i], len(val))
		}
		widths[i] += columnSpacing
	}
	writeRow := func(cell func(i int) string) {
		var line strings.Builder
		for i := range tableValues.Fields {
			fmt.Fprintf(&line, "%-*s", widths[i], cell(i))
		}
		sb.WriteString(strings.TrimRight(line.String(), " ") + "\n")
	}
	writeRow(func(i int) string { return tableValues.Fields[i].Name })
	writeRow(func(i int) string { return strings.Repeat("-", len(tableValues.Fields[i].Name)) })
	for row := 0; row < tableValues.numRows(); row++ {
		writeRow(func(i int) string { return tableValues.Fields[i].Values[row] })
	}
	return sb.String()
}
