package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Field represents the values for a field in a table
type Field struct {
	Name   string
	Values []string
}

// TableValues is a named table of fields and their values
type TableValues struct {
	Name        string
	HasRows     bool   // table is meant to be displayed in row form, i.e., a field may have multiple values
	NoDataFound string // message to display when no data is found
	Fields      []Field
}

// newTable creates a table with empty fields named by fieldNames
func newTable(name string, hasRows bool, fieldNames ...string) TableValues {
	t := TableValues{Name: name, HasRows: hasRows}
	for _, n := range fieldNames {
		t.Fields = append(t.Fields, Field{Name: n})
	}
	return t
}

// addRow appends one value to each field, in field order
func (t *TableValues) addRow(values ...string) {
	for i := range t.Fields {
		var v string
		if i < len(values) {
			v = values[i]
		}
		t.Fields[i].Values = append(t.Fields[i].Values, v)
	}
}

// numRows returns the number of values held by the first field
func (t TableValues) numRows() int {
	if len(t.Fields) == 0 {
		return 0
	}
	return len(t.Fields[0].Values)
}
