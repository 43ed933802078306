package dataset

import (
	"errors"
	"fmt"
)

// ErrColumnNotFound is returned when a table lacks a column a caller relies on.
var ErrColumnNotFound = errors.New("column not found")

// naTokens are the cell values read as missing, the usual dataframe-reader
// defaults.
var naTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "n/a": {}, "NULL": {}, "null": {}, "NaN": {}, "nan": {},
	"-NaN": {}, "-nan": {}, "None": {}, "<NA>": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {},
	"1.#IND": {}, "-1.#IND": {}, "1.#QNAN": {}, "-1.#QNAN": {},
}

// Table is a named, column-oriented view over rows of raw cell text.
// Cells keep the text form they were read in; typed parsing happens downstream.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]string

	index map[string]int
}

// New creates a table and indexes its columns.
func New(name string, columns []string, rows [][]string) *Table {
	t := &Table{Name: name, Columns: columns, Rows: rows}
	t.reindex()
	return t
}

func (t *Table) reindex() {
	t.index = make(map[string]int, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.index[c]; !dup {
			t.index[c] = i
		}
	}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Col returns the position of a column or ErrColumnNotFound.
func (t *Table) Col(name string) (int, error) {
	if t.index == nil {
		t.reindex()
	}
	i, ok := t.index[name]
	if !ok {
		return -1, fmt.Errorf("%s.%s: %w", t.Name, name, ErrColumnNotFound)
	}
	return i, nil
}

// Cell returns the raw value at row i, column j. Short rows read as empty.
func (t *Table) Cell(i, j int) string {
	row := t.Rows[i]
	if j >= len(row) {
		return ""
	}
	return row[j]
}

// IsNull reports whether the cell at row i, column j counts as missing.
func (t *Table) IsNull(i, j int) bool {
	return IsNA(t.Cell(i, j))
}

// NullCount returns the number of missing values in column j.
func (t *Table) NullCount(j int) int {
	n := 0
	for i := range t.Rows {
		if t.IsNull(i, j) {
			n++
		}
	}
	return n
}

// Clone returns a deep copy so callers can mutate without affecting the source.
func (t *Table) Clone() *Table {
	cols := make([]string, len(t.Columns))
	copy(cols, t.Columns)
	rows := make([][]string, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = make([]string, len(r))
		copy(rows[i], r)
	}
	return New(t.Name, cols, rows)
}

// IsNA reports whether a raw value is one of the missing-value tokens.
func IsNA(v string) bool {
	_, ok := naTokens[v]
	return ok
}
