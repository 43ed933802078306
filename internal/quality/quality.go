// Package quality profiles the loaded tables for missing values.
package quality

import (
	"sort"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// MissingColumn is a column with at least one missing value.
type MissingColumn struct {
	Column  string  `json:"column"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// TableReport is the profile of one table.
type TableReport struct {
	Name    string          `json:"name"`
	Rows    int             `json:"rows"`
	Missing []MissingColumn `json:"missing,omitempty"`
}

// Report is the profile of every loaded table.
type Report struct {
	Tables []TableReport `json:"tables"`
	// OK is always true once the report is produced; it never gates the analyses.
	OK bool `json:"ok"`
}

// Check profiles the tables in the given order. Tables not in order are
// appended alphabetically, and names in order that were not loaded are skipped.
func Check(tables map[string]*dataset.Table, order []string) *Report {
	r := &Report{OK: true}
	seen := make(map[string]bool, len(order))
	for _, name := range order {
		if t, ok := tables[name]; ok && !seen[name] {
			seen[name] = true
			r.Tables = append(r.Tables, profile(t))
		}
	}

	var rest []string
	for name := range tables {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		r.Tables = append(r.Tables, profile(tables[name]))
	}
	return r
}

func profile(t *dataset.Table) TableReport {
	tr := TableReport{Name: t.Name, Rows: t.Len()}
	if tr.Rows == 0 {
		return tr
	}
	for j, col := range t.Columns {
		n := t.NullCount(j)
		if n == 0 {
			continue
		}
		tr.Missing = append(tr.Missing, MissingColumn{
			Column:  col,
			Count:   n,
			Percent: float64(n) / float64(tr.Rows) * 100,
		})
	}
	return tr
}

// MissingTotal returns the number of missing cells across all tables.
func (r *Report) MissingTotal() int {
	total := 0
	for _, t := range r.Tables {
		for _, m := range t.Missing {
			total += m.Count
		}
	}
	return total
}
