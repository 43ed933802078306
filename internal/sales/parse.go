package sales

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/salesinsight/salesinsight/internal/dataset"
)

// dateLayouts are tried in order when parsing order dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
}

// ParseError reports a cell that could not be converted to its typed form.
type ParseError struct {
	Table  string
	Row    int
	Column string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s row %d column %s: cannot parse %q: %v", e.Table, e.Row, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseDate parses an order date in any of the accepted layouts.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// DaysBetween returns the whole days from a to b, floored like a timedelta's days.
func DaysBetween(a, b time.Time) int {
	return int(math.Floor(b.Sub(a).Hours() / 24))
}

// YearMonth is a calendar month bucket.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month bucket containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// Before reports whether ym is chronologically earlier than o.
func (ym YearMonth) Before(o YearMonth) bool {
	if ym.Year != o.Year {
		return ym.Year < o.Year
	}
	return ym.Month < o.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText renders the month as YYYY-MM.
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// rowReader converts the cells of one table, recording the first failure.
type rowReader struct {
	t   *dataset.Table
	row int
	err error
}

func (r *rowReader) fail(col int, err error) {
	if r.err == nil {
		r.err = &ParseError{Table: r.t.Name, Row: r.row + 1, Column: r.t.Columns[col], Value: r.t.Cell(r.row, col), Err: err}
	}
}

func (r *rowReader) required(col int) (string, bool) {
	if r.t.IsNull(r.row, col) {
		r.fail(col, fmt.Errorf("missing value"))
		return "", false
	}
	return strings.TrimSpace(r.t.Cell(r.row, col)), true
}

// text returns the cell or "" when missing.
func (r *rowReader) text(col int) string {
	if r.t.IsNull(r.row, col) {
		return ""
	}
	return strings.TrimSpace(r.t.Cell(r.row, col))
}

func (r *rowReader) integer(col int) int64 {
	s, ok := r.required(col)
	if !ok {
		return 0
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	// integer columns sometimes arrive as "12.0" from numeric database types
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		r.fail(col, fmt.Errorf("not an integer"))
		return 0
	}
	return int64(f)
}

func (r *rowReader) number(col int) float64 {
	s, ok := r.required(col)
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		r.fail(col, err)
		return 0
	}
	return f
}

func (r *rowReader) date(col int) time.Time {
	s, ok := r.required(col)
	if !ok {
		return time.Time{}
	}
	t, err := ParseDate(s)
	if err != nil {
		r.fail(col, err)
	}
	return t
}

// columns resolves every name against the table.
func columns(t *dataset.Table, names ...string) ([]int, error) {
	idx := make([]int, len(names))
	for i, n := range names {
		j, err := t.Col(n)
		if err != nil {
			return nil, err
		}
		idx[i] = j
	}
	return idx, nil
}
