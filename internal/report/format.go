package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const ruleWidth = 50

var printer = message.NewPrinter(language.English)

var (
	cellStyle    = lipgloss.NewStyle().PaddingRight(2)
	numericStyle = cellStyle.Align(lipgloss.Right)
)

// Banner writes a section heading framed by rules of '='.
func Banner(w io.Writer, title string, indent int) {
	fmt.Fprintf(w, "\n%s\n%s%s\n%s\n", strings.Repeat("=", ruleWidth), strings.Repeat(" ", indent), title, strings.Repeat("=", ruleWidth))
}

// Money formats a value as "R$ 1,234.56".
func Money(v float64) string {
	return "R$ " + Grouped(v, 2)
}

// Grouped formats v with comma thousands separators and fixed decimals.
func Grouped(v float64, places int) string {
	if s, ok := special(v); ok {
		return s
	}
	return printer.Sprintf("%."+strconv.Itoa(places)+"f", v)
}

// Int formats n with comma thousands separators.
func Int(n int64) string {
	return printer.Sprintf("%d", n)
}

// Fixed formats v with fixed decimals and no grouping. NaN prints as "nan".
func Fixed(v float64, places int) string {
	if s, ok := special(v); ok {
		return s
	}
	return strconv.FormatFloat(v, 'f', places, 64)
}

func special(v float64) (string, bool) {
	switch {
	case math.IsNaN(v):
		return "nan", true
	case math.IsInf(v, 1):
		return "inf", true
	case math.IsInf(v, -1):
		return "-inf", true
	}
	return "", false
}

// cell formats a number for a table column. Missing means print as NaN.
func cell(v float64, places int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return Grouped(v, places)
}

// renderTable lays out rows under headers. Columns listed in numeric are right aligned.
func renderTable(headers []string, rows [][]string, numeric ...int) string {
	if len(rows) == 0 {
		return "(sem dados)\n"
	}
	right := make(map[int]bool, len(numeric))
	for _, c := range numeric {
		right[c] = true
	}
	t := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if right[col] {
				return numericStyle
			}
			return cellStyle
		})
	return strings.TrimRight(t.String(), "\n") + "\n"
}
