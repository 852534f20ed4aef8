// Package table renders aligned plain-text tables for the command line. Cell
// widths ignore ANSI color sequences so colored cells still line up.
package table

import (
	"fmt"
	"io"
	"strings"
)

// FormatFunc decorates a cell value, typically with color
type FormatFunc func(value string) string

// Column describes one column of a Table
type Column struct {
	Header   string
	Blank    string     // shown for empty cells, "-" by default
	Format   FormatFunc // applied at render time
	MinWidth int
	Right    bool // right align, for numbers
}

// Table collects rows and renders them with a header line
type Table struct {
	cols   []Column
	rows   [][]string
	widths []int
}

// New creates a table with the given columns
func New(cols ...Column) *Table {
	t := &Table{
		cols:   cols,
		widths: make([]int, len(cols)),
	}
	for i := range t.cols {
		if t.cols[i].Blank == "" {
			t.cols[i].Blank = "-"
		}
		t.widths[i] = max(t.cols[i].MinWidth, visibleWidth(t.cols[i].Header))
	}
	return t
}

// Add appends a row. Missing and empty cells show the column's blank value,
// extra cells are dropped.
func (t *Table) Add(cells ...string) {
	row := make([]string, len(t.cols))
	for i := range row {
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		} else {
			row[i] = t.cols[i].Blank
		}
		t.widths[i] = max(t.widths[i], visibleWidth(row[i]))
	}
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the header, a rule and every row to w
func (t *Table) Render(w io.Writer) error {
	line := make([]string, len(t.cols))

	for i, col := range t.cols {
		line[i] = t.pad(i, col.Header)
	}
	if err := writeLine(w, line); err != nil {
		return err
	}

	for i := range t.cols {
		line[i] = strings.Repeat("-", t.widths[i])
	}
	if err := writeLine(w, line); err != nil {
		return err
	}

	for _, row := range t.rows {
		for i, val := range row {
			if f := t.cols[i].Format; f != nil && val != t.cols[i].Blank {
				val = f(val)
			}
			line[i] = t.pad(i, val)
		}
		if err := writeLine(w, line); err != nil {
			return err
		}
	}
	return nil
}

func writeLine(w io.Writer, cells []string) error {
	_, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
	return err
}

func (t *Table) pad(col int, s string) string {
	n := t.widths[col] - visibleWidth(s)
	if n <= 0 {
		return s
	}
	if t.cols[col].Right {
		return strings.Repeat(" ", n) + s
	}
	return s + strings.Repeat(" ", n)
}

// visibleWidth counts runes outside of ANSI SGR sequences
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			width++
		}
	}
	return width
}

// Green colors s green
func Green(s string) string {
	return "\033[32m" + s + "\033[0m"
}

// Yellow colors s yellow
func Yellow(s string) string {
	return "\033[33m" + s + "\033[0m"
}

// Gray colors s dark gray
func Gray(s string) string {
	return "\033[90m" + s + "\033[0m"
}
