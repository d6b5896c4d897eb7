package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table renders borderless aligned rows with an optional bold header.
type Table struct {
	display *DisplayContext
	headers []string
	rows    [][]string
	// muted columns render in the muted style.
	muted map[int]bool
}

// NewTable creates a table with the given column headers.
func NewTable(display *DisplayContext, headers ...string) *Table {
	if display == nil {
		display = NewDisplayContextWithWidth(DefaultTermWidth, false)
	}
	return &Table{display: display, headers: headers, muted: make(map[int]bool)}
}

// MuteColumn renders column i in the muted style.
func (t *Table) MuteColumn(i int) *Table {
	t.muted[i] = true
	return t
}

// AddRow adds a row. Missing cells are left blank; extra cells are dropped.
func (t *Table) AddRow(cells ...string) {
	row := make([]string, len(t.headers))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.rows) }

// String renders the table. An empty table renders as "".
func (t *Table) String() string {
	if len(t.rows) == 0 {
		return ""
	}
	header := t.display.Style(Bold)
	muted := t.display.Style(Muted)

	tbl := table.New().
		Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		BorderColumn(false).
		Headers(t.headers...).
		Rows(t.rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().PaddingRight(2)
			if row == table.HeaderRow {
				return header.PaddingRight(2)
			}
			if t.muted[col] {
				return muted.PaddingRight(2)
			}
			return base
		})

	var sb strings.Builder
	for _, line := range strings.Split(tbl.String(), "\n") {
		line = strings.TrimRight(line, " ")
		if line == "" {
			continue
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}
