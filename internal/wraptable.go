package loadtop

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// WrapTable wraps lipgloss table to support height-based wrapping
// When data exceeds maxHeight, it creates multiple tables side-by-side
type WrapTable struct {
	headers     []string
	rows        [][]string
	maxHeight   int
	border      lipgloss.Border
	borderStyle lipgloss.Style
}

func NewWrapTable() *WrapTable {
	return &WrapTable{
		border:      lipgloss.NormalBorder(),
		borderStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (wt *WrapTable) Headers(headers ...string) *WrapTable {
	wt.headers = headers
	return wt
}

func (wt *WrapTable) Rows(rows ...[]string) *WrapTable {
	wt.rows = rows
	return wt
}

// MaxHeight sets the maximum height constraint
func (wt *WrapTable) MaxHeight(height int) *WrapTable {
	wt.maxHeight = height
	return wt
}

// Chunks returns how many side-by-side tables Render produces
func (wt *WrapTable) Chunks() int {
	if len(wt.rows) == 0 {
		return 0
	}
	per := wt.rowsPerTable()
	return (len(wt.rows) + per - 1) / per
}

// header (1 line) + borders (top + bottom + header separator = 3)
func (wt *WrapTable) rowsPerTable() int {
	return max(1, wt.maxHeight-4)
}

func (wt *WrapTable) Render() string {
	if len(wt.rows) == 0 {
		return ""
	}

	per := wt.rowsPerTable()
	var tables []string
	for i := 0; i < len(wt.rows); i += per {
		end := min(i+per, len(wt.rows))
		t := table.New().
			Border(wt.border).
			BorderStyle(wt.borderStyle).
			Headers(wt.headers...).
			Rows(wt.rows[i:end]...)
		tables = append(tables, t.String())
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, tables...)
}
