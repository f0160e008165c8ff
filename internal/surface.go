package loadtop

import (
	"image"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	ui "github.com/gizak/termui/v3"
)

// Surface is the drawing target a chart is painted onto. It is a termui cell
// buffer with the identifier the chart is looked up by.
type Surface struct {
	ID  string
	Buf *ui.Buffer
}

// NewSurface allocates a cleared surface of width x height cells
func NewSurface(id string, width, height int) *Surface {
	return &Surface{
		ID:  id,
		Buf: ui.NewBuffer(image.Rect(0, 0, width, height)),
	}
}

func (s *Surface) Rect() image.Rectangle {
	return s.Buf.Rectangle
}

// Clear blanks every cell
func (s *Surface) Clear() {
	s.Buf.Fill(ui.CellClear, s.Buf.Rectangle)
}

// PlainText returns the runes of the surface, one line per row with trailing
// blanks removed.
func (s *Surface) PlainText() string {
	r := s.Rect()
	lines := make([]string, 0, r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		var b strings.Builder
		for x := r.Min.X; x < r.Max.X; x++ {
			b.WriteRune(cellRune(s.Buf.GetCell(image.Pt(x, y))))
		}
		lines = append(lines, strings.TrimRight(b.String(), " "))
	}
	return strings.Join(lines, "\n")
}

// String renders the surface with its colors for the terminal
func (s *Surface) String() string {
	r := s.Rect()
	lines := make([]string, 0, r.Dy())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		var line strings.Builder
		var run strings.Builder
		runStyle := ui.StyleClear
		flush := func() {
			if run.Len() > 0 {
				line.WriteString(cellStyle(runStyle).Render(run.String()))
				run.Reset()
			}
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			cell := s.Buf.GetCell(image.Pt(x, y))
			if cell.Style != runStyle {
				flush()
				runStyle = cell.Style
			}
			run.WriteRune(cellRune(cell))
		}
		flush()
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func cellRune(c ui.Cell) rune {
	if c.Rune == 0 {
		return ' '
	}
	return c.Rune
}

func cellStyle(s ui.Style) lipgloss.Style {
	style := lipgloss.NewStyle()
	if s.Fg != ui.ColorClear {
		style = style.Foreground(lipgloss.Color(strconv.Itoa(int(s.Fg))))
	}
	if s.Bg != ui.ColorClear {
		style = style.Background(lipgloss.Color(strconv.Itoa(int(s.Bg))))
	}
	if s.Modifier&ui.ModifierBold != 0 {
		style = style.Bold(true)
	}
	return style
}
