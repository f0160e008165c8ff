package loadtop

import (
	"fmt"
	"image"
	"math"
	"strconv"
	"strings"

	ui "github.com/gizak/termui/v3"
	rw "github.com/mattn/go-runewidth"
)

// TermLibrary draws line charts with braille dots on a termui buffer
type TermLibrary struct{}

func (TermLibrary) CreateLineChart(target *Surface, labels []string, datasets []Dataset, opts Options) (ChartHandle, error) {
	if target == nil || target.Buf == nil {
		return nil, ErrNoSurface
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	c := &LineChart{
		target: target,
		labels: append([]string(nil), labels...),
		opts:   opts,
		hover:  -1,
	}
	for _, ds := range datasets {
		if len(ds.Data) != len(labels) {
			return nil, fmt.Errorf("%w: %d labels, dataset %s has %d values", ErrSeriesLength, len(labels), ds.Label, len(ds.Data))
		}
		ds.Data = append([]float64(nil), ds.Data...)
		c.datasets = append(c.datasets, ds)
	}

	if err := c.layout(); err != nil {
		return nil, err
	}
	c.draw()
	return c, nil
}

// LineChart is a chart painted by TermLibrary. It keeps its own copy of the data.
type LineChart struct {
	target   *Surface
	labels   []string
	datasets []Dataset
	opts     Options
	hover    int

	// layout, in cells
	plot      image.Rectangle
	axisX     int // -1 without a y axis gutter
	axisRow   int
	labelRow  int
	titleRow  int // -1 when hidden
	legendPos image.Point
}

func (c *LineChart) Surface() *Surface {
	return c.target
}

func (c *LineChart) Len() int {
	return len(c.labels)
}

func (c *LineChart) Labels() []string {
	return c.labels
}

func (c *LineChart) Datasets() []Dataset {
	return c.datasets
}

func (c *LineChart) Tooltip(i int) (string, bool) {
	if !c.opts.Tooltips.Enabled || i < 0 || i >= len(c.labels) {
		return "", false
	}
	parts := []string{c.labels[i]}
	for _, ds := range c.datasets {
		parts = append(parts, fmt.Sprintf("%s: %.1f%%", ds.Label, ds.Data[i]))
	}
	return strings.Join(parts, "  "), true
}

func (c *LineChart) Hover(i int) error {
	if i >= len(c.labels) {
		return fmt.Errorf("hover index %d out of range [0,%d)", i, len(c.labels))
	}
	if i < 0 {
		i = -1
	}
	c.hover = i
	c.draw()
	return nil
}

func (c *LineChart) legendWidth() int {
	w := 0
	for _, ds := range c.datasets {
		w = max(w, rw.StringWidth(ds.Label))
	}
	// gap + swatch + space
	return w + 3
}

func (c *LineChart) layout() error {
	r := c.target.Rect()
	p := c.opts.Padding

	top := r.Min.Y + p.Top
	bottom := r.Max.Y - p.Bottom
	left := r.Min.X + p.Left
	right := r.Max.X - p.Right

	c.titleRow = -1
	if c.opts.Title.Display {
		c.titleRow = top
		top++
	}

	if c.opts.Legend.Display && len(c.datasets) > 0 {
		switch c.opts.Legend.Position {
		case "right":
			right -= c.legendWidth()
			c.legendPos = image.Pt(right+1, top)
		case "top":
			c.legendPos = image.Pt(left, top)
			top++
		}
	}

	c.axisX = -1
	if p.Left > 0 {
		c.axisX = left - 1
	}
	c.labelRow = bottom - 1
	c.axisRow = bottom - 2

	// image.Rect would swap inverted corners, so check the extent first
	w, h := right-left, c.axisRow-top
	if w < 2 || h < 1 {
		return fmt.Errorf("%w: %dx%d cells leave a %dx%d plot", ErrSurfaceTooSmall, r.Dx(), r.Dy(), w, h)
	}
	c.plot = image.Rect(left, top, right, c.axisRow)
	return nil
}

// braille dot space of the plot area
func (c *LineChart) dots() (x0, y0, w, h int) {
	return c.plot.Min.X * 2, c.plot.Min.Y * 4, c.plot.Dx() * 2, c.plot.Dy() * 4
}

func (c *LineChart) valueY(v float64) int {
	_, y0, _, h := c.dots()
	frac := (v - c.opts.Y.Min) / (c.opts.Y.Max - c.opts.Y.Min)
	y := y0 + h - 1 - int(math.Round(frac*float64(h-1)))
	// one dot past either edge is enough to show the line leaving the plot,
	// the braille canvas has no negative dots
	return max(0, y0-1, min(y0+h, y))
}

func (c *LineChart) sampleX(i int) int {
	x0, _, w, _ := c.dots()
	n := len(c.labels)
	if n < 2 {
		return x0 + w/2
	}
	return x0 + int(math.Round(float64(i)*float64(w-1)/float64(n-1)))
}

func (c *LineChart) draw() {
	c.target.Clear()
	buf := c.target.Buf

	canvas := ui.NewCanvas()
	canvas.Border = false
	canvas.SetRect(c.plot.Min.X, c.plot.Min.Y, c.plot.Max.X, c.plot.Max.Y)

	for _, ds := range c.datasets {
		if ds.Fill {
			c.fill(canvas, ds)
		}
	}
	for _, ds := range c.datasets {
		c.line(canvas, ds)
	}
	if c.hover >= 0 {
		for _, ds := range c.datasets {
			c.marker(canvas, ds, c.hover)
		}
	}
	canvas.Draw(buf)

	c.drawAxes(buf)
	c.drawLegend(buf)
	c.drawTitle(buf)
}

// curvePoints samples the interpolated dataset once per dot column
func (c *LineChart) curvePoints(ds Dataset) []image.Point {
	n := len(ds.Data)
	switch n {
	case 0:
		return nil
	case 1:
		return []image.Point{image.Pt(c.sampleX(0), c.valueY(ds.Data[0]))}
	}

	x0, _, w, _ := c.dots()
	curve := newCurve(ds.Interpolation, ds.Data)
	points := make([]image.Point, 0, w)
	for col := 0; col < w; col++ {
		t := float64(col) * float64(n-1) / float64(w-1)
		points = append(points, image.Pt(x0+col, c.valueY(curve.At(t))))
	}
	return points
}

func (c *LineChart) fill(canvas *ui.Canvas, ds Dataset) {
	color := ds.BackgroundColor.Term()
	base := c.valueY(c.opts.Y.Min)
	for _, p := range c.curvePoints(ds) {
		canvas.SetLine(image.Pt(p.X, base), p, color)
	}
}

func (c *LineChart) line(canvas *ui.Canvas, ds Dataset) {
	color := ds.BorderColor.Term()
	points := c.curvePoints(ds)
	// border width is in pixels, a braille dot is about two of them
	thickness := max(1, (ds.BorderWidth+1)/2)
	for k := 0; k < thickness; k++ {
		if len(points) == 1 {
			canvas.SetPoint(points[0].Add(image.Pt(0, k)), color)
			continue
		}
		for i := 1; i < len(points); i++ {
			canvas.SetLine(points[i-1].Add(image.Pt(0, k)), points[i].Add(image.Pt(0, k)), color)
		}
	}
}

func (c *LineChart) marker(canvas *ui.Canvas, ds Dataset, i int) {
	color := ds.HoverBorderColor.Term()
	center := image.Pt(c.sampleX(i), c.valueY(ds.Data[i]))
	half := ds.HoverBorderWidth / 4
	for dx := -half; dx <= half; dx++ {
		x := center.X + dx
		if x < 0 {
			continue
		}
		canvas.SetLine(image.Pt(x, max(0, center.Y-half)), image.Pt(x, center.Y+half), color)
	}
}

func (c *LineChart) drawAxes(buf *ui.Buffer) {
	style := ui.NewStyle(ui.ColorClear)

	for x := c.plot.Min.X; x < c.plot.Max.X; x++ {
		buf.SetCell(ui.NewCell(ui.HORIZONTAL_LINE, style), image.Pt(x, c.axisRow))
	}

	if c.axisX >= 0 {
		for y := c.plot.Min.Y; y < c.plot.Max.Y; y++ {
			buf.SetCell(ui.NewCell(ui.VERTICAL_LINE, style), image.Pt(c.axisX, y))
		}
		buf.SetCell(ui.NewCell(ui.BOTTOM_LEFT, style), image.Pt(c.axisX, c.axisRow))

		used := map[int]bool{}
		mid := (c.opts.Y.Min + c.opts.Y.Max) / 2
		for _, v := range []float64{c.opts.Y.Max, c.opts.Y.Min, mid} {
			row := c.valueY(v) / 4
			if used[row] {
				continue
			}
			used[row] = true
			label := strconv.FormatFloat(v, 'f', -1, 64)
			x := c.axisX - rw.StringWidth(label)
			if x < c.target.Rect().Min.X {
				continue
			}
			buf.SetString(label, style, image.Pt(x, row))
		}
	}

	c.drawTimeLabels(buf, style)
}

// drawTimeLabels writes the first, last and middle labels under the axis
// where they fit without touching each other.
func (c *LineChart) drawTimeLabels(buf *ui.Buffer, style ui.Style) {
	n := len(c.labels)
	if n == 0 {
		return
	}

	type span struct{ from, to int }
	var taken []span
	minX := c.target.Rect().Min.X
	maxX := c.target.Rect().Max.X

	place := func(i int, align int) {
		label := c.labels[i]
		width := rw.StringWidth(label)
		col := c.sampleX(i) / 2
		start := col
		switch {
		case align > 0:
			start = col - width + 1
		case align == 0:
			start = col - width/2
		}
		start = max(minX, min(maxX-width, start))
		s := span{start - 1, start + width}
		for _, t := range taken {
			if s.from < t.to && t.from < s.to {
				return
			}
		}
		taken = append(taken, s)
		buf.SetString(label, style, image.Pt(start, c.labelRow))
	}

	place(0, -1)
	if n > 1 {
		place(n-1, 1)
	}
	if n > 2 {
		place((n-1)/2, 0)
	}
}

func (c *LineChart) drawLegend(buf *ui.Buffer) {
	if !c.opts.Legend.Display {
		return
	}
	labelStyle := ui.NewStyle(c.opts.Legend.LabelColor.Term())
	p := c.legendPos
	for _, ds := range c.datasets {
		buf.SetCell(ui.NewCell('■', ui.NewStyle(ds.BorderColor.Term())), p)
		buf.SetString(ds.Label, labelStyle, p.Add(image.Pt(2, 0)))
		if c.opts.Legend.Position == "top" {
			p.X += rw.StringWidth(ds.Label) + 4
		} else {
			p.Y++
		}
	}
}

func (c *LineChart) drawTitle(buf *ui.Buffer) {
	if c.titleRow < 0 {
		return
	}
	r := c.target.Rect()
	title := ui.TrimString(c.opts.Title.Text, r.Dx())
	x := r.Min.X + (r.Dx()-rw.StringWidth(title))/2
	buf.SetString(title, ui.NewStyle(ui.ColorClear, ui.ColorClear, ui.ModifierBold), image.Pt(x, c.titleRow))
}
