package loadtop

import (
	"fmt"
	"math"
	"strconv"

	ui "github.com/gizak/termui/v3"
)

// RGBA is a color with straight (not premultiplied) alpha in [0,1]
type RGBA struct {
	R, G, B uint8
	A       float64
}

func (c RGBA) String() string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(c.A, 'f', -1, 64))
}

// xterm-256 cube levels
var cubeLevels = [6]float64{0, 95, 135, 175, 215, 255}

// Term returns the xterm-256 color closest to c painted over a black terminal background.
func (c RGBA) Term() ui.Color {
	a := math.Max(0, math.Min(1, c.A))
	r, g, b := float64(c.R)*a, float64(c.G)*a, float64(c.B)*a

	ri, gi, bi := nearestLevel(r), nearestLevel(g), nearestLevel(b)
	cube := 16 + 36*ri + 6*gi + bi
	cubeDist := sq(r-cubeLevels[ri]) + sq(g-cubeLevels[gi]) + sq(b-cubeLevels[bi])

	// grayscale ramp 232..255 covers 8, 18, ..., 238
	k := int(math.Round(((r+g+b)/3 - 8) / 10))
	k = max(0, min(23, k))
	gray := float64(8 + 10*k)
	grayDist := sq(r-gray) + sq(g-gray) + sq(b-gray)

	if grayDist < cubeDist {
		return ui.Color(232 + k)
	}
	return ui.Color(cube)
}

func nearestLevel(v float64) int {
	best := 0
	for i, l := range cubeLevels {
		if math.Abs(v-l) < math.Abs(v-cubeLevels[best]) {
			best = i
		}
	}
	return best
}

func sq(v float64) float64 { return v * v }

type Interpolation string

const (
	InterpolationDefault  Interpolation = "default"
	InterpolationMonotone Interpolation = "monotone"
)

// Dataset is one named line of a chart
type Dataset struct {
	Label            string
	Data             []float64
	BorderColor      RGBA
	BackgroundColor  RGBA
	BorderWidth      int
	HoverBorderWidth int
	HoverBorderColor RGBA
	Fill             bool
	Interpolation    Interpolation
}

type TitleOptions struct {
	Display  bool
	Text     string
	FontSize int
}

type LegendOptions struct {
	Display    bool
	Position   string // "right" or "top"
	LabelColor RGBA
}

// Padding is measured in terminal cells
type Padding struct {
	Left, Right, Top, Bottom int
}

// YScale bounds the vertical axis. The chart never scales it to the data.
type YScale struct {
	Min, Max float64
}

type TooltipOptions struct {
	Enabled bool
}

// Options holds the chart wide settings
type Options struct {
	// Responsive charts are redrawn to follow the size of their container
	Responsive bool
	Title      TitleOptions
	Legend     LegendOptions
	Padding    Padding
	Y          YScale
	Tooltips   TooltipOptions
}

// Validate reports settings the renderer cannot draw
func (o Options) Validate() error {
	if !(o.Y.Max > o.Y.Min) {
		return fmt.Errorf("%w: y axis max %v must exceed min %v", ErrInvalidOptions, o.Y.Max, o.Y.Min)
	}
	if o.Legend.Display && o.Legend.Position != "right" && o.Legend.Position != "top" {
		return fmt.Errorf("%w: legend position %q", ErrInvalidOptions, o.Legend.Position)
	}
	if o.Padding.Left < 0 || o.Padding.Right < 0 || o.Padding.Top < 0 || o.Padding.Bottom < 0 {
		return fmt.Errorf("%w: negative padding", ErrInvalidOptions)
	}
	return nil
}

var (
	cpuColor = RGBA{R: 255, G: 127, B: 64, A: 1}
	memColor = RGBA{R: 64, G: 127, B: 255, A: 1}
)

// DefaultOptions returns the options of the load chart: a fixed 0-100 axis,
// legend on the right in black, tooltips on and the title hidden.
func DefaultOptions() Options {
	return Options{
		Responsive: false,
		Title: TitleOptions{
			Display:  false,
			Text:     CHART_TITLE,
			FontSize: 25,
		},
		Legend: LegendOptions{
			Display:    true,
			Position:   "right",
			LabelColor: RGBA{A: 1},
		},
		Padding: Padding{Left: 5},
		Y:       YScale{Min: 0, Max: 100},
		Tooltips: TooltipOptions{
			Enabled: true,
		},
	}
}

// LoadDatasets binds the CPU and MEM lines to s
func LoadDatasets(s Series) []Dataset {
	return []Dataset{
		percentDataset("CPU", s.CPU, cpuColor),
		percentDataset("MEM", s.Mem, memColor),
	}
}

func percentDataset(label string, data []float64, color RGBA) Dataset {
	fill := color
	fill.A = 0.2
	return Dataset{
		Label:            label,
		Data:             data,
		BorderColor:      color,
		BackgroundColor:  fill,
		BorderWidth:      2,
		HoverBorderWidth: 8,
		HoverBorderColor: color,
		Fill:             true,
		Interpolation:    InterpolationMonotone,
	}
}
