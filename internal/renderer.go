package loadtop

// ChartHandle is a rendered chart
type ChartHandle interface {
	// Surface returns the surface the chart was painted onto
	Surface() *Surface
	// Len returns the number of samples per dataset
	Len() int
	// Tooltip describes sample i; ok is false when tooltips are off or i is out of range
	Tooltip(i int) (text string, ok bool)
	// Hover emphasises sample i, or clears the emphasis for i < 0
	Hover(i int) error
}

// ChartLibrary draws line charts. labels and every dataset's data have the same length.
type ChartLibrary interface {
	CreateLineChart(target *Surface, labels []string, datasets []Dataset, opts Options) (ChartHandle, error)
}

// ChartRenderer turns a load series into a CPU/MEM line chart
type ChartRenderer struct {
	lib  ChartLibrary
	opts Options
}

// NewChartRenderer returns a renderer drawing with lib. A nil lib means TermLibrary.
func NewChartRenderer(lib ChartLibrary, opts Options) *ChartRenderer {
	if lib == nil {
		lib = TermLibrary{}
	}
	return &ChartRenderer{lib: lib, opts: opts}
}

func (r *ChartRenderer) Options() Options {
	return r.opts
}

// RenderChart paints series onto target. A missing surface or sequences of
// different lengths are rejected before anything is drawn.
func (r *ChartRenderer) RenderChart(series Series, target *Surface) (ChartHandle, error) {
	if target == nil || target.Buf == nil {
		return nil, ErrNoSurface
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if err := r.opts.Validate(); err != nil {
		return nil, err
	}

	labels := make([]string, len(series.Time))
	copy(labels, series.Time)
	return r.lib.CreateLineChart(target, labels, LoadDatasets(series), r.opts)
}
