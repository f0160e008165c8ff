package loadtop

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"testing"
)

type recordingLibrary struct {
	calls    int
	target   *Surface
	labels   []string
	datasets []Dataset
	opts     Options
}

func (l *recordingLibrary) CreateLineChart(target *Surface, labels []string, datasets []Dataset, opts Options) (ChartHandle, error) {
	l.calls++
	l.target, l.labels, l.datasets, l.opts = target, labels, datasets, opts
	return &LineChart{target: target, labels: labels, datasets: datasets, opts: opts, hover: -1}, nil
}

func TestRenderChartBindsDatasets(t *testing.T) {
	lib := &recordingLibrary{}
	surface := NewSurface(SURFACE_ID, 60, 12)

	if _, err := NewChartRenderer(lib, DefaultOptions()).RenderChart(scenarioSeries, surface); err != nil {
		t.Fatalf("RenderChart: %v", err)
	}
	if lib.calls != 1 {
		t.Fatalf("library called %d times, want 1", lib.calls)
	}
	if lib.target != surface {
		t.Error("chart not created on the given surface")
	}
	if !reflect.DeepEqual(lib.labels, scenarioSeries.Time) {
		t.Errorf("labels = %v", lib.labels)
	}
	if len(lib.datasets) != 2 || !reflect.DeepEqual(lib.datasets[0].Data, scenarioSeries.CPU) || !reflect.DeepEqual(lib.datasets[1].Data, scenarioSeries.Mem) {
		t.Errorf("datasets = %+v", lib.datasets)
	}
	if !reflect.DeepEqual(lib.opts, DefaultOptions()) {
		t.Errorf("options = %+v", lib.opts)
	}
}

func TestRenderChartPreconditions(t *testing.T) {
	lib := &recordingLibrary{}
	r := NewChartRenderer(lib, DefaultOptions())

	if _, err := r.RenderChart(scenarioSeries, nil); !errors.Is(err, ErrNoSurface) {
		t.Errorf("nil surface: err = %v", err)
	}
	if _, err := r.RenderChart(scenarioSeries, &Surface{ID: SURFACE_ID}); !errors.Is(err, ErrNoSurface) {
		t.Errorf("surface without buffer: err = %v", err)
	}

	mismatched := Series{Time: []string{"a", "b"}, CPU: []float64{1, 2}, Mem: []float64{3}}
	if _, err := r.RenderChart(mismatched, NewSurface(SURFACE_ID, 60, 12)); !errors.Is(err, ErrSeriesLength) {
		t.Errorf("mismatched series: err = %v", err)
	}

	if lib.calls != 0 {
		t.Errorf("library called %d times on bad input", lib.calls)
	}
}

func TestRenderChartInvalidOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Y.Max = -1
	if _, err := NewChartRenderer(nil, opts).RenderChart(scenarioSeries, NewSurface(SURFACE_ID, 60, 12)); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("err = %v, want ErrInvalidOptions", err)
	}
}

func TestLoadChart(t *testing.T) {
	srv, _ := loadServer(t, http.StatusOK,
		`{"timestamp":["10:00","10:01"],"cpu_percentage":[12,15],"memory_percentage":[40,42]}`)
	surface := NewSurface(SURFACE_ID, 60, 12)

	handle, err := LoadChart(context.Background(), newTestFetcher(t, srv.URL), NewChartRenderer(nil, DefaultOptions()), surface)
	if err != nil {
		t.Fatalf("LoadChart: %v", err)
	}
	if handle.Len() != 2 {
		t.Errorf("Len() = %d, want 2", handle.Len())
	}
	if !strings.Contains(surface.PlainText(), "10:01") {
		t.Errorf("surface:\n%s", surface.PlainText())
	}
}

func TestLoadChartFetchFailure(t *testing.T) {
	srv, _ := loadServer(t, http.StatusInternalServerError, ``)
	surface := NewSurface(SURFACE_ID, 60, 12)

	handle, err := LoadChart(context.Background(), newTestFetcher(t, srv.URL), NewChartRenderer(nil, DefaultOptions()), surface)
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if handle != nil {
		t.Error("a chart was returned for a failed fetch")
	}
	if strings.TrimSpace(surface.PlainText()) != "" {
		t.Errorf("surface was drawn on:\n%s", surface.PlainText())
	}
}

func TestLoadChartTwiceIsIndependent(t *testing.T) {
	srv, _ := loadServer(t, http.StatusOK,
		`{"timestamp":["10:00","10:01"],"cpu_percentage":[12,15],"memory_percentage":[40,42]}`)
	f := newTestFetcher(t, srv.URL)
	r := NewChartRenderer(nil, DefaultOptions())

	a, b := NewSurface(SURFACE_ID, 60, 12), NewSurface(SURFACE_ID, 60, 12)
	if _, err := LoadChart(context.Background(), f, r, a); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadChart(context.Background(), f, r, b); err != nil {
		t.Fatal(err)
	}
	if a.PlainText() != b.PlainText() {
		t.Errorf("same response rendered differently:\n%s\n---\n%s", a.PlainText(), b.PlainText())
	}
}

var _ Source = (*MetricsFetcher)(nil)
var _ Source = (*PrometheusSource)(nil)
