package loadtop

import (
	"errors"
	"testing"

	ui "github.com/gizak/termui/v3"
)

func TestLoadDatasets(t *testing.T) {
	s := Series{Time: []string{"10:00", "10:01"}, CPU: []float64{12, 15}, Mem: []float64{40, 42}}
	datasets := LoadDatasets(s)

	if len(datasets) != 2 {
		t.Fatalf("got %d datasets, want 2", len(datasets))
	}
	cpu, mem := datasets[0], datasets[1]
	if cpu.Label != "CPU" || mem.Label != "MEM" {
		t.Errorf("labels = %s, %s", cpu.Label, mem.Label)
	}
	if cpu.BorderColor == mem.BorderColor || cpu.BackgroundColor == mem.BackgroundColor {
		t.Error("CPU and MEM share a color")
	}
	for _, ds := range datasets {
		if !ds.Fill {
			t.Errorf("%s: fill off", ds.Label)
		}
		if ds.Interpolation != InterpolationMonotone {
			t.Errorf("%s: interpolation %s", ds.Label, ds.Interpolation)
		}
		if ds.HoverBorderWidth <= ds.BorderWidth {
			t.Errorf("%s: hover border %d not wider than border %d", ds.Label, ds.HoverBorderWidth, ds.BorderWidth)
		}
		if ds.BackgroundColor.A >= ds.BorderColor.A {
			t.Errorf("%s: fill is not lighter than the line", ds.Label)
		}
	}
	if cpu.BorderColor.String() != "rgba(255, 127, 64, 1)" {
		t.Errorf("CPU border = %s", cpu.BorderColor)
	}
	if mem.BackgroundColor.String() != "rgba(64, 127, 255, 0.2)" {
		t.Errorf("MEM fill = %s", mem.BackgroundColor)
	}
	if cpu.Data[1] != 15 || mem.Data[0] != 40 {
		t.Errorf("data not bound: %v %v", cpu.Data, mem.Data)
	}
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Y.Min != 0 || o.Y.Max != 100 {
		t.Errorf("y axis = [%v,%v], want [0,100]", o.Y.Min, o.Y.Max)
	}
	if !o.Legend.Display || o.Legend.Position != "right" {
		t.Errorf("legend = %+v", o.Legend)
	}
	if o.Legend.LabelColor != (RGBA{A: 1}) {
		t.Errorf("legend label color = %s, want black", o.Legend.LabelColor)
	}
	if o.Title.Display || o.Title.Text != CHART_TITLE {
		t.Errorf("title = %+v", o.Title)
	}
	if !o.Tooltips.Enabled {
		t.Error("tooltips disabled")
	}
	if o.Padding.Left <= 0 {
		t.Error("no left padding for the axis labels")
	}
	if o.Responsive {
		t.Error("responsive by default")
	}
	if err := o.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestOptionsValidate(t *testing.T) {
	o := DefaultOptions()
	o.Y = YScale{Min: 100, Max: 100}
	if err := o.Validate(); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("flat y axis: err = %v", err)
	}

	o = DefaultOptions()
	o.Legend.Position = "bottom-left"
	if err := o.Validate(); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("legend position: err = %v", err)
	}
}

func TestRGBATerm(t *testing.T) {
	tests := []struct {
		color RGBA
		want  ui.Color
	}{
		{RGBA{A: 1}, 16},
		{RGBA{R: 255, G: 255, B: 255, A: 1}, 231},
		{RGBA{R: 128, G: 128, B: 128, A: 1}, 244},
		{cpuColor, 209},
		{memColor, 69},
		// fully transparent is the black background
		{RGBA{R: 255, G: 255, B: 255, A: 0}, 16},
	}
	for _, tt := range tests {
		if got := tt.color.Term(); got != tt.want {
			t.Errorf("%s.Term() = %d, want %d", tt.color, got, tt.want)
		}
	}
}
