package loadtop

import (
	"math"
	"testing"
)

func TestMonotoneSplinePassesThroughSamples(t *testing.T) {
	y := []float64{12, 15, 40, 38, 38, 90, 3}
	s := newMonotoneSpline(y)
	for i, want := range y {
		if got := s.At(float64(i)); math.Abs(got-want) > 1e-9 {
			t.Errorf("At(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestMonotoneSplineKeepsMonotonicity(t *testing.T) {
	y := []float64{0, 1, 1.5, 40, 41, 100}
	s := newMonotoneSpline(y)
	prev := s.At(0)
	for x := 0.01; x <= float64(len(y)-1); x += 0.01 {
		v := s.At(x)
		if v < prev-1e-9 {
			t.Fatalf("At(%.2f) = %v dropped below %v", x, v, prev)
		}
		prev = v
	}
}

func TestMonotoneSplineFlatSegmentStaysFlat(t *testing.T) {
	s := newMonotoneSpline([]float64{10, 50, 50, 20})
	for x := 1.0; x <= 2.0; x += 0.1 {
		if v := s.At(x); math.Abs(v-50) > 1e-9 {
			t.Errorf("At(%.1f) = %v, want 50", x, v)
		}
	}
}

func TestCurveShortSeries(t *testing.T) {
	for _, mode := range []Interpolation{InterpolationDefault, InterpolationMonotone} {
		if v := newCurve(mode, nil).At(0.5); v != 0 {
			t.Errorf("%s: empty curve At = %v", mode, v)
		}
		if v := newCurve(mode, []float64{42}).At(3); v != 42 {
			t.Errorf("%s: single sample At = %v", mode, v)
		}
	}
}

func TestLinearCurve(t *testing.T) {
	c := newCurve(InterpolationDefault, []float64{0, 10, 30})
	tests := map[float64]float64{-1: 0, 0: 0, 0.5: 5, 1: 10, 1.25: 15, 2: 30, 7: 30}
	for x, want := range tests {
		if got := c.At(x); math.Abs(got-want) > 1e-9 {
			t.Errorf("At(%v) = %v, want %v", x, got, want)
		}
	}
}
