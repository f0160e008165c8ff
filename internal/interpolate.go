package loadtop

import "math"

// curve evaluates a series at fractional sample positions in [0, n-1]
type curve interface {
	At(x float64) float64
}

func newCurve(mode Interpolation, y []float64) curve {
	if mode == InterpolationMonotone {
		return newMonotoneSpline(y)
	}
	return linearCurve(y)
}

type linearCurve []float64

func (l linearCurve) At(x float64) float64 {
	i, t, ok := segment(len(l), x)
	if !ok {
		return pointValue(l)
	}
	return l[i] + (l[i+1]-l[i])*t
}

// monotoneSpline is a cubic Hermite spline with Fritsch-Carlson tangents.
// It passes through every sample and never overshoots between monotone
// samples.
type monotoneSpline struct {
	y []float64
	m []float64
}

func newMonotoneSpline(y []float64) monotoneSpline {
	n := len(y)
	m := make([]float64, n)
	if n < 2 {
		return monotoneSpline{y: y, m: m}
	}

	d := make([]float64, n-1)
	for i := range d {
		d[i] = y[i+1] - y[i]
	}

	m[0] = d[0]
	m[n-1] = d[n-2]
	for i := 1; i < n-1; i++ {
		if d[i-1]*d[i] <= 0 {
			m[i] = 0
		} else {
			m[i] = (d[i-1] + d[i]) / 2
		}
	}

	for i, di := range d {
		if di == 0 {
			m[i], m[i+1] = 0, 0
			continue
		}
		a, b := m[i]/di, m[i+1]/di
		if s := a*a + b*b; s > 9 {
			t := 3 / math.Sqrt(s)
			m[i] = t * a * di
			m[i+1] = t * b * di
		}
	}
	return monotoneSpline{y: y, m: m}
}

func (s monotoneSpline) At(x float64) float64 {
	i, t, ok := segment(len(s.y), x)
	if !ok {
		return pointValue(s.y)
	}
	t2, t3 := t*t, t*t*t
	h00 := 2*t3 - 3*t2 + 1
	h10 := t3 - 2*t2 + t
	h01 := -2*t3 + 3*t2
	h11 := t3 - t2
	return h00*s.y[i] + h10*s.m[i] + h01*s.y[i+1] + h11*s.m[i+1]
}

// segment locates x, clamped to [0, n-1], as segment i and offset t in [0,1].
// ok is false when there are fewer than two samples.
func segment(n int, x float64) (i int, t float64, ok bool) {
	if n < 2 {
		return 0, 0, false
	}
	x = math.Max(0, math.Min(float64(n-1), x))
	i = int(math.Floor(x))
	if i >= n-1 {
		i = n - 2
	}
	return i, x - float64(i), true
}

func pointValue(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	return y[0]
}
