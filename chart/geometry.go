package chart

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/interp"
)

// SmoothSteps is the number of interpolated points per segment of a smooth chart.
const SmoothSteps = 4

type Point struct {
	X, Y float32
}

type Tick struct {
	Index int
	Label string
}

// YRange returns the y axis bounds for values.
func (s Spec) YRange(values []float64) (lo, hi float64) {
	if s.FixedY {
		return s.YMin, s.YMax
	}
	if len(values) == 0 {
		return -1, 1
	}
	lo, hi = floats.Min(values), floats.Max(values)
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return lo, hi
}

// Polyline maps values into a w by h box with the origin at the top left,
// x evenly spaced and y scaled to YRange. Smooth specs are interpolated first.
func Polyline(spec Spec, values []float64, w, h float32) []Point {
	if len(values) == 0 {
		return nil
	}
	lo, hi := spec.YRange(values)
	if spec.Smooth {
		values = Interpolate(values, SmoothSteps)
	}

	points := make([]Point, len(values))
	span := float32(len(values) - 1)
	for i, v := range values {
		var x float32
		if span > 0 {
			x = float32(i) / span * w
		}
		y := h - float32((v-lo)/(hi-lo))*h
		points[i] = Point{X: x, Y: y}
	}
	return points
}

// Interpolate returns a natural cubic spline through values sampled steps
// times per segment. The original values sit at every steps-th index.
func Interpolate(values []float64, steps int) []float64 {
	if len(values) < 3 || steps < 2 {
		return append([]float64(nil), values...)
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	var spline interp.NaturalCubic
	if err := spline.Fit(xs, values); err != nil {
		return append([]float64(nil), values...)
	}

	out := make([]float64, (len(values)-1)*steps+1)
	for i := range out {
		if i%steps == 0 {
			out[i] = values[i/steps]
			continue
		}
		out[i] = spline.Predict(float64(i) / float64(steps))
	}
	return out
}

// Ticks picks at most maxTicks evenly spaced labels, always starting with the first.
func Ticks(labels []string, maxTicks int) []Tick {
	if len(labels) == 0 {
		return nil
	}
	step := 1
	if maxTicks > 0 && len(labels) > maxTicks {
		step = (len(labels) + maxTicks - 1) / maxTicks
	}
	ticks := make([]Tick, 0, len(labels)/step+1)
	for i := 0; i < len(labels); i += step {
		ticks = append(ticks, Tick{Index: i, Label: labels[i]})
	}
	return ticks
}
