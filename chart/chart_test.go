package chart_test

import (
	"math"
	"testing"

	"github.com/Lundis/noise-decrease/chart"
	"github.com/Lundis/noise-decrease/waveform"
)

func TestModelCopiesAndNotifies(t *testing.T) {
	m := chart.NewModel(chart.LiveNoise)
	calls := 0
	m.OnUpdate(func() { calls++ })

	labels := []string{"00:01", "00:02"}
	values := []float64{10, 20}
	m.Update(labels, values)
	values[0] = 99

	gotLabels, gotValues := m.Data()
	if len(gotLabels) != 2 || gotValues[0] != 10 {
		t.Fatalf("model data %v %v", gotLabels, gotValues)
	}
	if calls != 1 || m.Updates() != 1 {
		t.Fatalf("listener called %d times, %d updates", calls, m.Updates())
	}
}

func TestIndexLabels(t *testing.T) {
	labels := chart.IndexLabels(640)
	if len(labels) != 640 || labels[0] != "0" || labels[639] != "639" {
		t.Fatalf("labels %q .. %q", labels[0], labels[len(labels)-1])
	}
}

func TestYRange(t *testing.T) {
	lo, hi := chart.LiveNoise.YRange([]float64{3, 4})
	if lo != 0 || hi != 100 {
		t.Fatalf("live noise range %v..%v", lo, hi)
	}
	lo, hi = chart.DigitalSignal.YRange(waveform.Signal())
	if lo != -1 || hi != 1 {
		t.Fatalf("digital range %v..%v", lo, hi)
	}
	lo, hi = chart.DigitalSignal.YRange([]float64{2, 2})
	if lo != 1 || hi != 3 {
		t.Fatalf("flat range %v..%v", lo, hi)
	}
}

func TestPolylineFixedAxis(t *testing.T) {
	points := chart.Polyline(chart.LiveNoise, []float64{0, 50, 100}, 200, 100)
	want := []chart.Point{{X: 0, Y: 100}, {X: 100, Y: 50}, {X: 200, Y: 0}}
	for i := range want {
		if points[i] != want[i] {
			t.Fatalf("point %d = %+v, want %+v", i, points[i], want[i])
		}
	}
	if chart.Polyline(chart.LiveNoise, nil, 10, 10) != nil {
		t.Fatalf("empty series should have no points")
	}
}

func TestInterpolatePassesThroughSamples(t *testing.T) {
	signal := waveform.Signal()
	smooth := chart.Interpolate(signal, chart.SmoothSteps)
	if len(smooth) != (len(signal)-1)*chart.SmoothSteps+1 {
		t.Fatalf("interpolated length %d", len(smooth))
	}
	for i, v := range signal {
		if smooth[i*chart.SmoothSteps] != v {
			t.Fatalf("sample %d moved: %v != %v", i, smooth[i*chart.SmoothSteps], v)
		}
	}
	// between samples the spline follows the underlying sine closely
	for i := 20; i < 600; i++ {
		x := float64(i) + 0.5
		got := smooth[i*chart.SmoothSteps+chart.SmoothSteps/2]
		if math.Abs(got-math.Sin(x*math.Pi/10)) > 0.01 {
			t.Fatalf("interpolated %v at %v, sine is %v", got, x, math.Sin(x*math.Pi/10))
		}
	}
}

func TestSmoothPolylineHasMorePoints(t *testing.T) {
	points := chart.Polyline(chart.AnalogSignal, waveform.Signal(), 640, 100)
	if len(points) != (waveform.Length-1)*chart.SmoothSteps+1 {
		t.Fatalf("smooth polyline has %d points", len(points))
	}
	if points[len(points)-1].X != 640 {
		t.Fatalf("last point x = %v", points[len(points)-1].X)
	}
}

func TestTicks(t *testing.T) {
	labels := chart.IndexLabels(300)
	ticks := chart.Ticks(labels, 10)
	if len(ticks) > 10 {
		t.Fatalf("%d ticks, want at most 10", len(ticks))
	}
	if ticks[0].Index != 0 || ticks[1].Index != 30 {
		t.Fatalf("ticks %+v", ticks[:2])
	}
	if got := chart.Ticks(labels[:3], 10); len(got) != 3 {
		t.Fatalf("short series should label every point, got %d", len(got))
	}
}
