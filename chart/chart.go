// Package chart describes the three line charts of the demo and turns their
// series into drawable geometry. Front ends render a Model; they never own data.
package chart

import (
	"image/color"
	"strconv"
	"sync"
)

// Chart accepts ordered label/value series and redraws immediately.
type Chart interface {
	Update(labels []string, values []float64)
}

type Spec struct {
	Title     string
	XTitle    string
	YTitle    string
	Color     color.NRGBA
	LineWidth float32

	// FixedY pins the y axis to [YMin, YMax]; otherwise it follows the data.
	FixedY bool
	YMin   float64
	YMax   float64

	// MaxXTicks limits the number of x labels drawn. 0 means no limit.
	MaxXTicks int

	// Smooth draws an interpolated curve through the points instead of straight segments.
	Smooth bool
}

var (
	LiveNoise = Spec{
		Title:     "Live noise",
		XTitle:    "Time",
		YTitle:    "Noise level",
		Color:     color.NRGBA{G: 128, A: 255},
		LineWidth: 1,
		FixedY:    true,
		YMin:      0,
		YMax:      100,
		MaxXTicks: 10,
	}
	DigitalSignal = Spec{
		Title:     "Digital signal",
		XTitle:    "Sample",
		YTitle:    "Amplitude",
		Color:     color.NRGBA{B: 255, A: 255},
		LineWidth: 1,
		MaxXTicks: 10,
	}
	AnalogSignal = Spec{
		Title:     "Analog signal (interpolated)",
		XTitle:    "Sample",
		YTitle:    "Amplitude",
		Color:     color.NRGBA{R: 255, A: 255},
		LineWidth: 2,
		MaxXTicks: 10,
		Smooth:    true,
	}
)

// Model holds the latest series of one chart.
//
// All the functions of a Model are concurrent-safe.
type Model struct {
	spec Spec

	m        sync.RWMutex
	labels   []string
	values   []float64
	updates  int
	onUpdate func()
}

func NewModel(spec Spec) *Model {
	return &Model{spec: spec}
}

func (m *Model) Spec() Spec {
	return m.spec
}

// Update replaces the series and calls the OnUpdate listener.
func (m *Model) Update(labels []string, values []float64) {
	m.m.Lock()
	m.labels = append(m.labels[:0], labels...)
	m.values = append(m.values[:0], values...)
	m.updates++
	f := m.onUpdate
	m.m.Unlock()

	if f != nil {
		f()
	}
}

// OnUpdate registers f to run after every Update, on the updating goroutine.
func (m *Model) OnUpdate(f func()) {
	m.m.Lock()
	m.onUpdate = f
	m.m.Unlock()
}

// Data returns copies of the current series.
func (m *Model) Data() ([]string, []float64) {
	m.m.RLock()
	defer m.m.RUnlock()
	return append([]string(nil), m.labels...), append([]float64(nil), m.values...)
}

func (m *Model) Updates() int {
	m.m.RLock()
	defer m.m.RUnlock()
	return m.updates
}

// IndexLabels returns "0" .. "n-1", the x labels of the signal charts.
func IndexLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = strconv.Itoa(i)
	}
	return labels
}
