// Package analyser turns a stream of time-domain samples into byte
// frequency-magnitude snapshots, the way a browser analyser node does:
// Blackman window, FFT, temporal smoothing, then decibels mapped onto 0-255.
package analyser

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/floats"
)

const (
	MinFFTSize = 32
	MaxFFTSize = 32768

	DefaultFFTSize               = 2048
	DefaultSmoothingTimeConstant = 0.8
	DefaultMinDecibels           = -100.0
	DefaultMaxDecibels           = -30.0
)

// Node keeps the latest FFTSize samples written to it.
//
// All the functions of a Node are concurrent-safe.
type Node struct {
	m        sync.Mutex
	fftSize  int
	input    []float64
	pos      int
	window   []float64
	scratch  []float64
	smoothed []float64

	smoothing   float64
	minDecibels float64
	maxDecibels float64
}

// New creates a Node analysing windows of fftSize samples, which must be a
// power of two between MinFFTSize and MaxFFTSize.
func New(fftSize int) (*Node, error) {
	if fftSize < MinFFTSize || fftSize > MaxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("analyser: fft size must be a power of two in [%d, %d], got %d", MinFFTSize, MaxFFTSize, fftSize)
	}
	return &Node{
		fftSize:     fftSize,
		input:       make([]float64, fftSize),
		window:      blackman(fftSize),
		scratch:     make([]float64, fftSize),
		smoothed:    make([]float64, fftSize/2),
		smoothing:   DefaultSmoothingTimeConstant,
		minDecibels: DefaultMinDecibels,
		maxDecibels: DefaultMaxDecibels,
	}, nil
}

func (n *Node) FFTSize() int {
	return n.fftSize
}

// FrequencyBinCount is half the FFT size: the length of a full snapshot.
func (n *Node) FrequencyBinCount() int {
	return n.fftSize / 2
}

func (n *Node) SetSmoothingTimeConstant(v float64) error {
	if v < 0 || v > 1 {
		return fmt.Errorf("analyser: smoothing time constant must be in [0, 1], got %v", v)
	}
	n.m.Lock()
	n.smoothing = v
	n.m.Unlock()
	return nil
}

func (n *Node) SetDecibelRange(minDecibels, maxDecibels float64) error {
	if minDecibels >= maxDecibels {
		return fmt.Errorf("analyser: min decibels %v must be below max decibels %v", minDecibels, maxDecibels)
	}
	n.m.Lock()
	n.minDecibels = minDecibels
	n.maxDecibels = maxDecibels
	n.m.Unlock()
	return nil
}

// Write appends time-domain samples, dropping the oldest beyond FFTSize.
func (n *Node) Write(samples []float32) (int, error) {
	n.m.Lock()
	defer n.m.Unlock()
	for _, s := range samples {
		n.input[n.pos] = float64(s)
		n.pos = (n.pos + 1) % n.fftSize
	}
	return len(samples), nil
}

// ByteFrequencyData refreshes dst in place with the current magnitude
// snapshot. At most FrequencyBinCount bytes are written.
func (n *Node) ByteFrequencyData(dst []byte) {
	n.m.Lock()
	defer n.m.Unlock()

	n.analyse()
	scale := 255 / (n.maxDecibels - n.minDecibels)
	for k := 0; k < len(dst) && k < len(n.smoothed); k++ {
		db := 20 * math.Log10(n.smoothed[k])
		v := math.Floor(scale * (db - n.minDecibels))
		switch {
		case math.IsNaN(v) || v < 0:
			v = 0
		case v > 255:
			v = 255
		}
		dst[k] = byte(v)
	}
}

// FloatFrequencyData refreshes dst with the current snapshot in decibels.
func (n *Node) FloatFrequencyData(dst []float64) {
	n.m.Lock()
	defer n.m.Unlock()

	n.analyse()
	for k := 0; k < len(dst) && k < len(n.smoothed); k++ {
		dst[k] = 20 * math.Log10(n.smoothed[k])
	}
}

func (n *Node) analyse() {
	for i := range n.scratch {
		n.scratch[i] = n.input[(n.pos+i)%n.fftSize]
	}
	floats.Mul(n.scratch, n.window)
	spectrum := fft.FFTReal(n.scratch)

	size := float64(n.fftSize)
	for k := range n.smoothed {
		mag := cmplx.Abs(spectrum[k]) / size
		v := n.smoothing*n.smoothed[k] + (1-n.smoothing)*mag
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = 0
		}
		n.smoothed[k] = v
	}
}

// blackman returns the periodic Blackman window with alpha 0.16.
func blackman(size int) []float64 {
	const alpha = 0.16
	a0 := (1 - alpha) / 2
	a1 := 0.5
	a2 := alpha / 2
	w := make([]float64, size)
	for i := range w {
		x := float64(i) / float64(size)
		w[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return w
}
