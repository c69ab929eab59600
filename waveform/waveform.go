// Package waveform holds the fixed digital signal played by the cancellation
// demo: one 20-sample sine cycle, repeated 32 times.
package waveform

import (
	"fmt"

	"github.com/Lundis/noise-decrease/audio"
)

const (
	PeriodLength = 20
	Repetitions  = 32
	Length       = PeriodLength * Repetitions
)

// period is sin(k * 18°) for k = 0..19, rounded to five decimals.
var period = [PeriodLength]float64{
	0.0, 0.30902, 0.58779, 0.80902, 0.95106, 1.0, 0.95106, 0.80902, 0.58779,
	0.30902, 0.0, -0.30902, -0.58779, -0.80902, -0.95106, -1.0, -0.95106,
	-0.80902, -0.58779, -0.30902,
}

var signal = expand()

func expand() [Length]float64 {
	var s [Length]float64
	for r := 0; r < Repetitions; r++ {
		copy(s[r*PeriodLength:], period[:])
	}
	return s
}

// Period returns a copy of one cycle.
func Period() []float64 {
	return append([]float64(nil), period[:]...)
}

// Signal returns a copy of the full digital signal.
func Signal() []float64 {
	return append([]float64(nil), signal[:]...)
}

// At returns sample i of the digital signal.
func At(i int) float64 {
	return signal[i]
}

// BufferFactory creates sample buffers; *audio.Context is one.
type BufferFactory interface {
	SampleRate() int
	NewBuffer(numberOfChannels, length, sampleRate int) (*audio.Buffer, error)
}

// NewBuffer materializes the signal into a mono buffer at the factory's
// sample rate, index for index.
func NewBuffer(f BufferFactory) (*audio.Buffer, error) {
	b, err := f.NewBuffer(1, Length, f.SampleRate())
	if err != nil {
		return nil, fmt.Errorf("waveform: %w", err)
	}
	data := b.ChannelData(0)
	for i, v := range signal {
		data[i] = float32(v)
	}
	return b, nil
}
