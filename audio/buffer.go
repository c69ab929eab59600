package audio

import (
	"fmt"
	"time"
)

// Buffer is planar float32 sample storage at a fixed sample rate.
type Buffer struct {
	sampleRate int
	channels   [][]float32
}

// NewBuffer creates a silent buffer with the given shape.
func (c *Context) NewBuffer(numberOfChannels, length, sampleRate int) (*Buffer, error) {
	return NewBuffer(numberOfChannels, length, sampleRate)
}

func NewBuffer(numberOfChannels, length, sampleRate int) (*Buffer, error) {
	if numberOfChannels < 1 {
		return nil, fmt.Errorf("audio: buffer needs at least one channel, got %d", numberOfChannels)
	}
	if length < 1 {
		return nil, fmt.Errorf("audio: buffer length must be positive, got %d", length)
	}
	if sampleRate < 1 {
		return nil, fmt.Errorf("audio: invalid buffer sample rate %d", sampleRate)
	}
	b := &Buffer{
		sampleRate: sampleRate,
		channels:   make([][]float32, numberOfChannels),
	}
	for i := range b.channels {
		b.channels[i] = make([]float32, length)
	}
	return b, nil
}

func (b *Buffer) SampleRate() int {
	return b.sampleRate
}

func (b *Buffer) NumberOfChannels() int {
	return len(b.channels)
}

// Length is the number of sample frames per channel.
func (b *Buffer) Length() int {
	return len(b.channels[0])
}

func (b *Buffer) Duration() time.Duration {
	return time.Duration(b.Length()) * time.Second / time.Duration(b.sampleRate)
}

// ChannelData returns the live sample storage of channel ch; writes are heard
// by every source playing the buffer.
func (b *Buffer) ChannelData(ch int) []float32 {
	return b.channels[ch]
}

func (b *Buffer) String() string {
	return fmt.Sprintf("Buffer{length: %d, sampleRate: %d, channels: %d, duration: %s}",
		b.Length(), b.sampleRate, len(b.channels), b.Duration())
}
