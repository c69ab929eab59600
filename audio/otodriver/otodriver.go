// Package otodriver plays a Context through the system audio device using Oto.
package otodriver

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/Lundis/noise-decrease/audio"
	"github.com/ebitengine/oto/v3"
)

// Driver implements audio.Driver. Only one Driver can be started per process,
// since Oto supports a single context.
type Driver struct {
	mutex     sync.Mutex
	ctx       *oto.Context
	player    *oto.Player
	read      audio.ReadFunc
	sampleBuf []float32
}

func New() *Driver {
	return &Driver{}
}

func (d *Driver) Start(read audio.ReadFunc, sampleRate, channelCount int, bufferSize time.Duration) (chan struct{}, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channelCount,
		Format:       oto.FormatFloat32LE,
		BufferSize:   bufferSize,
	}
	ctx, otoReady, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("otodriver: %w", err)
	}

	d.mutex.Lock()
	d.ctx = ctx
	d.read = read
	d.sampleBuf = make([]float32, 4096)
	d.mutex.Unlock()

	ready := make(chan struct{})
	go func() {
		defer close(ready)
		<-otoReady

		d.mutex.Lock()
		defer d.mutex.Unlock()
		d.player = ctx.NewPlayer(d)
		d.player.Play()
	}()
	return ready, nil
}

// Read is called by Oto's player and hands out the mixed samples as little-endian float32 bytes.
func (d *Driver) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	if len(d.sampleBuf) < numSamples {
		d.sampleBuf = make([]float32, numSamples)
	}
	samples := d.sampleBuf[:numSamples]
	d.read(samples)

	for i, s := range samples {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(s))
	}
	return numSamples * 4, nil
}

func (d *Driver) Suspend() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Suspend()
}

func (d *Driver) Resume() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Resume()
}

func (d *Driver) Close() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	return err
}

// Err reports an asynchronous device error, if any.
func (d *Driver) Err() error {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	if d.ctx == nil {
		return nil
	}
	return d.ctx.Err()
}
