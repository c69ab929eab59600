// Copyright 2021 The Oto Authors
// Copyright 2025 Lundis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package audio provides the output side of the demo: a context with a fixed
// sample rate, mono sample buffers and playable buffer sources mixed into a
// single destination that an output driver pulls from.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	DefaultSampleRate   = 48000
	DefaultChannelCount = 2
)

var ErrContextClosed = errors.New("audio: context is closed")

// State is the running state of a Context.
type State int

const (
	StateSuspended State = iota
	StateRunning
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateSuspended:
		return "suspended"
	case StateRunning:
		return "running"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// NewContextOptions represents options for InitContext.
type NewContextOptions struct {
	// SampleRate specifies the number of samples that should be played during one second.
	// Usual numbers are 44100 or 48000. One context has only one sample rate.
	// If 0 is specified, DefaultSampleRate is used.
	SampleRate int

	// ChannelCount is the number of interleaved output channels the driver expects.
	// Mono sources are copied to every channel. If 0 is specified, DefaultChannelCount is used.
	ChannelCount int

	// BufferSize specifies a buffer size in the underlying device.
	//
	// If 0 is specified, the driver's default buffer size is used.
	// Too big buffer size can increase the latency time.
	// On the other hand, too small buffer size can cause glitch noises due to buffer shortage.
	BufferSize time.Duration

	// Driver pulls mixed samples out of the context. A NullDriver is used when nil.
	Driver Driver

	// Suspended creates the context in the suspended state; it has to be resumed
	// before anything is heard.
	Suspended bool
}

// Context holds the output destination and creates buffers and sources for it.
//
// All the functions of a Context are concurrent-safe.
type Context struct {
	sampleRate   int
	channelCount int
	destination  *Mux
	driver       Driver

	m     sync.Mutex
	state State
}

// InitContext creates a new context with given options.
// InitContext returns the context, a channel that is closed when the driver is ready, and an error if it exists.
func InitContext(options *NewContextOptions) (*Context, chan struct{}, error) {
	if options == nil {
		options = &NewContextOptions{}
	}
	sampleRate := options.SampleRate
	if sampleRate == 0 {
		sampleRate = DefaultSampleRate
	}
	if sampleRate < 0 {
		return nil, nil, fmt.Errorf("audio: invalid sample rate %d", sampleRate)
	}
	channelCount := options.ChannelCount
	if channelCount == 0 {
		channelCount = DefaultChannelCount
	}
	if channelCount < 0 {
		return nil, nil, fmt.Errorf("audio: invalid channel count %d", channelCount)
	}
	driver := options.Driver
	if driver == nil {
		driver = NewNullDriver()
	}

	c := &Context{
		sampleRate:   sampleRate,
		channelCount: channelCount,
		destination:  newMux(channelCount),
		driver:       driver,
		state:        StateRunning,
	}
	ready, err := driver.Start(c.destination.ReadFloat32s, sampleRate, channelCount, options.BufferSize)
	if err != nil {
		return nil, nil, fmt.Errorf("audio: starting driver: %w", err)
	}
	if options.Suspended {
		if err := c.Suspend(); err != nil {
			_ = driver.Close()
			return nil, nil, err
		}
	}
	return c, ready, nil
}

func (c *Context) SampleRate() int {
	return c.sampleRate
}

func (c *Context) ChannelCount() int {
	return c.channelCount
}

// Destination is where sources have to be connected to be heard.
func (c *Context) Destination() *Mux {
	return c.destination
}

func (c *Context) State() State {
	c.m.Lock()
	defer c.m.Unlock()
	return c.state
}

// Resume lets the driver pull samples again. Resuming a running context is a no-op.
func (c *Context) Resume() error {
	c.m.Lock()
	defer c.m.Unlock()
	switch c.state {
	case StateClosed:
		return ErrContextClosed
	case StateRunning:
		return nil
	}
	if err := c.driver.Resume(); err != nil {
		return fmt.Errorf("audio: resume: %w", err)
	}
	c.state = StateRunning
	return nil
}

// Suspend halts the driver. Sources keep their position while suspended.
func (c *Context) Suspend() error {
	c.m.Lock()
	defer c.m.Unlock()
	switch c.state {
	case StateClosed:
		return ErrContextClosed
	case StateSuspended:
		return nil
	}
	if err := c.driver.Suspend(); err != nil {
		return fmt.Errorf("audio: suspend: %w", err)
	}
	c.state = StateSuspended
	return nil
}

// Close disconnects every source and releases the driver.
func (c *Context) Close() error {
	c.m.Lock()
	defer c.m.Unlock()
	if c.state == StateClosed {
		return nil
	}
	c.state = StateClosed
	c.destination.disconnectAll()
	return c.driver.Close()
}
