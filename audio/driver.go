// Copyright 2022 The Oto Authors
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

package audio

import (
	"errors"
	"sync"
	"time"
)

var errDeviceNotFound = errors.New("audio: device not found")

// ReadFunc fills buf with interleaved float32 samples.
type ReadFunc func(buf []float32)

// Driver moves mixed samples from a Context to an output device.
type Driver interface {
	// Start begins pulling from read. The returned channel is closed when the device is ready.
	Start(read ReadFunc, sampleRate, channelCount int, bufferSize time.Duration) (chan struct{}, error)
	Suspend() error
	Resume() error
	Close() error
}

// NullDriver consumes samples at real-time speed without playing them.
// It stands in when no output device exists.
type NullDriver struct {
	read         ReadFunc
	sampleRate   int
	channelCount int

	m         sync.Mutex
	suspended bool
	done      chan struct{}
	closeOnce sync.Once
}

func NewNullDriver() *NullDriver {
	return &NullDriver{done: make(chan struct{})}
}

func (d *NullDriver) Start(read ReadFunc, sampleRate, channelCount int, _ time.Duration) (chan struct{}, error) {
	if sampleRate <= 0 || channelCount <= 0 {
		return nil, errDeviceNotFound
	}
	d.read = read
	d.sampleRate = sampleRate
	d.channelCount = channelCount
	ready := make(chan struct{})
	close(ready)
	go d.loop()
	return ready, nil
}

func (d *NullDriver) loop() {
	var buf32 [4096]float32
	sleep := time.Duration(float64(time.Second) * float64(len(buf32)) / float64(d.channelCount) / float64(d.sampleRate))
	for {
		select {
		case <-d.done:
			return
		default:
		}

		d.m.Lock()
		suspended := d.suspended
		d.m.Unlock()
		if suspended {
			time.Sleep(10 * time.Millisecond)
			continue
		}

		d.read(buf32[:])
		time.Sleep(sleep)
	}
}

func (d *NullDriver) Suspend() error {
	d.m.Lock()
	d.suspended = true
	d.m.Unlock()
	return nil
}

func (d *NullDriver) Resume() error {
	d.m.Lock()
	d.suspended = false
	d.m.Unlock()
	return nil
}

func (d *NullDriver) Close() error {
	d.closeOnce.Do(func() { close(d.done) })
	return nil
}
