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

package audio

import (
	"errors"
	"sync"
)

var (
	ErrSourceStarted    = errors.New("audio: source was already started")
	ErrSourceNotStarted = errors.New("audio: source was not started")
)

// NewBufferSource creates a one-shot source. Set its buffer, connect it to the
// destination and start it to hear it. A source can be started only once.
//
// All the functions of a BufferSource are concurrent-safe.
func (c *Context) NewBufferSource() *BufferSource {
	return &BufferSource{}
}

type BufferSource struct {
	m       sync.Mutex
	buffer  *Buffer
	dest    *Mux
	loop    bool
	pos     int
	started bool
	stopped bool
	ended   bool
	onEnded func()
}

func (s *BufferSource) SetBuffer(b *Buffer) {
	s.m.Lock()
	s.buffer = b
	s.m.Unlock()
}

func (s *BufferSource) Buffer() *Buffer {
	s.m.Lock()
	defer s.m.Unlock()
	return s.buffer
}

// SetLoop changes looping immediately, also while the source is playing.
func (s *BufferSource) SetLoop(loop bool) {
	s.m.Lock()
	s.loop = loop
	s.m.Unlock()
}

func (s *BufferSource) Loop() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.loop
}

// OnEnded registers f to be called once when a non-looping source runs out of data.
func (s *BufferSource) OnEnded(f func()) {
	s.m.Lock()
	s.onEnded = f
	s.m.Unlock()
}

func (s *BufferSource) Connect(dest *Mux) {
	s.m.Lock()
	old := s.dest
	s.dest = dest
	s.m.Unlock()

	if old != nil && old != dest {
		old.removeSource(s)
	}
	dest.addSource(s)
}

func (s *BufferSource) Disconnect() {
	s.m.Lock()
	dest := s.dest
	s.dest = nil
	s.m.Unlock()

	if dest != nil {
		dest.removeSource(s)
	}
}

func (s *BufferSource) Start() error {
	s.m.Lock()
	defer s.m.Unlock()
	if s.started {
		return ErrSourceStarted
	}
	s.started = true
	s.pos = 0
	return nil
}

func (s *BufferSource) Stop() error {
	s.m.Lock()
	defer s.m.Unlock()
	if !s.started {
		return ErrSourceNotStarted
	}
	s.stopped = true
	return nil
}

// IsPlaying reports whether the source was started and has neither been stopped nor run out of data.
func (s *BufferSource) IsPlaying() bool {
	s.m.Lock()
	defer s.m.Unlock()
	return s.started && !s.stopped && !s.ended
}

// Position is the index of the next frame to be played.
func (s *BufferSource) Position() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.pos
}

func (s *BufferSource) readBufferAndAdd(buf []float32, channelCount int) {
	s.m.Lock()
	if !s.started || s.stopped || s.ended || s.buffer == nil {
		s.m.Unlock()
		return
	}

	data := s.buffer.ChannelData(0)
	frames := len(buf) / channelCount
	for f := 0; f < frames; f++ {
		if s.pos >= len(data) {
			if !s.loop {
				s.ended = true
				break
			}
			s.pos = 0
		}
		v := data[s.pos]
		for ch := 0; ch < channelCount; ch++ {
			buf[f*channelCount+ch] += v
		}
		s.pos++
	}
	if s.pos >= len(data) && !s.loop {
		s.ended = true
	}

	var onEnded func()
	if s.ended {
		onEnded = s.onEnded
		s.onEnded = nil
	}
	s.m.Unlock()

	if onEnded != nil {
		onEnded()
	}
}
