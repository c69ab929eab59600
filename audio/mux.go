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

import "sync"

// Mux is the destination of a Context. It mixes every connected source.
type Mux struct {
	channelCount int

	sources map[*BufferSource]struct{}
	m       sync.Mutex
}

func newMux(channelCount int) *Mux {
	return &Mux{
		channelCount: channelCount,
		sources:      map[*BufferSource]struct{}{},
	}
}

func (m *Mux) addSource(s *BufferSource) {
	m.m.Lock()
	defer m.m.Unlock()
	m.sources[s] = struct{}{}
}

func (m *Mux) removeSource(s *BufferSource) {
	m.m.Lock()
	defer m.m.Unlock()
	delete(m.sources, s)
}

func (m *Mux) disconnectAll() {
	m.m.Lock()
	sources := make([]*BufferSource, 0, len(m.sources))
	for s := range m.sources {
		sources = append(sources, s)
	}
	m.m.Unlock()

	for _, s := range sources {
		s.Disconnect()
	}
}

// Connected reports how many sources are currently connected.
func (m *Mux) Connected() int {
	m.m.Lock()
	defer m.m.Unlock()
	return len(m.sources)
}

// ReadFloat32s fills buf with the mixed, interleaved data of the connected sources.
func (m *Mux) ReadFloat32s(buf []float32) {
	m.m.Lock()
	sources := make([]*BufferSource, 0, len(m.sources))
	for s := range m.sources {
		sources = append(sources, s)
	}
	m.m.Unlock()

	for i := range buf {
		buf[i] = 0
	}
	for _, s := range sources {
		s.readBufferAndAdd(buf, m.channelCount)
	}
}
