// Package player plays the inverted-phase cancellation signal. It exposes a
// single play/stop control whose action depends on the current state.
package player

import (
	"sync"

	"github.com/Lundis/noise-decrease/audio"
	"go.uber.org/zap"
)

const (
	PlayLabel = "Play to cancel"
	StopLabel = "Stop"
)

type State int

const (
	Idle State = iota
	Playing
)

func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Output creates sources and the destination they are connected to; *audio.Context is one.
type Output interface {
	NewBufferSource() *audio.BufferSource
	Destination() *audio.Mux
}

// Player is the Idle/Playing state machine around one materialized buffer.
// At most one source is active at a time.
//
// All the functions of a Player are concurrent-safe.
type Player struct {
	out    Output
	buffer *audio.Buffer
	logger *zap.Logger

	m      sync.Mutex
	state  State
	source *audio.BufferSource
	loop   bool
}

func New(out Output, buffer *audio.Buffer, logger *zap.Logger) *Player {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Player{
		out:    out,
		buffer: buffer,
		logger: logger,
	}
}

// Press performs the control's current action: start when idle, stop when
// playing. It returns the new state.
func (p *Player) Press() State {
	p.m.Lock()
	defer p.m.Unlock()

	if p.state == Idle {
		p.start()
	} else {
		p.stop()
	}
	return p.state
}

func (p *Player) start() {
	src := p.out.NewBufferSource()
	src.SetBuffer(p.buffer)
	src.Connect(p.out.Destination())
	src.SetLoop(p.loop)
	if err := src.Start(); err != nil {
		// fresh sources always start
		p.logger.Error("Failed to start source", zap.Error(err))
	}
	p.source = src
	p.state = Playing
	p.logger.Debug("Playback started", zap.Bool("loop", p.loop), zap.Int("length", p.buffer.Length()))
}

func (p *Player) stop() {
	if p.source != nil {
		_ = p.source.Stop()
		p.source.Disconnect()
		p.source = nil
	}
	p.state = Idle
	p.logger.Debug("Playback stopped")
}

// SetLoop stores the loop toggle. While playing, the active source follows it immediately;
// otherwise it is read by the next start.
func (p *Player) SetLoop(loop bool) {
	p.m.Lock()
	defer p.m.Unlock()
	p.loop = loop
	if p.state == Playing && p.source != nil {
		p.source.SetLoop(loop)
	}
}

func (p *Player) Loop() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.loop
}

func (p *Player) State() State {
	p.m.Lock()
	defer p.m.Unlock()
	return p.state
}

// Label is the text of the control: what pressing it would do.
func (p *Player) Label() string {
	if p.State() == Playing {
		return StopLabel
	}
	return PlayLabel
}

// Source is the active source, nil when idle.
func (p *Player) Source() *audio.BufferSource {
	p.m.Lock()
	defer p.m.Unlock()
	return p.source
}

// Close stops playback if needed.
func (p *Player) Close() {
	p.m.Lock()
	defer p.m.Unlock()
	if p.state == Playing {
		p.stop()
	}
}
