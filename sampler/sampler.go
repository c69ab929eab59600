// Package sampler records the microphone noise level once every few display
// frames into a bounded series that feeds a live chart.
package sampler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultCapacity   = 300
	DefaultDecimation = 5
	DefaultFrameRate  = 60
)

var ErrRunning = errors.New("sampler: already running")

// Source refreshes a byte magnitude snapshot in place; *analyser.Node is one.
type Source interface {
	FrequencyBinCount() int
	ByteFrequencyData(dst []byte)
}

// Chart redraws from the full label and value series, without animation.
type Chart interface {
	Update(labels []string, values []float64)
}

type Options struct {
	// Capacity bounds the series. DefaultCapacity when 0.
	Capacity int
	// Decimation records one sample every Decimation frames. DefaultDecimation when 0.
	Decimation int
	// FrameRate is the frame clock of Start in Hz. DefaultFrameRate when 0.
	FrameRate float64
	// Now labels the recorded samples. time.Now when nil.
	Now    func() time.Time
	Logger *zap.Logger
}

type Sampler struct {
	source        Source
	chart         Chart
	logger        *zap.Logger
	now           func() time.Time
	decimation    int
	frameInterval time.Duration

	m        sync.Mutex
	snapshot []byte
	scratch  []float64
	frames   int
	series   *Series

	runM   sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(source Source, chart Chart, options *Options) *Sampler {
	if options == nil {
		options = &Options{}
	}
	s := &Sampler{
		source:     source,
		chart:      chart,
		logger:     options.Logger,
		now:        options.Now,
		decimation: options.Decimation,
		series:     NewSeries(options.Capacity),
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.decimation < 1 {
		s.decimation = DefaultDecimation
	}
	frameRate := options.FrameRate
	if frameRate <= 0 {
		frameRate = DefaultFrameRate
	}
	s.frameInterval = time.Duration(float64(time.Second) / frameRate)

	bins := source.FrequencyBinCount()
	s.snapshot = make([]byte, bins)
	s.scratch = make([]float64, bins)
	return s
}

// Tick runs one frame: refresh the snapshot, compute the level and, on every
// Decimation-th frame, record it and redraw the chart.
func (s *Sampler) Tick() (Sample, bool) {
	s.m.Lock()
	s.source.ByteFrequencyData(s.snapshot)
	lvl, err := level(s.snapshot, s.scratch)
	if err != nil {
		s.m.Unlock()
		s.logger.Debug("Skipping frame", zap.Error(err))
		return Sample{}, false
	}

	s.frames++
	if s.frames%s.decimation != 0 {
		s.m.Unlock()
		return Sample{}, false
	}

	sample := Sample{Label: Label(s.now()), Level: lvl}
	s.series.Append(sample)
	labels, values := s.series.Snapshot()
	s.m.Unlock()

	if s.chart != nil {
		s.chart.Update(labels, values)
	}
	return sample, true
}

// Frames is the number of frames counted so far.
func (s *Sampler) Frames() int {
	s.m.Lock()
	defer s.m.Unlock()
	return s.frames
}

func (s *Sampler) Series() *Series {
	return s.series
}

// Start runs Tick on the frame clock until Stop is called or ctx is done.
func (s *Sampler) Start(ctx context.Context) error {
	s.runM.Lock()
	defer s.runM.Unlock()
	if s.done != nil {
		select {
		case <-s.done:
		default:
			return ErrRunning
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done
	go s.run(ctx, done)

	s.logger.Info("Noise sampler started",
		zap.Duration("frameInterval", s.frameInterval),
		zap.Int("decimation", s.decimation),
		zap.Int("capacity", s.series.Capacity()))
	return nil
}

func (s *Sampler) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick()
		}
	}
}

func (s *Sampler) Running() bool {
	s.runM.Lock()
	defer s.runM.Unlock()
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Stop cancels the frame loop and waits for it to exit.
func (s *Sampler) Stop() {
	s.runM.Lock()
	cancel, done := s.cancel, s.done
	s.runM.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("Noise sampler stopped", zap.Int("frames", s.Frames()), zap.Int("samples", s.series.Len()))
}
