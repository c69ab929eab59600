// Package noisedecrease shows the live microphone noise level on a rolling
// chart and plays a fixed inverted-phase waveform as a noise-cancellation
// demonstration.
//
// An App is the one process-wide object. Front ends forward their controls to
// it: SetupMicrophone, PressPlay, SetLoop and Interact.
package noisedecrease

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Lundis/noise-decrease/analyser"
	"github.com/Lundis/noise-decrease/audio"
	"github.com/Lundis/noise-decrease/backdrop"
	"github.com/Lundis/noise-decrease/chart"
	"github.com/Lundis/noise-decrease/mic"
	"github.com/Lundis/noise-decrease/player"
	"github.com/Lundis/noise-decrease/sampler"
	"github.com/Lundis/noise-decrease/waveform"
	"go.uber.org/zap"
)

const (
	// FFTSize gives 128 frequency bins per snapshot.
	FFTSize = 256

	DefaultMicFrames = 1024

	MicrophoneAlert = "Microphone access failed. Please check permissions."
)

var ErrClosed = errors.New("noisedecrease: app is closed")

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(message string)
}

type AlertFunc func(message string)

func (f AlertFunc) Alert(message string) {
	f(message)
}

type Options struct {
	// Audio configures the output context. Defaults with a null driver when nil.
	Audio *audio.NewContextOptions

	// Microphone opens the capture stream. Setup always fails when nil.
	Microphone mic.Opener
	// MicFrames is the number of samples per capture read. DefaultMicFrames when 0.
	MicFrames int

	Alerter    Alerter
	NoiseChart chart.Chart
	Backdrop   *backdrop.Backdrop

	// FrameRate of the noise sampler in Hz. sampler.DefaultFrameRate when 0.
	FrameRate float64
	Now       func() time.Time
	Logger    *zap.Logger
}

type App struct {
	logger     *zap.Logger
	audio      *audio.Context
	buffer     *audio.Buffer
	player     *player.Player
	backdrop   *backdrop.Backdrop
	microphone mic.Opener
	micFrames  int
	alerter    Alerter
	noiseChart chart.Chart
	frameRate  float64
	now        func() time.Time

	m        sync.Mutex
	analyser *analyser.Node
	capture  *mic.Capture
	sampler  *sampler.Sampler
	closed   bool
}

// New creates the audio context, waits until it is ready and materializes
// the waveform buffer.
func New(options *Options) (*App, error) {
	if options == nil {
		options = &Options{}
	}
	a := &App{
		logger:     options.Logger,
		backdrop:   options.Backdrop,
		microphone: options.Microphone,
		micFrames:  options.MicFrames,
		alerter:    options.Alerter,
		noiseChart: options.NoiseChart,
		frameRate:  options.FrameRate,
		now:        options.Now,
	}
	if a.logger == nil {
		a.logger = zap.NewNop()
	}
	if a.backdrop == nil {
		a.backdrop = backdrop.Default()
	}
	if a.micFrames <= 0 {
		a.micFrames = DefaultMicFrames
	}
	if a.alerter == nil {
		a.alerter = AlertFunc(func(string) {})
	}

	audioOptions := options.Audio
	if audioOptions == nil {
		audioOptions = &audio.NewContextOptions{}
	}
	c, ready, err := audio.InitContext(audioOptions)
	if err != nil {
		return nil, fmt.Errorf("noisedecrease: creating audio context: %w", err)
	}
	<-ready
	a.audio = c

	b, err := waveform.NewBuffer(c)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("noisedecrease: creating waveform buffer: %w", err)
	}
	a.buffer = b
	a.logger.Info("Waveform buffer created",
		zap.Int("length", b.Length()),
		zap.Int("sampleRate", b.SampleRate()),
		zap.Int("channels", b.NumberOfChannels()))

	a.player = player.New(c, b, a.logger.Named("player"))
	return a, nil
}

// SetupMicrophone requests audio-only microphone input and starts the noise
// sampler. On failure the user is alerted once and the returned error matches
// mic.ErrMicrophoneAccess; calling it again retries. It is a no-op while the
// sampler is already running.
func (a *App) SetupMicrophone(ctx context.Context) error {
	a.m.Lock()
	defer a.m.Unlock()
	if a.closed {
		return ErrClosed
	}
	if a.sampler != nil && a.sampler.Running() {
		a.logger.Debug("Microphone already set up")
		return nil
	}

	a.stopCapture()

	stream, err := mic.Request(a.microphone, a.audio.SampleRate(), a.micFrames)
	if err != nil {
		a.logger.Error("Error accessing microphone", zap.Error(err))
		a.alerter.Alert(MicrophoneAlert)
		return fmt.Errorf("noisedecrease: setting up microphone: %w", err)
	}

	node, err := analyser.New(FFTSize)
	if err != nil {
		_ = stream.Close()
		return fmt.Errorf("noisedecrease: creating analyser: %w", err)
	}

	s := sampler.New(node, a.noiseChart, &sampler.Options{
		FrameRate: a.frameRate,
		Now:       a.now,
		Logger:    a.logger.Named("sampler"),
	})
	capture := mic.StartCapture(stream, node, a.micFrames)
	if err := s.Start(ctx); err != nil {
		_ = capture.Stop()
		return fmt.Errorf("noisedecrease: starting sampler: %w", err)
	}
	go a.watchCapture(capture)

	a.analyser = node
	a.capture = capture
	a.sampler = s
	return nil
}

// stopCapture releases the stream of a previous setup whose sampler has stopped.
func (a *App) stopCapture() {
	if a.sampler != nil {
		a.sampler.Stop()
		a.sampler = nil
	}
	if a.capture == nil {
		return
	}
	if err := a.capture.Stop(); err != nil {
		a.logger.Warn("Error closing previous microphone stream", zap.Error(err))
	}
	a.capture = nil
	a.analyser = nil
}

func (a *App) watchCapture(c *mic.Capture) {
	<-c.Done()
	if err := c.Err(); err != nil {
		a.logger.Error("Microphone capture ended", zap.Error(err))
	}
}

// PressPlay performs the play control's action and flips the backdrop. It
// returns the new player state and the image now shown.
func (a *App) PressPlay() (player.State, backdrop.Image) {
	a.m.Lock()
	defer a.m.Unlock()
	if a.closed {
		return player.Idle, a.backdrop.Current()
	}
	state := a.player.Press()
	return state, a.backdrop.Toggle()
}

// SetLoop stores the loop toggle; an active playback follows it immediately.
func (a *App) SetLoop(loop bool) {
	a.m.Lock()
	defer a.m.Unlock()
	a.player.SetLoop(loop)
}

// Interact resumes a suspended audio context. Front ends call it on every
// user interaction.
func (a *App) Interact() {
	a.m.Lock()
	defer a.m.Unlock()
	if a.closed || a.audio.State() != audio.StateSuspended {
		return
	}
	if err := a.audio.Resume(); err != nil {
		a.logger.Error("Failed to resume audio context", zap.Error(err))
		return
	}
	a.logger.Debug("Audio context resumed")
}

// PlotSignal draws the digital signal on every given chart, x labelled by sample index.
func (a *App) PlotSignal(charts ...chart.Chart) {
	labels := chart.IndexLabels(waveform.Length)
	values := waveform.Signal()
	for _, c := range charts {
		if c != nil {
			c.Update(labels, values)
		}
	}
}

func (a *App) Player() *player.Player {
	return a.player
}

func (a *App) Backdrop() *backdrop.Backdrop {
	return a.backdrop
}

func (a *App) Audio() *audio.Context {
	return a.audio
}

func (a *App) Buffer() *audio.Buffer {
	return a.buffer
}

// Sampler is nil until the microphone has been set up.
func (a *App) Sampler() *sampler.Sampler {
	a.m.Lock()
	defer a.m.Unlock()
	return a.sampler
}

// Close stops sampling and playback and closes the audio context.
func (a *App) Close() error {
	a.m.Lock()
	defer a.m.Unlock()
	if a.closed {
		return nil
	}
	a.closed = true

	var errs []error
	if a.sampler != nil {
		a.sampler.Stop()
	}
	if a.capture != nil {
		if err := a.capture.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("noisedecrease: closing microphone: %w", err))
		}
	}
	a.player.Close()
	if err := a.audio.Close(); err != nil {
		errs = append(errs, fmt.Errorf("noisedecrease: closing audio context: %w", err))
	}
	return errors.Join(errs...)
}
