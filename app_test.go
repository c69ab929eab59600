package noisedecrease_test

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
	"time"

	noisedecrease "github.com/Lundis/noise-decrease"
	"github.com/Lundis/noise-decrease/audio"
	"github.com/Lundis/noise-decrease/backdrop"
	"github.com/Lundis/noise-decrease/chart"
	"github.com/Lundis/noise-decrease/mic"
	"github.com/Lundis/noise-decrease/player"
	"github.com/Lundis/noise-decrease/waveform"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type manualDriver struct {
	m         sync.Mutex
	suspended bool
	closed    bool
}

func (d *manualDriver) Start(audio.ReadFunc, int, int, time.Duration) (chan struct{}, error) {
	ready := make(chan struct{})
	close(ready)
	return ready, nil
}

func (d *manualDriver) Suspend() error {
	d.m.Lock()
	defer d.m.Unlock()
	d.suspended = true
	return nil
}

func (d *manualDriver) Resume() error {
	d.m.Lock()
	defer d.m.Unlock()
	d.suspended = false
	return nil
}

func (d *manualDriver) Close() error {
	d.m.Lock()
	defer d.m.Unlock()
	d.closed = true
	return nil
}

// toneStream yields a loud sine until closed.
type toneStream struct {
	phase  float64
	closed chan struct{}
	once   sync.Once
}

func newToneStream() *toneStream {
	return &toneStream{closed: make(chan struct{})}
}

func (s *toneStream) Read(p []float32) (int, error) {
	select {
	case <-s.closed:
		return 0, errors.New("stream closed")
	case <-time.After(time.Millisecond):
	}
	for i := range p {
		p[i] = float32(math.Sin(s.phase))
		s.phase += 2 * math.Pi / 16
	}
	return len(p), nil
}

func (s *toneStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

// countingOpener hands out tone streams and counts how many were closed.
type countingOpener struct {
	m       sync.Mutex
	streams []*toneStream
}

func (o *countingOpener) Open(int, int) (mic.Stream, error) {
	o.m.Lock()
	defer o.m.Unlock()
	s := newToneStream()
	o.streams = append(o.streams, s)
	return s, nil
}

func (o *countingOpener) counts() (opened, closed int) {
	o.m.Lock()
	defer o.m.Unlock()
	for _, s := range o.streams {
		select {
		case <-s.closed:
			closed++
		default:
		}
	}
	return len(o.streams), closed
}

type alerts struct {
	m        sync.Mutex
	messages []string
}

func (a *alerts) Alert(message string) {
	a.m.Lock()
	defer a.m.Unlock()
	a.messages = append(a.messages, message)
}

func (a *alerts) count() int {
	a.m.Lock()
	defer a.m.Unlock()
	return len(a.messages)
}

func newApp(t *testing.T, options *noisedecrease.Options) (*noisedecrease.App, *manualDriver) {
	t.Helper()
	d := &manualDriver{}
	if options.Audio == nil {
		options.Audio = &audio.NewContextOptions{SampleRate: 48000, ChannelCount: 1}
	}
	options.Audio.Driver = d
	a, err := noisedecrease.New(options)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a, d
}

func TestNewMaterializesWaveform(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	a, _ := newApp(t, &noisedecrease.Options{Logger: zap.New(core)})

	b := a.Buffer()
	if b.Length() != waveform.Length || b.NumberOfChannels() != 1 || b.SampleRate() != 48000 {
		t.Fatalf("unexpected buffer %s", b)
	}
	entries := logs.FilterMessage("Waveform buffer created").All()
	if len(entries) != 1 {
		t.Fatalf("expected one buffer log, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["length"]; got != int64(waveform.Length) {
		t.Fatalf("logged length %v", got)
	}
}

func TestMicrophoneDenied(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	denied := errors.New("permission denied")
	var allow bool
	opener := mic.OpenerFunc(func(int, int) (mic.Stream, error) {
		if !allow {
			return nil, denied
		}
		return newToneStream(), nil
	})
	al := &alerts{}
	noise := chart.NewModel(chart.LiveNoise)
	a, _ := newApp(t, &noisedecrease.Options{
		Microphone: opener,
		Alerter:    al,
		NoiseChart: noise,
		FrameRate:  1000,
		Logger:     zap.New(core),
	})

	err := a.SetupMicrophone(context.Background())
	if !errors.Is(err, mic.ErrMicrophoneAccess) || !errors.Is(err, denied) {
		t.Fatalf("expected microphone access error wrapping the cause, got %v", err)
	}
	if al.count() != 1 || al.messages[0] != noisedecrease.MicrophoneAlert {
		t.Fatalf("expected exactly one alert, got %q", al.messages)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected exactly one error log, got %d", logs.Len())
	}
	if a.Sampler() != nil {
		t.Fatalf("sampling started after a failed setup")
	}
	time.Sleep(20 * time.Millisecond)
	if noise.Updates() != 0 {
		t.Fatalf("noise chart updated without a microphone")
	}

	allow = true
	if err := a.SetupMicrophone(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if al.count() != 1 {
		t.Fatalf("successful retry alerted")
	}
	if a.Sampler() == nil || !a.Sampler().Running() {
		t.Fatalf("sampler not running after retry")
	}
}

func TestMicrophoneFeedsNoiseChart(t *testing.T) {
	noise := chart.NewModel(chart.LiveNoise)
	a, _ := newApp(t, &noisedecrease.Options{
		Microphone: mic.OpenerFunc(func(int, int) (mic.Stream, error) { return newToneStream(), nil }),
		MicFrames:  64,
		NoiseChart: noise,
		FrameRate:  1000,
	})
	if err := a.SetupMicrophone(context.Background()); err != nil {
		t.Fatalf("SetupMicrophone: %v", err)
	}
	first := a.Sampler()
	if err := a.SetupMicrophone(context.Background()); err != nil || a.Sampler() != first {
		t.Fatalf("second setup should keep the running sampler: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	var values []float64
	for time.Now().Before(deadline) {
		_, values = noise.Data()
		if len(values) > 0 && values[len(values)-1] > 0 {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}
	if len(values) == 0 || values[len(values)-1] <= 0 {
		t.Fatalf("noise chart never showed a level, values %v", values)
	}
	for _, v := range values {
		if v < 0 || v > 100 {
			t.Fatalf("level %v out of range", v)
		}
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if a.Sampler().Running() {
		t.Fatalf("sampler still running after Close")
	}
	if err := a.SetupMicrophone(context.Background()); !errors.Is(err, noisedecrease.ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestPressPlayTogglesBackdrop(t *testing.T) {
	a, _ := newApp(t, &noisedecrease.Options{})

	state, img := a.PressPlay()
	if state != player.Playing || img.Path != backdrop.DefaultToggled {
		t.Fatalf("first press: %s %q", state, img.Path)
	}
	if a.Audio().Destination().Connected() != 1 {
		t.Fatalf("no source connected while playing")
	}

	state, img = a.PressPlay()
	if state != player.Idle || img.Path != backdrop.DefaultOriginal {
		t.Fatalf("second press: %s %q", state, img.Path)
	}
	if a.Audio().Destination().Connected() != 0 {
		t.Fatalf("source still connected after stop")
	}
}

func TestSetLoopReachesActiveSource(t *testing.T) {
	a, _ := newApp(t, &noisedecrease.Options{})
	a.PressPlay()
	a.SetLoop(true)
	if !a.Player().Source().Loop() {
		t.Fatalf("active source did not follow the loop toggle")
	}
}

func TestInteractResumesSuspendedContext(t *testing.T) {
	a, d := newApp(t, &noisedecrease.Options{
		Audio: &audio.NewContextOptions{SampleRate: 44100, ChannelCount: 2, Suspended: true},
	})
	if a.Audio().State() != audio.StateSuspended {
		t.Fatalf("context should start suspended, is %s", a.Audio().State())
	}
	a.Interact()
	if a.Audio().State() != audio.StateRunning || d.suspended {
		t.Fatalf("context not resumed: %s", a.Audio().State())
	}
	a.Interact()
	if a.Audio().State() != audio.StateRunning {
		t.Fatalf("second interaction changed the state")
	}
}

func TestPlotSignal(t *testing.T) {
	a, _ := newApp(t, &noisedecrease.Options{})
	digital := chart.NewModel(chart.DigitalSignal)
	analog := chart.NewModel(chart.AnalogSignal)
	a.PlotSignal(digital, analog, nil)

	for _, m := range []*chart.Model{digital, analog} {
		labels, values := m.Data()
		if len(labels) != waveform.Length || len(values) != waveform.Length {
			t.Fatalf("%s: %d labels, %d values", m.Spec().Title, len(labels), len(values))
		}
		if labels[639] != "639" || values[5] != 1 {
			t.Fatalf("%s: unexpected data", m.Spec().Title)
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	a, d := newApp(t, &noisedecrease.Options{})
	a.PressPlay()
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !d.closed || a.Audio().State() != audio.StateClosed {
		t.Fatalf("audio context not closed")
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestSetupAfterCancelReleasesPreviousStream(t *testing.T) {
	opener := &countingOpener{}
	a, _ := newApp(t, &noisedecrease.Options{
		Microphone: opener,
		MicFrames:  64,
		FrameRate:  1000,
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := a.SetupMicrophone(ctx); err != nil {
		t.Fatalf("SetupMicrophone: %v", err)
	}
	first := a.Sampler()
	cancel()
	deadline := time.Now().Add(2 * time.Second)
	for first.Running() {
		if time.Now().After(deadline) {
			t.Fatalf("sampler kept running after its context was cancelled")
		}
		time.Sleep(time.Millisecond)
	}

	if err := a.SetupMicrophone(context.Background()); err != nil {
		t.Fatalf("second SetupMicrophone: %v", err)
	}
	if opened, closed := opener.counts(); opened != 2 || closed != 1 {
		t.Fatalf("after second setup: opened=%d closed=%d, want 2 and 1", opened, closed)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if opened, closed := opener.counts(); opened != closed {
		t.Fatalf("%d of %d microphone streams left open", opened-closed, opened)
	}
}
