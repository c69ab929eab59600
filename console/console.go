// Package console is the terminal front end. Single keys drive the App:
// m sets up the microphone, p presses play/stop, l toggles looping and q quits.
// The live noise chart is drawn as a one-line sparkline.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	noisedecrease "github.com/Lundis/noise-decrease"
	"github.com/Lundis/noise-decrease/chart"
)

const (
	KeyMicrophone = 'm'
	KeyPlay       = 'p'
	KeyLoop       = 'l'
	KeyQuit       = 'q'
	keyInterrupt  = 0x03

	SparklineWidth = 60
	renderInterval = 100 * time.Millisecond
)

var sparks = []rune("▁▂▃▄▅▆▇█")

type Console struct {
	out    io.Writer
	logger *zap.Logger
	Noise  *chart.Model

	app *noisedecrease.App

	m       sync.Mutex
	loop    bool
	micOn   bool
	message string
}

// New creates the console; hand Noise and the Console itself (as the
// Alerter) to noisedecrease.Options, then Bind the App.
func New(out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		out:    out,
		logger: logger,
		Noise:  chart.NewModel(chart.LiveNoise),
	}
}

func (c *Console) Bind(a *noisedecrease.App) {
	c.app = a
}

// Alert replaces the status message.
func (c *Console) Alert(message string) {
	c.m.Lock()
	defer c.m.Unlock()
	c.message = message
}

// HandleKey performs the command bound to key. It returns false when the
// console should quit.
func (c *Console) HandleKey(ctx context.Context, key byte) bool {
	c.app.Interact()
	switch key {
	case KeyMicrophone:
		if err := c.app.SetupMicrophone(ctx); err != nil {
			c.logger.Debug("Microphone setup failed", zap.Error(err))
			return true
		}
		c.m.Lock()
		c.micOn = true
		c.message = "microphone on"
		c.m.Unlock()
	case KeyPlay:
		state, img := c.app.PressPlay()
		c.m.Lock()
		c.message = fmt.Sprintf("%s, backdrop %s", state, img.Path)
		c.m.Unlock()
	case KeyLoop:
		c.m.Lock()
		c.loop = !c.loop
		loop := c.loop
		c.m.Unlock()
		c.app.SetLoop(loop)
	case KeyQuit, keyInterrupt:
		return false
	}
	return true
}

// Line is the status line: controls, sparkline, latest level and message.
func (c *Console) Line() string {
	c.m.Lock()
	loop, micOn, message := c.loop, c.micOn, c.message
	c.m.Unlock()

	labels, values := c.Noise.Data()
	latest := "--"
	if len(values) > 0 {
		latest = fmt.Sprintf("%5.1f %s", values[len(values)-1], labels[len(labels)-1])
	}
	return fmt.Sprintf("[m] mic:%s  [p] %s  [l] loop:%s  %s %s  %s",
		onOff(micOn), c.app.Player().Label(), onOff(loop),
		Sparkline(values, SparklineWidth, chart.LiveNoise.YMin, chart.LiveNoise.YMax), latest, message)
}

// Render redraws the status line in place.
func (c *Console) Render() error {
	_, err := fmt.Fprintf(c.out, "\r\x1b[2K%s", c.Line())
	return err
}

// Run reads keys from the terminal behind fd and redraws until q is pressed
// or ctx is done. The terminal is restored before returning.
func (c *Console) Run(ctx context.Context, fd int) error {
	keys, err := startKeys(fd)
	if err != nil {
		return fmt.Errorf("console: %w", err)
	}
	defer keys.Close()

	ticker := time.NewTicker(renderInterval)
	defer ticker.Stop()
	defer fmt.Fprint(c.out, "\r\n")

	for {
		select {
		case <-ctx.Done():
			return nil
		case key, ok := <-keys.Keys():
			if !ok {
				return nil
			}
			if !c.HandleKey(ctx, key) {
				return nil
			}
		case <-ticker.C:
		}
		if err := c.Render(); err != nil {
			return fmt.Errorf("console: %w", err)
		}
	}
}

// Sparkline draws the last width values scaled to [lo, hi].
func Sparkline(values []float64, width int, lo, hi float64) string {
	if len(values) > width {
		values = values[len(values)-width:]
	}
	var b strings.Builder
	for _, v := range values {
		i := 0
		if hi > lo {
			i = int((v - lo) / (hi - lo) * float64(len(sparks)-1))
		}
		i = max(0, min(i, len(sparks)-1))
		b.WriteRune(sparks[i])
	}
	return b.String()
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

var _ noisedecrease.Alerter = (*Console)(nil)
