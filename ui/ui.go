// Package ui is the desktop front end: microphone and play controls, the
// loop toggle, the backdrop image and the three charts.
package ui

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"go.uber.org/zap"

	noisedecrease "github.com/Lundis/noise-decrease"
	"github.com/Lundis/noise-decrease/backdrop"
	"github.com/Lundis/noise-decrease/chart"
	"github.com/Lundis/noise-decrease/player"
)

const (
	Title        = "Noise decrease"
	SetupLabel   = "Setup microphone"
	LoopLabel    = "Loop"
	alertTitle   = "Microphone"
	imageWidth   = 320
	imageHeight  = 240
	chartWidth   = 760
	chartHeight  = 220
	windowWidth  = 820
	windowHeight = 900
)

// Frontend owns the fyne window. Create it before the App so its chart
// models and alerts can be handed to noisedecrease.Options, then Bind the App.
type Frontend struct {
	fyneApp fyne.App
	window  fyne.Window
	logger  *zap.Logger

	Noise   *chart.Model
	Digital *chart.Model
	Analog  *chart.Model

	app   *noisedecrease.App
	play  *widget.Button
	loop  *widget.Check
	image *canvas.Image
	taps  *tapLayer
}

func New(fyneApp fyne.App, logger *zap.Logger) *Frontend {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := fyneApp.NewWindow(Title)
	w.Resize(fyne.NewSize(windowWidth, windowHeight))
	return &Frontend{
		fyneApp: fyneApp,
		window:  w,
		logger:  logger,
		Noise:   chart.NewModel(chart.LiveNoise),
		Digital: chart.NewModel(chart.DigitalSignal),
		Analog:  chart.NewModel(chart.AnalogSignal),
	}
}

// Alert shows message in a modal dialog. It is safe to call from any goroutine.
func (f *Frontend) Alert(message string) {
	fyne.Do(func() {
		dialog.ShowInformation(alertTitle, message, f.window)
	})
}

// Bind builds the window content around a.
func (f *Frontend) Bind(a *noisedecrease.App) {
	f.app = a

	setup := widget.NewButton(SetupLabel, f.setupMicrophone)
	f.play = widget.NewButton(a.Player().Label(), f.pressPlay)
	f.loop = widget.NewCheck(LoopLabel, f.setLoop)

	f.image = canvas.NewImageFromResource(resource(a.Backdrop().Current()))
	f.image.FillMode = canvas.ImageFillContain
	f.image.SetMinSize(fyne.NewSize(imageWidth, imageHeight))

	noise := NewChartView(f.Noise, fyne.NewSize(chartWidth, chartHeight))
	digital := NewChartView(f.Digital, fyne.NewSize(chartWidth, chartHeight))
	analog := NewChartView(f.Analog, fyne.NewSize(chartWidth, chartHeight))
	a.PlotSignal(f.Digital, f.Analog)

	controls := container.NewHBox(setup, f.play, f.loop)
	content := container.NewVBox(
		controls,
		container.NewCenter(f.image),
		noise.CanvasObject(),
		digital.CanvasObject(),
		analog.CanvasObject(),
	)
	// taps anywhere in the window count as an interaction
	f.taps = newTapLayer(a.Interact)
	f.window.SetContent(container.NewVScroll(container.NewStack(f.taps, content)))

	f.window.Canvas().SetOnTypedKey(func(*fyne.KeyEvent) {
		a.Interact()
	})
	f.window.SetOnClosed(func() {
		if err := a.Close(); err != nil {
			f.logger.Error("Error closing app", zap.Error(err))
		}
	})
}

func (f *Frontend) setupMicrophone() {
	f.app.Interact()
	go func() {
		// failures are logged and alerted by the App
		_ = f.app.SetupMicrophone(context.Background())
	}()
}

func (f *Frontend) pressPlay() {
	f.app.Interact()
	state, img := f.app.PressPlay()
	if state == player.Playing {
		f.play.SetText(player.StopLabel)
	} else {
		f.play.SetText(player.PlayLabel)
	}
	f.image.Resource = resource(img)
	f.image.Refresh()
}

func (f *Frontend) setLoop(loop bool) {
	f.app.Interact()
	f.app.SetLoop(loop)
}

// Run shows the window and blocks until it is closed.
func (f *Frontend) Run() {
	f.window.ShowAndRun()
}

func resource(img backdrop.Image) fyne.Resource {
	if img.Data == nil {
		return nil
	}
	return fyne.NewStaticResource(img.Path, img.Data)
}
