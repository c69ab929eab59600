// Command noisedemo shows the live microphone noise level and plays the
// noise-cancellation waveform, in a window or in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	fyneapp "fyne.io/fyne/v2/app"
	"go.uber.org/zap"

	noisedecrease "github.com/Lundis/noise-decrease"
	"github.com/Lundis/noise-decrease/audio"
	"github.com/Lundis/noise-decrease/audio/otodriver"
	"github.com/Lundis/noise-decrease/backdrop"
	"github.com/Lundis/noise-decrease/config"
	"github.com/Lundis/noise-decrease/console"
	"github.com/Lundis/noise-decrease/internal/logging"
	"github.com/Lundis/noise-decrease/mic/portaudiomic"
	"github.com/Lundis/noise-decrease/ui"
)

func main() {
	cfg, err := config.Parse(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logOptions := []logging.Option{
		logging.WithLevel(cfg.LogLevel),
		logging.WithDevelopment(cfg.Development),
		logging.WithFields(map[string]interface{}{"frontend": cfg.Frontend}),
	}
	if cfg.LogFile != "" {
		logOptions = append(logOptions, logging.WithOutput(cfg.LogFile))
	}
	logger, err := logging.New(logOptions...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Error("noisedemo failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	bd, err := backdrop.LoadFolder(cfg.Assets, logger.Named("backdrop"))
	if err != nil {
		logger.Warn("Backdrop images unavailable", zap.String("folder", cfg.Assets), zap.Error(err))
		bd = backdrop.Default()
	}

	options := &noisedecrease.Options{
		Audio: &audio.NewContextOptions{
			SampleRate:   cfg.SampleRate,
			ChannelCount: audio.DefaultChannelCount,
			BufferSize:   cfg.BufferSize,
			Driver:       otodriver.New(),
		},
		Microphone: portaudiomic.Opener{},
		MicFrames:  cfg.MicFrames,
		Backdrop:   bd,
		FrameRate:  float64(cfg.FrameRate),
		Logger:     logger,
	}

	if cfg.Frontend == config.FrontendConsole {
		return runConsole(options, logger)
	}
	return runWindow(options, logger)
}

func runConsole(options *noisedecrease.Options, logger *zap.Logger) error {
	c := console.New(os.Stdout, logger.Named("console"))
	options.Alerter = c
	options.NoiseChart = c.Noise

	a, err := noisedecrease.New(options)
	if err != nil {
		return err
	}
	defer a.Close()
	c.Bind(a)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.Run(ctx, int(os.Stdin.Fd()))
}

func runWindow(options *noisedecrease.Options, logger *zap.Logger) error {
	f := ui.New(fyneapp.New(), logger.Named("ui"))
	options.Alerter = f
	options.NoiseChart = f.Noise

	a, err := noisedecrease.New(options)
	if err != nil {
		return err
	}
	f.Bind(a)
	f.Run()
	return nil
}
