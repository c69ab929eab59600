// Package config reads the demo's settings from command-line flags whose
// defaults come from NOISE_* environment variables.
package config

import (
	"errors"
	"flag"
	"fmt"
	"time"
)

const (
	FrontendGUI     = "gui"
	FrontendConsole = "console"
)

const (
	EnvSampleRate  = "NOISE_SAMPLE_RATE"
	EnvBufferMS    = "NOISE_BUFFER_MS"
	EnvFrameRate   = "NOISE_FRAME_RATE"
	EnvMicFrames   = "NOISE_MIC_FRAMES"
	EnvAssets      = "NOISE_ASSETS"
	EnvLogLevel    = "NOISE_LOG_LEVEL"
	EnvLogFile     = "NOISE_LOG_FILE"
	EnvDevelopment = "NOISE_DEV"
	EnvFrontend    = "NOISE_FRONTEND"
)

type Config struct {
	SampleRate  int
	BufferSize  time.Duration
	FrameRate   int
	MicFrames   int
	Assets      string
	LogLevel    string
	LogFile     string
	Development bool
	Frontend    string
}

// Parse registers the flags on fs, parses args and validates the result.
func Parse(fs *flag.FlagSet, args []string) (*Config, error) {
	c := &Config{}
	var bufferMS int
	fs.IntVar(&c.SampleRate, "samplerate", EnvIntOr(EnvSampleRate, 48000), "output and microphone sample rate")
	fs.IntVar(&bufferMS, "buffer", EnvIntOr(EnvBufferMS, 40), "output buffer size in milliseconds")
	fs.IntVar(&c.FrameRate, "framerate", EnvIntOr(EnvFrameRate, 60), "sampler frames per second")
	fs.IntVar(&c.MicFrames, "micframes", EnvIntOr(EnvMicFrames, 1024), "microphone frames per read")
	fs.StringVar(&c.Assets, "assets", EnvOr(EnvAssets, "assets"), "folder holding backdrop.json and its images")
	fs.StringVar(&c.LogLevel, "loglevel", EnvOr(EnvLogLevel, "info"), "debug, info, warn or error")
	fs.StringVar(&c.LogFile, "logfile", EnvOr(EnvLogFile, ""), "write logs to this file instead of stderr")
	fs.BoolVar(&c.Development, "dev", EnvBoolOr(EnvDevelopment, false), "human-readable development logs")
	fs.StringVar(&c.Frontend, "frontend", EnvOr(EnvFrontend, FrontendGUI), "gui or console")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	c.BufferSize = time.Duration(bufferMS) * time.Millisecond
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("config: sample rate must be positive: %d", c.SampleRate))
	}
	if c.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("config: buffer size must not be negative: %s", c.BufferSize))
	}
	if c.FrameRate <= 0 {
		errs = append(errs, fmt.Errorf("config: frame rate must be positive: %d", c.FrameRate))
	}
	if c.MicFrames <= 0 {
		errs = append(errs, fmt.Errorf("config: microphone frames must be positive: %d", c.MicFrames))
	}
	if c.Frontend != FrontendGUI && c.Frontend != FrontendConsole {
		errs = append(errs, fmt.Errorf("config: unknown frontend %q", c.Frontend))
	}
	return errors.Join(errs...)
}
