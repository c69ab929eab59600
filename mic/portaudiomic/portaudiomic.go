// Package portaudiomic opens the default input device with PortAudio.
package portaudiomic

import (
	"fmt"

	"github.com/Lundis/noise-decrease/mic"
	"github.com/gordonklaus/portaudio"
)

// Opener implements mic.Opener. Every opened Stream holds a PortAudio
// initialization that is released by Stream.Close.
type Opener struct{}

func (Opener) Open(sampleRate, framesPerBuffer int) (mic.Stream, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("initializing portaudio: %w", err)
	}

	buf := make([]float32, framesPerBuffer)
	stream, err := portaudio.OpenDefaultStream(1, 0, float64(sampleRate), framesPerBuffer, buf)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("opening input stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("starting input stream: %w", err)
	}

	return &Stream{stream: stream, buf: buf}, nil
}

type Stream struct {
	stream *portaudio.Stream
	buf    []float32
}

func (s *Stream) Read(p []float32) (int, error) {
	if err := s.stream.Read(); err != nil {
		return 0, err
	}
	return copy(p, s.buf), nil
}

func (s *Stream) Close() error {
	var err error
	if stopErr := s.stream.Stop(); stopErr != nil {
		err = fmt.Errorf("stopping stream: %w", stopErr)
	}
	if closeErr := s.stream.Close(); closeErr != nil && err == nil {
		err = fmt.Errorf("closing stream: %w", closeErr)
	}
	portaudio.Terminate()
	return err
}
