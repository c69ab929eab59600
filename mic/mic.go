// Package mic requests audio-only microphone input and pumps the captured
// samples into an analyser.
package mic

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrMicrophoneAccess matches every AccessError.
	ErrMicrophoneAccess = errors.New("mic: microphone access failed")

	errNoDevice = errors.New("no capture device")
)

// AccessError is returned when permission is denied or no input device exists.
type AccessError struct {
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("%s: %v", ErrMicrophoneAccess, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

func (e *AccessError) Is(target error) bool {
	return target == ErrMicrophoneAccess
}

// Stream is an open mono capture stream.
type Stream interface {
	// Read blocks until samples are available and copies them into p.
	Read(p []float32) (int, error)
	Close() error
}

type Opener interface {
	Open(sampleRate, framesPerBuffer int) (Stream, error)
}

type OpenerFunc func(sampleRate, framesPerBuffer int) (Stream, error)

func (f OpenerFunc) Open(sampleRate, framesPerBuffer int) (Stream, error) {
	return f(sampleRate, framesPerBuffer)
}

// Request opens the microphone through o. Every failure is reported as an *AccessError.
func Request(o Opener, sampleRate, framesPerBuffer int) (Stream, error) {
	if o == nil {
		return nil, &AccessError{Err: errNoDevice}
	}
	s, err := o.Open(sampleRate, framesPerBuffer)
	if err != nil {
		return nil, &AccessError{Err: err}
	}
	if s == nil {
		return nil, &AccessError{Err: errNoDevice}
	}
	return s, nil
}

// Writer receives captured samples; *analyser.Node is one.
type Writer interface {
	Write(samples []float32) (int, error)
}

// Capture copies a Stream into a Writer on its own goroutine until stopped
// or until the stream fails.
type Capture struct {
	stream Stream
	dst    Writer
	buf    []float32

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	err      atomicError
}

func StartCapture(stream Stream, dst Writer, framesPerBuffer int) *Capture {
	if framesPerBuffer < 1 {
		framesPerBuffer = 1024
	}
	c := &Capture{
		stream: stream,
		dst:    dst,
		buf:    make([]float32, framesPerBuffer),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go c.loop()
	return c
}

func (c *Capture) loop() {
	defer close(c.done)
	for {
		select {
		case <-c.stop:
			return
		default:
		}

		n, err := c.stream.Read(c.buf)
		if n > 0 {
			if _, werr := c.dst.Write(c.buf[:n]); werr != nil {
				c.err.TryStore(fmt.Errorf("mic: writing samples: %w", werr))
				return
			}
		}
		if err != nil {
			select {
			case <-c.stop:
			default:
				c.err.TryStore(fmt.Errorf("mic: reading stream: %w", err))
			}
			return
		}
	}
}

// Done is closed when the capture goroutine has exited.
func (c *Capture) Done() <-chan struct{} {
	return c.done
}

// Err returns the error that ended the capture, if any.
func (c *Capture) Err() error {
	return c.err.Load()
}

// Stop ends the capture and closes the stream once the pending read has
// returned. A blocking read returns within one buffer period.
func (c *Capture) Stop() error {
	var err error
	c.stopOnce.Do(func() {
		close(c.stop)
		<-c.done
		err = c.stream.Close()
	})
	return err
}
