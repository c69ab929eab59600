//go:build unix

package console

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// keyReader puts the terminal in raw mode and polls it without blocking so
// Close never waits on a pending read.
type keyReader struct {
	fd       int
	oldState *term.State
	keys     chan byte
	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func startKeys(fd int) (*keyReader, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		_ = term.Restore(fd, oldState)
		return nil, fmt.Errorf("setting nonblocking input: %w", err)
	}
	k := &keyReader{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan byte, 16),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
	go k.loop()
	return k, nil
}

func (k *keyReader) loop() {
	defer close(k.done)
	defer close(k.keys)
	buf := make([]byte, 1)
	for {
		select {
		case <-k.stop:
			return
		default:
		}

		n, err := unix.Read(k.fd, buf)
		if n > 0 {
			select {
			case k.keys <- buf[0]:
			case <-k.stop:
				return
			}
			continue
		}
		if err == nil || errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		return
	}
}

func (k *keyReader) Keys() <-chan byte {
	return k.keys
}

func (k *keyReader) Close() {
	k.stopOnce.Do(func() {
		close(k.stop)
		<-k.done
		_ = unix.SetNonblock(k.fd, false)
		_ = term.Restore(k.fd, k.oldState)
	})
}
