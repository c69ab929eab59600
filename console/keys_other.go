//go:build !unix

package console

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// keyReader reads stdin with blocking reads; a read pending at Close is abandoned.
type keyReader struct {
	fd        int
	oldState  *term.State
	keys      chan byte
	stop      chan struct{}
	closeOnce sync.Once
}

func startKeys(fd int) (*keyReader, error) {
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("setting raw mode: %w", err)
	}
	k := &keyReader{
		fd:       fd,
		oldState: oldState,
		keys:     make(chan byte, 16),
		stop:     make(chan struct{}),
	}
	go k.loop()
	return k, nil
}

func (k *keyReader) loop() {
	defer close(k.keys)
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return
		}
		if n == 0 {
			continue
		}
		select {
		case k.keys <- buf[0]:
		case <-k.stop:
			return
		}
	}
}

func (k *keyReader) Keys() <-chan byte {
	return k.keys
}

func (k *keyReader) Close() {
	k.closeOnce.Do(func() {
		close(k.stop)
		_ = term.Restore(k.fd, k.oldState)
	})
}
