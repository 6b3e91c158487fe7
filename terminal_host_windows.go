//go:build windows

// terminal_host_windows.go - Raw console key reader for interactive sessions

package main

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// TerminalHost reads a raw console and queues the keys. Console reads
// block, so the reader goroutine outlives Stop until the next key.
type TerminalHost struct {
	fd    int
	saved *term.State

	keys chan byte
	quit chan struct{}
	once sync.Once
}

func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		keys: make(chan byte, KEY_BUFFER),
		quit: make(chan struct{}),
	}
}

// Keys delivers key presses once Start has succeeded.
func (h *TerminalHost) Keys() <-chan byte {
	return h.keys
}

func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		return fmt.Errorf("raw mode: %w", err)
	}
	h.saved = saved

	go pumpKeys(func(buf []byte) (int, bool, error) {
		n, err := os.Stdin.Read(buf)
		return n, false, err
	}, h.keys, h.quit)
	return nil
}

func (h *TerminalHost) Stop() {
	h.once.Do(func() { close(h.quit) })
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
