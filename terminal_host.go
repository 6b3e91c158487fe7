//go:build !windows

// terminal_host.go - Raw stdin key reader for interactive sessions

package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"

	"golang.org/x/term"
)

// TerminalHost polls a raw, non-blocking stdin and queues the keys.
type TerminalHost struct {
	fd          int
	saved       *term.State
	nonblocking bool

	keys   chan byte
	quit   chan struct{}
	exited chan struct{}
	once   sync.Once
}

func NewTerminalHost() *TerminalHost {
	return &TerminalHost{
		keys:   make(chan byte, KEY_BUFFER),
		quit:   make(chan struct{}),
		exited: make(chan struct{}),
	}
}

// Keys delivers key presses once Start has succeeded.
func (h *TerminalHost) Keys() <-chan byte {
	return h.keys
}

// Start switches stdin to raw non-blocking mode. On error the terminal is
// left as it was and Stop is still safe to call.
func (h *TerminalHost) Start() error {
	h.fd = int(os.Stdin.Fd())

	saved, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.exited)
		return fmt.Errorf("raw mode: %w", err)
	}
	h.saved = saved

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, saved)
		h.saved = nil
		close(h.exited)
		return fmt.Errorf("nonblocking stdin: %w", err)
	}
	h.nonblocking = true

	go func() {
		defer close(h.exited)
		pumpKeys(h.read, h.keys, h.quit)
	}()
	return nil
}

func (h *TerminalHost) read(buf []byte) (int, bool, error) {
	n, err := syscall.Read(h.fd, buf)
	if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
		return 0, true, nil
	}
	return n, false, err
}

// Stop ends the reader and puts stdin back in blocking cooked mode.
func (h *TerminalHost) Stop() {
	h.once.Do(func() { close(h.quit) })
	<-h.exited
	if h.nonblocking {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblocking = false
	}
	if h.saved != nil {
		_ = term.Restore(h.fd, h.saved)
		h.saved = nil
	}
}
