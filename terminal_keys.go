// terminal_keys.go - Keyboard shortcuts of the interactive player

package main

import "time"

type KeyAction int

const (
	KEY_NONE KeyAction = iota
	KEY_START
	KEY_STOP
	KEY_EXPORT
	KEY_QUIT
)

const (
	KEY_BUFFER        = 16
	KEY_POLL_INTERVAL = 5 * time.Millisecond
)

// keyAction maps a raw key to a control surface action. Ctrl-C quits
// because raw mode swallows the signal.
func keyAction(b byte) KeyAction {
	switch b {
	case 'p', 'P', ' ':
		return KEY_START
	case 's', 'S':
		return KEY_STOP
	case 'r', 'R':
		return KEY_EXPORT
	case 'q', 'Q', 0x03, 0x1b:
		return KEY_QUIT
	}
	return KEY_NONE
}

// keyReader reads at most one stdin byte. idle means nothing was waiting.
type keyReader func(buf []byte) (n int, idle bool, err error)

// pumpKeys forwards bytes from read to keys until quit closes or read
// fails. Keys arriving while the buffer is full are dropped.
func pumpKeys(read keyReader, keys chan<- byte, quit <-chan struct{}) {
	buf := make([]byte, 1)
	for {
		select {
		case <-quit:
			return
		default:
		}

		n, idle, err := read(buf)
		if err != nil {
			return
		}
		if idle || n == 0 {
			time.Sleep(KEY_POLL_INTERVAL)
			continue
		}
		select {
		case keys <- buf[0]:
		default:
		}
	}
}
