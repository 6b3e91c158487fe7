// terminal_keys_test.go - Key mapping and the stdin key pump

package main

import (
	"errors"
	"testing"
	"time"
)

func TestKeyAction(t *testing.T) {
	tests := []struct {
		key  byte
		want KeyAction
	}{
		{'p', KEY_START},
		{'P', KEY_START},
		{' ', KEY_START},
		{'s', KEY_STOP},
		{'S', KEY_STOP},
		{'r', KEY_EXPORT},
		{'R', KEY_EXPORT},
		{'q', KEY_QUIT},
		{0x03, KEY_QUIT},
		{0x1b, KEY_QUIT},
		{'\n', KEY_NONE},
		{'x', KEY_NONE},
	}
	for _, tt := range tests {
		if got := keyAction(tt.key); got != tt.want {
			t.Errorf("keyAction(%q) = %d, want %d", tt.key, got, tt.want)
		}
	}
}

type scriptedKeys struct {
	bytes []byte
	idle  int
}

func (k *scriptedKeys) read(buf []byte) (int, bool, error) {
	if k.idle > 0 {
		k.idle--
		return 0, true, nil
	}
	if len(k.bytes) == 0 {
		return 0, false, errors.New("closed")
	}
	buf[0] = k.bytes[0]
	k.bytes = k.bytes[1:]
	return 1, false, nil
}

func TestPumpKeys_ForwardsUntilReadFails(t *testing.T) {
	src := &scriptedKeys{bytes: []byte("psr"), idle: 2}
	keys := make(chan byte, KEY_BUFFER)
	pumpKeys(src.read, keys, make(chan struct{}))
	close(keys)

	var got []byte
	for b := range keys {
		got = append(got, b)
	}
	if string(got) != "psr" {
		t.Fatalf("forwarded %q", got)
	}
}

func TestPumpKeys_DropsWhenFull(t *testing.T) {
	src := &scriptedKeys{bytes: []byte("abc")}
	keys := make(chan byte, 1)
	pumpKeys(src.read, keys, make(chan struct{}))
	if len(keys) != 1 || <-keys != 'a' {
		t.Fatal("a full buffer should keep the first key and drop the rest")
	}
}

func TestPumpKeys_StopsOnQuit(t *testing.T) {
	quit := make(chan struct{})
	done := make(chan struct{})
	idle := func([]byte) (int, bool, error) { return 0, true, nil }
	go func() {
		pumpKeys(idle, make(chan byte, 1), quit)
		close(done)
	}()
	close(quit)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("pump kept polling after quit")
	}
}
