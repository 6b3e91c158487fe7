//go:build headless

// audio_backend_headless.go - Real-time paced output that discards samples

package main

import (
	"sync"
	"time"
)

func init() {
	compiledFeatures = append(compiledFeatures, "audio:headless")
}

const HEADLESS_PULL_MS = 10

// HeadlessOutput drains the source at wall-clock pace so the bus clock and
// every scheduler above it run exactly as with a device attached.
type HeadlessOutput struct {
	source     FrameSource
	sampleRate int
	started    bool
	done       chan struct{}
	mutex      sync.Mutex
}

func NewAudioOutput(sampleRate int, source FrameSource) (AudioOutput, error) {
	return &HeadlessOutput{source: source, sampleRate: sampleRate}, nil
}

func (h *HeadlessOutput) Start() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if h.started {
		return
	}
	h.started = true
	h.done = make(chan struct{})
	go h.pump(h.done)
}

func (h *HeadlessOutput) pump(done <-chan struct{}) {
	t := time.NewTicker(HEADLESS_PULL_MS * time.Millisecond)
	defer t.Stop()
	buf := make([][2]float32, h.sampleRate*HEADLESS_PULL_MS/1000)
	for {
		select {
		case <-done:
			return
		case <-t.C:
			h.source.ReadFrames(buf)
		}
	}
}

func (h *HeadlessOutput) Stop() {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	if !h.started {
		return
	}
	close(h.done)
	h.started = false
}

func (h *HeadlessOutput) Close() {
	h.Stop()
}

func (h *HeadlessOutput) IsStarted() bool {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return h.started
}
