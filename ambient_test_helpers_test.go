// ambient_test_helpers_test.go - Scripted randomness, fake clocks and recording renderers

package main

import (
	"sync"
	"testing"
	"time"
)

// scriptedRNG replays fixed draws and fails the test if it runs dry.
type scriptedRNG struct {
	t    *testing.T
	vals []float64
	i    int
}

func newScriptedRNG(t *testing.T, vals ...float64) *scriptedRNG {
	t.Helper()
	return &scriptedRNG{t: t, vals: vals}
}

func (r *scriptedRNG) Next() float64 {
	if r.i >= len(r.vals) {
		r.t.Fatalf("scripted RNG exhausted after %d draws", r.i)
		return 0
	}
	v := r.vals[r.i]
	r.i++
	return v
}

func (r *scriptedRNG) draws() int {
	return r.i
}

// countingRNG wraps a real generator and counts draws.
type countingRNG struct {
	rng *AmbientRNG
	n   int
}

func (c *countingRNG) Next() float64 {
	c.n++
	return c.rng.Next()
}

type fakeClock struct {
	mu sync.Mutex
	t  float64
}

func (c *fakeClock) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) set(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

type fadeCall struct {
	kind    FadeKind
	at      float64
	seconds float64
}

type recordingRenderer struct {
	mu       sync.Mutex
	notes    []NoteEvent
	mixes    []MixPoint
	fades    []fadeCall
	releases int
}

func (r *recordingRenderer) RenderNote(ev NoteEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes = append(r.notes, ev)
}

func (r *recordingRenderer) SetMixLevel(level float64, at float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mixes = append(r.mixes, MixPoint{Time: at, Level: level})
}

func (r *recordingRenderer) Fade(kind FadeKind, at float64, seconds float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fades = append(r.fades, fadeCall{kind: kind, at: at, seconds: seconds})
}

func (r *recordingRenderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.releases++
}

func (r *recordingRenderer) countKind(kind NoteKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.notes {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func (r *recordingRenderer) countFade(kind FadeKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, f := range r.fades {
		if f.kind == kind {
			n++
		}
	}
	return n
}

// fakeTimer is fired by hand from the test.
type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
}

func (ft *fakeTimer) Stop() bool {
	was := !ft.stopped
	ft.stopped = true
	return was
}

type fakeTimers struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (ft *fakeTimers) after(d time.Duration, f func()) timerHandle {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.timers = append(ft.timers, t)
	return t
}

func (ft *fakeTimers) last() *fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	if len(ft.timers) == 0 {
		return nil
	}
	return ft.timers[len(ft.timers)-1]
}

// newTestScheduler builds a manually ticked scheduler on a fake clock.
func newTestScheduler() (*LiveScheduler, *fakeClock, *recordingRenderer, *fakeTimers) {
	clock := &fakeClock{}
	rec := &recordingRenderer{}
	timers := &fakeTimers{}
	s := NewLiveScheduler(clock, rec)
	s.after = timers.after
	s.SetTiming(0, LIVE_LOOK_AHEAD)
	return s, clock, rec, timers
}

func mustPolicy(t *testing.T, token string) DurationPolicy {
	t.Helper()
	p, err := ParseDurationPolicy(token)
	if err != nil {
		t.Fatalf("ParseDurationPolicy(%q): %v", token, err)
	}
	return p
}
