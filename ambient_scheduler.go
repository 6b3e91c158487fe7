// ambient_scheduler.go - Live look-ahead scheduler driven by a periodic tick

package main

import (
	"sync"
	"time"
)

type SchedulerState int

const (
	SCHED_IDLE SchedulerState = iota
	SCHED_PLAYING
	SCHED_ENDING_NATURALLY
	SCHED_STOPPED
)

func (s SchedulerState) String() string {
	switch s {
	case SCHED_IDLE:
		return "idle"
	case SCHED_PLAYING:
		return "playing"
	case SCHED_ENDING_NATURALLY:
		return "ending"
	case SCHED_STOPPED:
		return "stopped"
	}
	return "unknown"
}

// FinishReason says why a session stopped producing sound.
type FinishReason int

const (
	FINISH_STOPPED FinishReason = iota
	FINISH_NATURAL
	FINISH_FAULT
)

// timerHandle is the part of *time.Timer the scheduler needs.
type timerHandle interface {
	Stop() bool
}

type afterFunc func(d time.Duration, f func()) timerHandle

func realAfterFunc(d time.Duration, f func()) timerHandle {
	return time.AfterFunc(d, f)
}

// LiveScheduler fills a short look-ahead window with notes on every tick.
// All engine mutation happens under mu, so ticks run to completion one at
// a time and Stop is safe from any goroutine.
type LiveScheduler struct {
	mu sync.Mutex

	clock     AudioClock
	renderer  ToneRenderer
	after     afterFunc
	period    time.Duration // 0: ticks are driven by the caller
	lookAhead float64

	state       SchedulerState
	generation  uint64
	engine      *EngineState
	rng         *AmbientRNG
	snapshot    SessionSnapshot
	origin      float64
	nextTime    float64
	approaching bool
	notes       int
	lastErr     error

	ticker      *time.Ticker
	done        chan struct{}
	finishTimer timerHandle
	finishAs    FinishReason

	onFinished func(reason FinishReason, err error)
}

func NewLiveScheduler(clock AudioClock, renderer ToneRenderer) *LiveScheduler {
	return &LiveScheduler{
		clock:     clock,
		renderer:  renderer,
		after:     realAfterFunc,
		period:    LIVE_TICK_MS * time.Millisecond,
		lookAhead: LIVE_LOOK_AHEAD,
	}
}

// SetTiming overrides the tick period and look-ahead window. A zero period
// disables the internal ticker.
func (s *LiveScheduler) SetTiming(period time.Duration, lookAhead float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.period = period
	if lookAhead > 0 {
		s.lookAhead = lookAhead
	}
}

// OnFinished registers a callback run (outside the lock) when a session
// releases its sound, for whatever reason.
func (s *LiveScheduler) OnFinished(f func(reason FinishReason, err error)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFinished = f
}

// Start begins a session from freshly seeded state, dropping whatever was
// sounding before.
func (s *LiveScheduler) Start(engine *EngineState, rng *AmbientRNG, snap SessionSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopDriverLocked()
	s.cancelFinishLocked()
	if s.state == SCHED_PLAYING || s.state == SCHED_ENDING_NATURALLY || s.state == SCHED_STOPPED {
		s.renderer.Release()
	}

	s.generation++
	s.engine = engine
	s.rng = rng
	s.snapshot = snap
	s.approaching = false
	s.notes = 0
	s.lastErr = nil

	now := s.clock.CurrentTime()
	s.origin = now
	s.nextTime = now
	s.renderer.Fade(FADE_IN, now, START_FADE_IN)
	s.renderer.SetMixLevel(engine.Density.MixLevel(), now)
	s.state = SCHED_PLAYING

	if s.period > 0 {
		s.ticker = time.NewTicker(s.period)
		s.done = make(chan struct{})
		go s.drive(s.generation, s.ticker, s.done)
	}
}

func (s *LiveScheduler) drive(gen uint64, t *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-t.C:
			s.tick(gen)
		}
	}
}

// Tick runs one scheduling pass for the current session.
func (s *LiveScheduler) Tick() {
	s.mu.Lock()
	gen := s.generation
	s.mu.Unlock()
	s.tick(gen)
}

func (s *LiveScheduler) tick(gen uint64) {
	s.mu.Lock()
	notify := s.tickLocked(gen)
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

func (s *LiveScheduler) tickLocked(gen uint64) func() {
	if gen != s.generation || s.state != SCHED_PLAYING {
		return nil
	}

	now := s.clock.CurrentTime()
	elapsed := now - s.origin
	st := s.engine

	st.Density.Update(elapsed)
	s.renderer.SetMixLevel(st.Density.MixLevel(), now)

	if end, ok := st.Policy.EndsAfter(); ok && elapsed >= end && !s.approaching {
		s.approaching = true
		logDebug("session %s approaching its end after %s", s.snapshot.ShortID(), formatClock(elapsed))
	}

	for s.nextTime < now+s.lookAhead {
		in := StepInput{Origin: s.origin, At: s.nextTime, Now: now, ApproachingEnd: s.approaching}

		if s.approaching && st.AtRoot() {
			for _, ev := range st.Conclude(s.rng, in) {
				s.renderer.RenderNote(ev)
			}
			s.beginNaturalEndLocked(now)
			return nil
		}

		out, err := st.Step(s.rng, in)
		if err != nil {
			return s.failLocked(err)
		}
		s.renderer.RenderNote(out.Note)
		s.notes++
		if out.Modulated {
			logDebug("modulated: circle %d minor=%v at note %d", st.Harmony.CirclePosition, st.Harmony.Minor, s.notes)
		}
		s.nextTime += out.Spacing
	}
	return nil
}

// Stop fades out quickly and releases the renderer after a short grace.
// It pre-empts a natural ending already under way.
func (s *LiveScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SCHED_PLAYING && s.state != SCHED_ENDING_NATURALLY {
		return
	}
	s.stopDriverLocked()
	s.cancelFinishLocked()
	s.state = SCHED_STOPPED

	now := s.clock.CurrentTime()
	s.renderer.Fade(FADE_STOP, now, STOP_FADE_CONSTANT)

	gen := s.generation
	s.finishAs = FINISH_STOPPED
	s.finishTimer = s.after(STOP_GRACE_MS*time.Millisecond, func() {
		s.finish(gen, FINISH_STOPPED)
	})
}

func (s *LiveScheduler) beginNaturalEndLocked(now float64) {
	if s.state == SCHED_ENDING_NATURALLY {
		return
	}
	s.state = SCHED_ENDING_NATURALLY
	s.stopDriverLocked()
	s.renderer.Fade(FADE_NATURAL_END, now, NATURAL_END_FADE)
	logInfo("session %s ending naturally after %d notes (%s)", s.snapshot.ShortID(), s.notes, formatClock(now-s.origin))

	gen := s.generation
	s.finishAs = FINISH_NATURAL
	s.finishTimer = s.after(NATURAL_END_FINISH_MS*time.Millisecond, func() {
		s.finish(gen, FINISH_NATURAL)
	})
}

// finish releases the renderer once a fade has run its course. A timer that
// was superseded by a later Stop or Start is ignored.
func (s *LiveScheduler) finish(gen uint64, reason FinishReason) {
	s.mu.Lock()
	if gen != s.generation || s.finishTimer == nil || reason != s.finishAs {
		s.mu.Unlock()
		return
	}
	s.finishTimer = nil
	s.state = SCHED_STOPPED
	s.renderer.Release()
	cb := s.onFinished
	s.mu.Unlock()

	if cb != nil {
		cb(reason, nil)
	}
}

// failLocked ends the session that broke an invariant and resets it to idle.
func (s *LiveScheduler) failLocked(err error) func() {
	logError("session %s stopped: %v", s.snapshot.ShortID(), err)
	s.stopDriverLocked()
	s.cancelFinishLocked()
	s.renderer.Release()
	s.lastErr = err
	s.state = SCHED_IDLE
	s.engine = nil
	s.rng = nil

	cb := s.onFinished
	if cb == nil {
		return nil
	}
	return func() { cb(FINISH_FAULT, err) }
}

func (s *LiveScheduler) stopDriverLocked() {
	if s.done == nil {
		return
	}
	close(s.done)
	s.ticker.Stop()
	s.done = nil
	s.ticker = nil
}

func (s *LiveScheduler) cancelFinishLocked() {
	if s.finishTimer != nil {
		s.finishTimer.Stop()
		s.finishTimer = nil
	}
}

func (s *LiveScheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the invariant violation that ended the last session, if any.
func (s *LiveScheduler) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

func (s *LiveScheduler) NotesScheduled() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

func (s *LiveScheduler) Elapsed() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == SCHED_IDLE {
		return 0
	}
	return s.clock.CurrentTime() - s.origin
}

// Approaching reports whether the requested length has been reached.
func (s *LiveScheduler) Approaching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.approaching
}
