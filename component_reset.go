// component_reset.go - Reset() methods for the mix bus and the live scheduler

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine
License: GPLv3 or later
*/

package main

// AmbientBus.Reset restores the bus to constructor defaults: silent voices,
// empty reverb lines, resting gains and a zero clock.
func (bus *AmbientBus) Reset() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.pending = nil
	bus.active = nil
	bus.frames.Store(0)

	bus.master = gainParam{value: MASTER_LEVEL}
	bus.send = gainParam{value: MIX_LEVEL_DENSE}

	clear(bus.preDelayBuf)
	bus.preDelayPos = 0
	for i := range bus.combFilters {
		clear(bus.combFilters[i].buffer)
		bus.combFilters[i].pos = 0
	}
	for i := range bus.allpassBuf {
		clear(bus.allpassBuf[i])
		bus.allpassPos[i] = 0
	}
}

// LiveScheduler.Reset drops the current session without any fade and
// returns to idle. Timers from the dropped session become no-ops.
func (s *LiveScheduler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopDriverLocked()
	s.cancelFinishLocked()
	if s.state != SCHED_IDLE {
		s.renderer.Release()
	}
	s.generation++
	s.state = SCHED_IDLE
	s.engine = nil
	s.rng = nil
	s.snapshot = SessionSnapshot{}
	s.approaching = false
	s.notes = 0
	s.lastErr = nil
}
