// ambient_player.go - Control surface: start, stop and export of ambient sessions

package main

import (
	"sync"
	"time"
)

var _ SessionPlayer = (*AmbientPlayer)(nil)

// SessionInfo describes a session that has just started.
type SessionInfo struct {
	Snapshot SessionSnapshot
	Warnings []error
}

// AmbientPlayer owns one live scheduler and one exporter. It remembers the
// snapshot of the latest session so an export can replay it after the
// session has ended.
type AmbientPlayer struct {
	mutex sync.Mutex

	sched    *LiveScheduler
	exporter *MirrorExporter

	now            func() time.Time
	fixedTimestamp int64

	latest *SessionSnapshot
	policy DurationPolicy
}

func NewAmbientPlayer(sched *LiveScheduler, exporter *MirrorExporter) *AmbientPlayer {
	return &AmbientPlayer{
		sched:    sched,
		exporter: exporter,
		now:      time.Now,
	}
}

// SetSeedTimestamp pins the seed timestamp (milliseconds) so sessions are
// reproducible. Zero restores the wall clock.
func (p *AmbientPlayer) SetSeedTimestamp(ms int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.fixedTimestamp = ms
}

func (p *AmbientPlayer) seedTimestamp() int64 {
	if p.fixedTimestamp != 0 {
		return p.fixedTimestamp
	}
	return p.now().UnixMilli()
}

func (p *AmbientPlayer) Start(baseFrequency float64, durationToken string) SessionInfo {
	var warnings []error

	freq, err := ClampBaseFrequency(baseFrequency)
	if err != nil {
		logWarn("%v", err)
		warnings = append(warnings, err)
	}
	policy, err := ParseDurationPolicy(durationToken)
	if err != nil {
		logWarn("%v", err)
		warnings = append(warnings, err)
	}

	p.mutex.Lock()
	seed := SessionSeed(p.seedTimestamp(), freq, policy.Token)
	st, rng, snap := NewSessionState(seed, freq, policy)
	p.latest = &snap
	p.policy = policy
	p.sched.Start(st, rng, snap)
	p.mutex.Unlock()

	logInfo("%s", snap.Banner())
	logDebug("session %s: %.2f Hz, duration %s, harmony tier %s", snap.ShortID(), freq, policy.Token, policy.Tier())

	return SessionInfo{Snapshot: snap, Warnings: warnings}
}

func (p *AmbientPlayer) Stop() {
	p.sched.Stop()
}

// TriggerExport replays the latest session offline. It fails fast when no
// session was ever started or when another export is still rendering.
func (p *AmbientPlayer) TriggerExport() (<-chan ExportResult, error) {
	p.mutex.Lock()
	latest := p.latest
	p.mutex.Unlock()

	if latest == nil {
		return nil, ErrPrematureExport
	}
	logInfo("rendering export of session %d (%s)", latest.Seed, latest.ShortID())
	return p.exporter.Export(*latest)
}

func (p *AmbientPlayer) IsPlaying() bool {
	return p.sched.State() == SCHED_PLAYING
}

// Snapshot returns the latest session's snapshot, if any.
func (p *AmbientPlayer) Snapshot() (SessionSnapshot, bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.latest == nil {
		return SessionSnapshot{}, false
	}
	return *p.latest, true
}

func (p *AmbientPlayer) DurationSeconds() float64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if secs, ok := p.policy.EndsAfter(); ok {
		return secs
	}
	return 0
}

func (p *AmbientPlayer) DurationText() string {
	p.mutex.Lock()
	infinite := p.policy.Infinite
	p.mutex.Unlock()
	if infinite {
		return "endless"
	}
	return formatClock(p.DurationSeconds())
}
