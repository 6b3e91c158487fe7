// audio_chip.go - FM voice mix bus with pre-delayed comb/allpass reverb

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

import (
	"math"
	"sort"
	"sync"
	"sync/atomic"
)

const (
	SAMPLE_RATE     = 44100
	OUTPUT_CHANNELS = 2
	MASTER_LEVEL    = 0.3
	PRE_DELAY_MS    = 20

	ENVELOPE_FLOOR        = 0.0001
	NATURAL_END_FLOOR     = 0.001
	MIX_SEND_TIME_CONST   = 0.8
	MIN_CARRIER_HZ        = 10.0
	MIN_MOD_HZ            = 1.0
	MOD_DEPTH_FLOOR_RATIO = 0.45
	MIN_MOD_DEPTH         = 1.0
)

const (
	MAX_SAMPLE = 1.0
	MIN_SAMPLE = -1.0
)

const REVERB_ATTENUATION = 0.3 // Reverb output scaling

const (
	COMB_DELAY_1 = 1687
	COMB_DELAY_2 = 1601
	COMB_DELAY_3 = 2053
	COMB_DELAY_4 = 2251
)

const (
	COMB_DECAY_1 = 0.97
	COMB_DECAY_2 = 0.95
	COMB_DECAY_3 = 0.93
	COMB_DECAY_4 = 0.91
)

const (
	ALLPASS_DELAY_1 = 389
	ALLPASS_DELAY_2 = 307
	ALLPASS_COEF    = 0.5
)

// fmVoice is one carrier/modulator pair with exponential envelopes.
// Envelope and modulation depth advance by a per-frame multiplier.
type fmVoice struct {
	startFrame  int64
	attackFrame int64
	endFrame    int64

	carrierHz    float64
	modHz        float64
	carrierPhase float64
	modPhase     float64

	amp       float64
	attackMul float64
	decayMul  float64
	peak      float64

	modDepth    float64
	modDepthMul float64

	gainL float64
	gainR float64
}

// CombFilter is one feedback delay line of the reverb bank.
type CombFilter struct {
	buffer []float32
	decay  float32
	pos    int
}

type rampKind int

const (
	RAMP_SET rampKind = iota
	RAMP_LINEAR
	RAMP_EXPONENTIAL
	RAMP_TARGET
)

// gainSegment is one automation event. from is captured when it starts.
type gainSegment struct {
	kind   rampKind
	start  float64
	end    float64
	target float64
	tau    float64
	from   float64
}

// gainParam is sample-accurate gain automation with set / linear /
// exponential / approach-target segments.
type gainParam struct {
	value   float64
	current gainSegment
	running bool
	pending []gainSegment
}

func (g *gainParam) schedule(seg gainSegment) {
	g.pending = append(g.pending, seg)
	sort.SliceStable(g.pending, func(i, j int) bool { return g.pending[i].start < g.pending[j].start })
}

// cancel drops every segment starting at or after t and freezes the value.
func (g *gainParam) cancel(t float64) {
	kept := g.pending[:0]
	for _, seg := range g.pending {
		if seg.start < t {
			kept = append(kept, seg)
		}
	}
	g.pending = kept
	g.valueAt(t)
	g.running = false
}

func (g *gainParam) valueAt(t float64) float64 {
	for len(g.pending) > 0 && g.pending[0].start <= t {
		seg := g.pending[0]
		g.pending = g.pending[1:]
		seg.from = g.value
		if seg.kind == RAMP_SET {
			g.value = seg.target
			g.running = false
			continue
		}
		g.current = seg
		g.running = true
	}
	if !g.running {
		return g.value
	}

	seg := &g.current
	switch seg.kind {
	case RAMP_TARGET:
		g.value = seg.target + (seg.from-seg.target)*math.Exp(-(t-seg.start)/seg.tau)
	case RAMP_LINEAR, RAMP_EXPONENTIAL:
		if t >= seg.end || seg.end <= seg.start {
			g.value = seg.target
			g.running = false
			break
		}
		x := (t - seg.start) / (seg.end - seg.start)
		if seg.kind == RAMP_LINEAR {
			g.value = seg.from + (seg.target-seg.from)*x
		} else {
			from := math.Max(seg.from, NATURAL_END_FLOOR)
			g.value = from * math.Pow(seg.target/from, x)
		}
	}
	return g.value
}

var (
	_ ToneRenderer = (*AmbientBus)(nil)
	_ AudioClock   = (*AmbientBus)(nil)
	_ FrameSource  = (*AmbientBus)(nil)
)

// AmbientBus renders NoteEvents to stereo frames. It is both the live tone
// renderer (pulled by an audio backend) and the offline one.
type AmbientBus struct {
	mutex sync.Mutex

	sampleRate float64
	frames     atomic.Int64

	pending []*fmVoice // sorted by startFrame
	active  []*fmVoice

	master gainParam
	send   gainParam

	preDelayBuf []float32
	preDelayPos int
	combFilters [4]CombFilter
	allpassBuf  [2][]float32
	allpassPos  [2]int
}

func NewAmbientBus(sampleRate int) *AmbientBus {
	if sampleRate <= 0 {
		sampleRate = SAMPLE_RATE
	}
	bus := &AmbientBus{
		sampleRate:  float64(sampleRate),
		preDelayBuf: make([]float32, PRE_DELAY_MS*sampleRate/1000),
	}
	bus.master.value = MASTER_LEVEL
	bus.send.value = MIX_LEVEL_DENSE

	combLengths := []int{COMB_DELAY_1, COMB_DELAY_2, COMB_DELAY_3, COMB_DELAY_4}
	combDecays := []float32{COMB_DECAY_1, COMB_DECAY_2, COMB_DECAY_3, COMB_DECAY_4}
	for i := range bus.combFilters {
		bus.combFilters[i] = CombFilter{
			buffer: make([]float32, combLengths[i]),
			decay:  combDecays[i],
		}
	}
	for i := range bus.allpassBuf {
		bus.allpassBuf[i] = make([]float32, []int{ALLPASS_DELAY_1, ALLPASS_DELAY_2}[i])
	}
	return bus
}

// CurrentTime is the number of frames produced so far, in seconds.
func (bus *AmbientBus) CurrentTime() float64 {
	return float64(bus.frames.Load()) / bus.sampleRate
}

func (bus *AmbientBus) SampleRate() int {
	return int(bus.sampleRate)
}

// RenderNote queues the note's voices. Notes starting in the past begin now.
func (bus *AmbientBus) RenderNote(ev NoteEvent) {
	if ev.Duration <= 0 || ev.Frequency <= 0 {
		return
	}
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	now := bus.frames.Load()
	start := max(int64(math.Round(ev.StartTime*bus.sampleRate)), now)
	end := start + max(int64(math.Round(ev.Duration*bus.sampleRate)), 1)
	attackFrames := max(int64(math.Round(ev.Voice.Attack*bus.sampleRate)), 1)
	attackFrames = min(attackFrames, end-start)
	decayFrames := max(end-start-attackFrames, 1)

	f := ev.Frequency*ev.Voice.DriftRatio + ev.Voice.DetuneHz
	if ev.Voice.DriftRatio == 0 {
		f = ev.Frequency + ev.Voice.DetuneHz
	}
	totalFrames := float64(end - start)

	for _, hint := range ev.Voice.Voices {
		peak := hint.Gain * ev.Velocity
		if peak <= ENVELOPE_FLOOR {
			continue
		}
		depthStart := math.Max(f*hint.ModIndex, MIN_MOD_DEPTH)
		depthEnd := math.Max(f*MOD_DEPTH_FLOOR_RATIO, MIN_MOD_DEPTH)

		// equal-power pan of a mono source
		x := (clampFloat(hint.Pan, -1, 1) + 1) * math.Pi / 4
		v := &fmVoice{
			startFrame:  start,
			attackFrame: start + attackFrames,
			endFrame:    end,
			carrierHz:   math.Max(MIN_CARRIER_HZ, f),
			modHz:       math.Max(MIN_MOD_HZ, f*hint.ModRatio),
			amp:         ENVELOPE_FLOOR,
			peak:        peak,
			attackMul:   math.Pow(peak/ENVELOPE_FLOOR, 1/float64(attackFrames)),
			decayMul:    math.Pow(ENVELOPE_FLOOR/peak, 1/float64(decayFrames)),
			modDepth:    depthStart,
			modDepthMul: math.Pow(depthEnd/depthStart, 1/totalFrames),
			gainL:       math.Cos(x),
			gainR:       math.Sin(x),
		}
		bus.insertLocked(v)
	}
}

func (bus *AmbientBus) insertLocked(v *fmVoice) {
	i := sort.Search(len(bus.pending), func(i int) bool { return bus.pending[i].startFrame > v.startFrame })
	bus.pending = append(bus.pending, nil)
	copy(bus.pending[i+1:], bus.pending[i:])
	bus.pending[i] = v
}

// SetMixLevel moves the reverb send toward level from time at.
func (bus *AmbientBus) SetMixLevel(level float64, at float64) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.send.cancel(at)
	bus.send.schedule(gainSegment{kind: RAMP_TARGET, start: at, target: level, tau: MIX_SEND_TIME_CONST})
}

// SetMixLevelNow jumps the reverb send without smoothing.
func (bus *AmbientBus) SetMixLevelNow(level float64) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.send.pending = nil
	bus.send.running = false
	bus.send.value = level
}

func (bus *AmbientBus) Fade(kind FadeKind, at float64, seconds float64) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()

	bus.master.cancel(at)
	switch kind {
	case FADE_IN:
		bus.master.schedule(gainSegment{kind: RAMP_SET, start: at, target: 0})
		bus.master.schedule(gainSegment{kind: RAMP_LINEAR, start: at, end: at + seconds, target: MASTER_LEVEL})
	case FADE_STOP:
		bus.master.schedule(gainSegment{kind: RAMP_TARGET, start: at, target: 0, tau: seconds})
	case FADE_NATURAL_END:
		bus.master.schedule(gainSegment{kind: RAMP_EXPONENTIAL, start: at, end: at + seconds, target: NATURAL_END_FLOOR})
	}
}

// Release silences every sounding and queued voice.
func (bus *AmbientBus) Release() {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	bus.pending = nil
	bus.active = nil
}

// Voices reports how many voices are queued or sounding.
func (bus *AmbientBus) Voices() int {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	return len(bus.pending) + len(bus.active)
}

// ReadFrames fills dst with consecutive stereo frames and advances the clock.
func (bus *AmbientBus) ReadFrames(dst [][2]float32) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	for i := range dst {
		l, r := bus.generateFrameLocked()
		dst[i] = [2]float32{float32(l), float32(r)}
	}
}

// GenerateFrame produces one stereo frame.
func (bus *AmbientBus) GenerateFrame() (float64, float64) {
	bus.mutex.Lock()
	defer bus.mutex.Unlock()
	return bus.generateFrameLocked()
}

func (bus *AmbientBus) generateFrameLocked() (float64, float64) {
	n := bus.frames.Load()
	t := float64(n) / bus.sampleRate

	for len(bus.pending) > 0 && bus.pending[0].startFrame <= n {
		bus.active = append(bus.active, bus.pending[0])
		bus.pending = bus.pending[1:]
	}

	var dryL, dryR float64
	kept := bus.active[:0]
	for _, v := range bus.active {
		s := v.next(n, bus.sampleRate)
		dryL += s * v.gainL
		dryR += s * v.gainR
		if n+1 < v.endFrame {
			kept = append(kept, v)
		}
	}
	for i := len(kept); i < len(bus.active); i++ {
		bus.active[i] = nil
	}
	bus.active = kept

	wet := float64(bus.applyReverb(float32((dryL + dryR) * 0.5)))
	send := bus.send.valueAt(t)
	master := bus.master.valueAt(t)

	bus.frames.Add(1)
	l := (dryL + wet*send) * master
	r := (dryR + wet*send) * master
	return clampFloat(l, MIN_SAMPLE, MAX_SAMPLE), clampFloat(r, MIN_SAMPLE, MAX_SAMPLE)
}

func (v *fmVoice) next(n int64, sampleRate float64) float64 {
	out := math.Sin(2*math.Pi*v.carrierPhase) * v.amp

	instHz := v.carrierHz + v.modDepth*math.Sin(2*math.Pi*v.modPhase)
	v.carrierPhase += instHz / sampleRate
	v.carrierPhase -= math.Floor(v.carrierPhase)
	v.modPhase += v.modHz / sampleRate
	v.modPhase -= math.Floor(v.modPhase)
	v.modDepth *= v.modDepthMul

	if n < v.attackFrame {
		v.amp = math.Min(v.amp*v.attackMul, v.peak)
	} else {
		v.amp = math.Max(v.amp*v.decayMul, ENVELOPE_FLOOR)
	}
	return out
}

func (bus *AmbientBus) applyReverb(input float32) float32 {
	// 4 parallel combs (1687,1601,2053,2251) into 2 series allpasses (389,307)
	delayed := bus.preDelayBuf[bus.preDelayPos]
	bus.preDelayBuf[bus.preDelayPos] = input
	bus.preDelayPos = (bus.preDelayPos + 1) % len(bus.preDelayBuf)

	var out float32
	for i := range bus.combFilters {
		comb := &bus.combFilters[i]
		cDelay := comb.buffer[comb.pos]
		comb.buffer[comb.pos] = delayed + cDelay*comb.decay
		out += cDelay
		comb.pos = (comb.pos + 1) % len(comb.buffer)
	}

	for i := range bus.allpassBuf {
		pos := bus.allpassPos[i]
		buf := bus.allpassBuf[i]
		aDelay := buf[pos]
		buf[pos] = out + aDelay*ALLPASS_COEF
		out = aDelay - out
		bus.allpassPos[i] = (pos + 1) % len(buf)
	}

	return out * REVERB_ATTENUATION
}
