// ambient_voice.go - Per-note voice shaping hints and coherent session pitch drift

package main

import "math"

// NoteKind tells the renderer which musical role a note plays.
type NoteKind int

const (
	NOTE_MELODY NoteKind = iota
	NOTE_TOLL
	NOTE_TERMINAL_TOLL
	NOTE_BENEDICTION
)

func (k NoteKind) String() string {
	switch k {
	case NOTE_MELODY:
		return "melody"
	case NOTE_TOLL:
		return "toll"
	case NOTE_TERMINAL_TOLL:
		return "terminal-toll"
	case NOTE_BENEDICTION:
		return "benediction"
	}
	return "unknown"
}

// VoiceHint shapes one of the two FM voices sounding a note.
type VoiceHint struct {
	Gain     float64 // share of the note velocity
	ModIndex float64
	ModRatio float64
	Pan      float64 // -1 left .. +1 right
}

type VoiceHints struct {
	Brightness float64
	Attack     float64
	DetuneHz   float64
	DriftRatio float64
	Voices     [VOICES_PER_NOTE]VoiceHint
}

// NoteEvent is the core's only output to a tone renderer. Times are seconds
// on the renderer's clock.
type NoteEvent struct {
	Frequency        float64
	StartTime        float64
	Duration         float64
	Velocity         float64
	PhraseStep       int
	IsCadence        bool
	IsApproachingEnd bool
	Kind             NoteKind
	Voice            VoiceHints
}

// DriftParams is the shared slow "tape" wobble applied to every note.
type DriftParams struct {
	RateHz float64
	Cents  float64
	Phase  float64
}

// NewDriftParams draws rate, depth and phase in that order.
func NewDriftParams(rng randomSource) DriftParams {
	return DriftParams{
		RateHz: DRIFT_RATE_MIN + rng.Next()*DRIFT_RATE_SPAN,
		Cents:  DRIFT_CENTS_MIN + rng.Next()*DRIFT_CENTS_SPAN,
		Phase:  rng.Next() * math.Pi * 2,
	}
}

// Ratio is the frequency multiplier elapsed seconds into the session.
func (d DriftParams) Ratio(elapsed float64) float64 {
	cents := math.Sin(elapsed*d.RateHz*math.Pi*2+d.Phase) * d.Cents
	return math.Pow(2, cents/1200)
}

func brightnessFor(step int, cadence, approachingEnd bool) float64 {
	switch {
	case approachingEnd:
		return BRIGHTNESS_ENDING
	case cadence:
		return BRIGHTNESS_CAD
	case step <= 3:
		return BRIGHTNESS_EARLY
	case step <= 8:
		return BRIGHTNESS_MIDDLE
	}
	return BRIGHTNESS_LATE
}

// voiceShape is the per-note input to shapeVoices.
type voiceShape struct {
	brightness float64
	attack     float64
	centred    bool // skip the pan draw and sit in the middle
	driftRatio float64
}

// shapeVoices draws the stereo and timbre hints for one note. Draw order:
// base pan (unless centred), detune, then gain, mod index, mod ratio and
// pan jitter for each voice.
func shapeVoices(rng randomSource, vs voiceShape) VoiceHints {
	panBase := 0.0
	if !vs.centred {
		panBase = rng.Next()*PAN_BASE_SPREAD - PAN_BASE_SPREAD/2
	}
	h := VoiceHints{
		Brightness: vs.brightness,
		Attack:     vs.attack,
		DetuneHz:   (rng.Next() - 0.5) * DETUNE_SPREAD_HZ,
		DriftRatio: vs.driftRatio,
	}

	total := 0.0
	for i := range h.Voices {
		v := &h.Voices[i]
		v.Gain = rng.Next()
		total += v.Gain
		v.ModIndex = (MOD_INDEX_MIN + rng.Next()*MOD_INDEX_SPAN) * vs.brightness
		v.ModRatio = MOD_RATIO_MIN + rng.Next()*MOD_RATIO_SPAN
		offset := PAN_VOICE_OFFSET
		if i == 0 {
			offset = -PAN_VOICE_OFFSET
		}
		jitter := rng.Next()*PAN_JITTER - PAN_JITTER/2
		v.Pan = clampFloat(panBase+offset+jitter, -PAN_LIMIT, PAN_LIMIT)
	}

	for i := range h.Voices {
		if total > 0 {
			h.Voices[i].Gain /= total
		} else {
			h.Voices[i].Gain = 1 / float64(VOICES_PER_NOTE)
		}
	}
	return h
}
