// ambient_voice_test.go - Voice hint shaping, brightness and pitch drift

package main

import (
	"math"
	"testing"
)

func TestShapeVoices_DrawOrderAndBounds(t *testing.T) {
	for _, centred := range []bool{false, true} {
		rng := &countingRNG{rng: NewAmbientRNG(7)}
		for i := 0; i < 500; i++ {
			before := rng.n
			h := shapeVoices(rng, voiceShape{brightness: 0.5, attack: 0.01, centred: centred, driftRatio: 1})

			want := 1 + VOICES_PER_NOTE*4
			if !centred {
				want++
			}
			if rng.n-before != want {
				t.Fatalf("centred=%v: %d draws, want %d", centred, rng.n-before, want)
			}

			sum := 0.0
			for _, v := range h.Voices {
				sum += v.Gain
				if math.Abs(v.Pan) > PAN_LIMIT {
					t.Fatalf("pan %v beyond limit", v.Pan)
				}
				if v.ModIndex < MOD_INDEX_MIN*0.5 || v.ModIndex > (MOD_INDEX_MIN+MOD_INDEX_SPAN)*0.5 {
					t.Fatalf("mod index %v not scaled by brightness", v.ModIndex)
				}
			}
			if math.Abs(sum-1) > 1e-9 {
				t.Fatalf("gains sum to %v", sum)
			}
			if math.Abs(h.DetuneHz) > DETUNE_SPREAD_HZ/2 {
				t.Fatalf("detune %v", h.DetuneHz)
			}
		}
	}
}

func TestShapeVoices_CentredPan(t *testing.T) {
	// detune 0.5, then gain/index/ratio/jitter 0.5 for both voices
	draws := make([]float64, 9)
	for i := range draws {
		draws[i] = 0.5
	}
	h := shapeVoices(newScriptedRNG(t, draws...), voiceShape{brightness: 1, centred: true})
	if h.Voices[0].Pan != -PAN_VOICE_OFFSET || h.Voices[1].Pan != PAN_VOICE_OFFSET {
		t.Fatalf("pans %v %v", h.Voices[0].Pan, h.Voices[1].Pan)
	}
	if h.DetuneHz != 0 {
		t.Fatalf("detune %v", h.DetuneHz)
	}
}

func TestShapeVoices_ZeroGainsSplitEvenly(t *testing.T) {
	h := shapeVoices(newScriptedRNG(t, make([]float64, 10)...), voiceShape{brightness: 0.5})
	for i, v := range h.Voices {
		if v.Gain != 0.5 {
			t.Fatalf("voice %d gain %v", i, v.Gain)
		}
	}
}

func TestBrightnessFor(t *testing.T) {
	tests := []struct {
		step        int
		cadence     bool
		approaching bool
		want        float64
	}{
		{0, false, false, BRIGHTNESS_EARLY},
		{3, false, false, BRIGHTNESS_EARLY},
		{4, false, false, BRIGHTNESS_MIDDLE},
		{8, false, false, BRIGHTNESS_MIDDLE},
		{12, false, false, BRIGHTNESS_LATE},
		{14, true, false, BRIGHTNESS_CAD},
		{14, true, true, BRIGHTNESS_ENDING},
		{2, false, true, BRIGHTNESS_ENDING},
	}
	for _, tc := range tests {
		if got := brightnessFor(tc.step, tc.cadence, tc.approaching); got != tc.want {
			t.Errorf("step %d cadence %v approaching %v: %v", tc.step, tc.cadence, tc.approaching, got)
		}
	}
}

func TestDriftParams_Ratio(t *testing.T) {
	maxRatio := math.Pow(2, (DRIFT_CENTS_MIN+DRIFT_CENTS_SPAN)/1200)
	for seed := uint32(0); seed < 200; seed++ {
		d := NewDriftParams(NewAmbientRNG(seed))
		for tm := 0.0; tm < 600; tm += 3.7 {
			r := d.Ratio(tm)
			if r > maxRatio || r < 1/maxRatio {
				t.Fatalf("seed %d at %vs: ratio %v", seed, tm, r)
			}
		}
	}

	flat := DriftParams{RateHz: 0.005, Cents: 6, Phase: 0}
	if flat.Ratio(0) != 1 {
		t.Fatalf("zero phase at t=0 should be unity, got %v", flat.Ratio(0))
	}
	if got, want := flat.Ratio(50), math.Pow(2, 6.0/1200); math.Abs(got-want) > 1e-12 {
		t.Fatalf("quarter period ratio %v, want %v", got, want)
	}
}
