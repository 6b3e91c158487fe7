// ambient_harmony_test.go - Modulation tiers, key circle and scale pitch lookup

package main

import (
	"math"
	"testing"
)

func TestHarmony_StaticTierNeverMoves(t *testing.T) {
	h := HarmonicState{}
	rng := newScriptedRNG(t)
	for i := 0; i < 100; i++ {
		if h.Advance(TIER_STATIC, rng, float64(i)) {
			t.Fatal("static tier modulated")
		}
	}
	if rng.draws() != 0 {
		t.Fatalf("static tier consumed %d draws", rng.draws())
	}
	if h != (HarmonicState{}) {
		t.Fatalf("state changed: %+v", h)
	}
}

func TestHarmony_SixtySecondSessionKeepsItsKey(t *testing.T) {
	st, rng, _ := NewSessionState(12345, 110, mustPolicy(t, "60"))
	want := st.Harmony
	tm := 0.0
	for i := 0; i < 5000; i++ {
		out, err := st.Step(rng, StepInput{At: tm, Now: tm})
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if out.Modulated || st.Harmony != want {
			t.Fatalf("step %d: harmony moved to %+v", i, st.Harmony)
		}
		tm += out.Spacing
	}
}

func TestHarmony_InfiniteMajorSinksToMinor(t *testing.T) {
	for _, r := range []float64{0, 0.3, 0.5999} {
		h := HarmonicState{CirclePosition: 3}
		rng := newScriptedRNG(t, r)
		if !h.Advance(TIER_INFINITE, rng, 10) {
			t.Fatalf("r=%v: expected a change", r)
		}
		if !h.Minor || h.CirclePosition != 3 {
			t.Fatalf("r=%v: got %+v", r, h)
		}
		if rng.draws() != 1 {
			t.Fatalf("r=%v: %d draws, want 1", r, rng.draws())
		}
		if h.RecentlyModulatedUntil != 10+RECENT_MODULATION_WINDOW {
			t.Fatalf("r=%v: recent window until %v", r, h.RecentlyModulatedUntil)
		}
	}
}

func TestHarmony_TierTransitions(t *testing.T) {
	tests := []struct {
		name       string
		tier       HarmonyTier
		start      HarmonicState
		draws      []float64
		wantMinor  bool
		wantCircle int
		changed    bool
	}{
		{"infinite major steps forward", TIER_INFINITE, HarmonicState{}, []float64{0.6, 0.1}, false, 1, true},
		{"infinite major steps back", TIER_INFINITE, HarmonicState{}, []float64{0.6, 0.95}, false, -1, true},
		{"infinite minor surfaces", TIER_INFINITE, HarmonicState{Minor: true}, []float64{0.2}, false, 0, true},
		{"infinite minor steps", TIER_INFINITE, HarmonicState{Minor: true}, []float64{0.28, 0.5}, true, 1, true},
		{"short flips", TIER_SHORT, HarmonicState{}, []float64{0.1}, true, 0, true},
		{"short holds", TIER_SHORT, HarmonicState{}, []float64{0.2}, false, 0, false},
		{"medium flips", TIER_MEDIUM, HarmonicState{Minor: true}, []float64{0.34}, false, 0, true},
		{"medium forward", TIER_MEDIUM, HarmonicState{}, []float64{0.35, 0.69}, false, 1, true},
		{"medium back", TIER_MEDIUM, HarmonicState{}, []float64{0.35, 0.7}, false, -1, true},
	}
	for _, tc := range tests {
		h := tc.start
		rng := newScriptedRNG(t, tc.draws...)
		changed := h.Advance(tc.tier, rng, 5)
		if changed != tc.changed || h.Minor != tc.wantMinor || h.CirclePosition != tc.wantCircle {
			t.Errorf("%s: changed=%v state=%+v", tc.name, changed, h)
		}
		if rng.draws() != len(tc.draws) {
			t.Errorf("%s: used %d of %d draws", tc.name, rng.draws(), len(tc.draws))
		}
		if !changed && h.RecentlyModulatedUntil != 0 {
			t.Errorf("%s: recent window opened without a change", tc.name)
		}
	}
}

func TestHarmony_RecentlyModulatedIsHardCutoff(t *testing.T) {
	h := HarmonicState{RecentlyModulatedUntil: 30}
	if !h.RecentlyModulated(29.999) {
		t.Fatal("expected recent just before the cutoff")
	}
	if h.RecentlyModulated(30) {
		t.Fatal("expected not recent at the cutoff")
	}
}

func TestHarmony_RootPitchClass(t *testing.T) {
	tests := []struct {
		circle int
		minor  bool
		want   int
	}{
		{0, false, 0},
		{1, false, 7},
		{2, false, 2},
		{-1, false, 5},
		{13, false, 7},
		{-12, false, 0},
		{0, true, 9},
		{1, true, 4},
	}
	for _, tc := range tests {
		h := HarmonicState{CirclePosition: tc.circle, Minor: tc.minor}
		if got := h.RootPitchClass(); got != tc.want {
			t.Errorf("circle %d minor %v: root %d, want %d", tc.circle, tc.minor, got, tc.want)
		}
	}
}

func TestHarmony_ScaleFrequency(t *testing.T) {
	semis := func(n int) float64 { return 100 * math.Pow(2, float64(n)/12) }
	major := HarmonicState{}
	minor := HarmonicState{Minor: true}

	tests := []struct {
		name  string
		h     HarmonicState
		idx   int
		raise bool
		want  float64
	}{
		{"tonic", major, 0, false, 100},
		{"octave", major, 7, false, 200},
		{"seventh below", major, -1, false, semis(-1)},
		{"fifth", major, 4, false, semis(7)},
		{"minor tonic", minor, 0, false, semis(9)},
		{"natural minor seventh", minor, 6, false, semis(9 + 10)},
		{"raised minor seventh", minor, 6, true, semis(9 + 11)},
		{"raise ignored off degree", minor, 5, true, semis(9 + 8)},
		{"raise ignored in major", major, 6, true, semis(11)},
	}
	for _, tc := range tests {
		got := tc.h.ScaleFrequency(100, tc.idx, tc.raise)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: %v, want %v", tc.name, got, tc.want)
		}
	}
}
