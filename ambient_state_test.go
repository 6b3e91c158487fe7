// ambient_state_test.go - Session setup draws, snapshots and cloning

package main

import (
	"reflect"
	"strings"
	"testing"
)

func TestNewSessionState_Deterministic(t *testing.T) {
	policy := mustPolicy(t, "300")
	a, ra, sa := NewSessionState(4242, 87.5, policy)
	b, rb, sb := NewSessionState(4242, 87.5, policy)

	if sa.ID == sb.ID {
		t.Fatal("every session should get its own id")
	}
	sb.ID = sa.ID
	if !reflect.DeepEqual(sa, sb) {
		t.Fatalf("snapshots differ:\n%+v\n%+v", sa, sb)
	}
	if !reflect.DeepEqual(a, b) || ra.State() != rb.State() {
		t.Fatal("engine states differ for the same seed")
	}
	if sa.StartState != 4242 || sa.Seed != 4242 {
		t.Fatalf("start state %d seed %d", sa.StartState, sa.Seed)
	}
}

func TestNewSessionState_SetupDrawOrder(t *testing.T) {
	st, rng, snap := NewSessionState(9, 110, mustPolicy(t, "60"))

	ref := NewAmbientRNG(9)
	density := NewDensityArc(ref)
	drift := NewDriftParams(ref)
	motif := GenerateMotif(ref)

	if st.Density != density || st.Drift != drift || !reflect.DeepEqual(st.Motif.Intervals, motif.Intervals) {
		t.Fatal("setup draws out of order")
	}
	if rng.State() != ref.State() {
		t.Fatal("live generator should continue after the setup draws")
	}
	if snap.DensityBase != density.Base || snap.LFORate != density.LFORate || snap.LFOPhase != density.LFOPhase {
		t.Fatalf("snapshot density %+v", snap)
	}
	if st.Phrase != NewPhraseState() {
		t.Fatalf("phrase should start fresh: %+v", st.Phrase)
	}
}

func TestStateFromSnapshot(t *testing.T) {
	live, _, snap := NewSessionState(31337, 55, mustPolicy(t, "infinite"))
	st, rng := StateFromSnapshot(snap)

	if rng.State() != snap.StartState {
		t.Fatalf("mirror generator at %d, want %d", rng.State(), snap.StartState)
	}
	if !reflect.DeepEqual(st, live) {
		t.Fatalf("restored engine differs:\n%+v\n%+v", st, live)
	}

	orig := snap.Motif[1]
	st.Motif.Intervals[1] = orig + 1
	if snap.Motif[1] != orig {
		t.Fatal("restored motif aliases the snapshot")
	}
}

func TestEngineState_Clone(t *testing.T) {
	st, _, _ := NewSessionState(8, 110, mustPolicy(t, "60"))
	c := st.Clone()
	c.Motif.Intervals[2] = 99
	c.Phrase.Step = 3
	if st.Motif.Intervals[2] == 99 || st.Phrase.Step == 3 {
		t.Fatal("clone shares state with its source")
	}
}

func TestSessionSnapshot_Banner(t *testing.T) {
	_, _, snap := NewSessionState(42, 110, mustPolicy(t, "60"))
	banner := snap.Banner()
	for _, part := range []string{"Session Seed 42 |", "| Density ", "| Drift ", "c @ ", "Hz | Motif: ["} {
		if !strings.Contains(banner, part) {
			t.Errorf("banner %q missing %q", banner, part)
		}
	}
	if id := snap.ShortID(); len(id) != 8 || !strings.HasPrefix(snap.ID.String(), id) {
		t.Errorf("short id %q", id)
	}
}
