// ambient_state.go - Engine state value and the start-of-session snapshot

package main

import (
	"fmt"

	"github.com/google/uuid"
)

// EngineState is everything the stepping function mutates. The live scheduler
// and the offline mirror each own an independent value.
type EngineState struct {
	Policy        DurationPolicy
	BaseFrequency float64
	Harmony       HarmonicState
	Phrase        PhraseState
	Motif         Motif
	Density       DensityArc
	Drift         DriftParams
}

// SessionSnapshot is what survives a live session for deterministic replay:
// the seed, the RNG state before the setup draws and the setup results.
type SessionSnapshot struct {
	ID            uuid.UUID
	Seed          uint32
	StartState    uint32
	BaseFrequency float64
	Policy        DurationPolicy
	Motif         []int
	DensityBase   float64
	LFORate       float64
	LFOPhase      float64
	Drift         DriftParams
}

// NewSessionState seeds a generator and performs the setup draws in order:
// density base, LFO rate, LFO phase, drift rate, drift depth, drift phase, motif.
func NewSessionState(seed uint32, baseFrequency float64, policy DurationPolicy) (*EngineState, *AmbientRNG, SessionSnapshot) {
	rng := NewAmbientRNG(seed)
	startState := rng.State()

	st := &EngineState{
		Policy:        policy,
		BaseFrequency: baseFrequency,
		Phrase:        NewPhraseState(),
	}
	st.Density = NewDensityArc(rng)
	st.Drift = NewDriftParams(rng)
	st.Motif = GenerateMotif(rng)

	snap := SessionSnapshot{
		ID:            uuid.New(),
		Seed:          seed,
		StartState:    startState,
		BaseFrequency: baseFrequency,
		Policy:        policy,
		Motif:         append([]int(nil), st.Motif.Intervals...),
		DensityBase:   st.Density.Base,
		LFORate:       st.Density.LFORate,
		LFOPhase:      st.Density.LFOPhase,
		Drift:         st.Drift,
	}
	return st, rng, snap
}

// StateFromSnapshot rebuilds a fresh engine as it stood after the setup
// draws. The returned generator restarts from the captured start state.
func StateFromSnapshot(snap SessionSnapshot) (*EngineState, *AmbientRNG) {
	rng := NewAmbientRNG(snap.Seed)
	rng.SetState(snap.StartState)
	st := &EngineState{
		Policy:        snap.Policy,
		BaseFrequency: snap.BaseFrequency,
		Phrase:        NewPhraseState(),
		Motif:         NewMotif(snap.Motif),
		Density:       RestoreDensityArc(snap.DensityBase, snap.LFORate, snap.LFOPhase),
		Drift:         snap.Drift,
	}
	return st, rng
}

// Clone returns a deep copy safe to step independently.
func (s *EngineState) Clone() *EngineState {
	c := *s
	c.Motif = s.Motif.Clone()
	return &c
}

// Banner is the one-line session summary printed at start.
func (snap SessionSnapshot) Banner() string {
	return fmt.Sprintf("Session Seed %d | Density %.3f | Drift %.1fc @ %.4fHz | Motif: %v",
		snap.Seed, snap.DensityBase, snap.Drift.Cents, snap.Drift.RateHz, snap.Motif)
}

// ShortID is the first uuid group, used in export file names.
func (snap SessionSnapshot) ShortID() string {
	return snap.ID.String()[:8]
}
