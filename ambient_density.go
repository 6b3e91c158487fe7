// ambient_density.go - Slow density/tempo arc and the reverb mix level it implies

package main

import "math"

// DensityArc is a first-order low-pass chasing a slowly oscillating target
// around a per-session base density (notes per second).
type DensityArc struct {
	Base     float64
	Target   float64
	Run      float64
	LFORate  float64
	LFOPhase float64
}

// NewDensityArc draws base, LFO rate and LFO phase in that order.
func NewDensityArc(rng randomSource) DensityArc {
	base := DENSITY_MIN + rng.Next()*DENSITY_BASE_SPAN
	rate := LFO_RATE_MIN + rng.Next()*LFO_RATE_SPAN
	phase := rng.Next() * math.Pi * 2
	return RestoreDensityArc(base, rate, phase)
}

// RestoreDensityArc rebuilds the arc as it stood at session start.
func RestoreDensityArc(base, rate, phase float64) DensityArc {
	return DensityArc{Base: base, Target: base, Run: base, LFORate: rate, LFOPhase: phase}
}

// Update advances the arc to elapsed seconds since session start.
func (d *DensityArc) Update(elapsed float64) {
	lfo := math.Sin(elapsed*d.LFORate*math.Pi*2 + d.LFOPhase)
	d.Target = d.Base * (1 + DENSITY_LFO_DEPTH*lfo)
	d.Run += (d.Target - d.Run) * DENSITY_SMOOTHING
	d.Run = clampFloat(d.Run, DENSITY_MIN, DENSITY_MAX)
}

// NoteDuration is the unslowed length of a melody note.
func (d DensityArc) NoteDuration() float64 {
	return (1 / d.Run) * NOTE_LENGTH_FACTOR
}

// Spacing draws the gap to the next note.
func (d *DensityArc) Spacing(rng randomSource) float64 {
	return (1 / d.Run) * (SPACING_JITTER_MIN + rng.Next()*SPACING_JITTER_SPAN)
}

// MixLevel maps sparse playing to a wetter mix and dense playing to a drier one.
func (d DensityArc) MixLevel() float64 {
	return mapRange(d.Run, DENSITY_MIN, DENSITY_MAX, MIX_LEVEL_SPARSE, MIX_LEVEL_DENSE)
}
