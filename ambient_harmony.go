// ambient_harmony.go - Key-circle position, major/minor mode and modulation

package main

import "math"

var (
	majorIntervals = [SCALE_DEGREES]int{0, 2, 4, 5, 7, 9, 11}
	minorIntervals = [SCALE_DEGREES]int{0, 2, 3, 5, 7, 8, 10}
)

const (
	RELATIVE_MINOR_OFFSET = 9
	FIFTH_SEMITONES       = 7
	RAISED_SEVENTH        = 11
)

// HarmonicState is the current key. CirclePosition counts fifths and may be
// any integer; it is reduced mod 12 only when looking up pitches.
type HarmonicState struct {
	CirclePosition         int
	Minor                  bool
	RecentlyModulatedUntil float64
}

// Advance applies one modulation draw for the given tier. It returns true if
// mode or key actually changed, in which case the "recent" window opens at now.
func (h *HarmonicState) Advance(tier HarmonyTier, rng randomSource, now float64) bool {
	if tier == TIER_STATIC {
		return false
	}
	prevMinor, prevCircle := h.Minor, h.CirclePosition
	r := rng.Next()

	switch tier {
	case TIER_SHORT:
		if r < SHORT_TIER_FLIP_PROB {
			h.Minor = !h.Minor
		}
	case TIER_MEDIUM:
		if r < MEDIUM_TIER_FLIP_PROB {
			h.Minor = !h.Minor
		} else {
			h.CirclePosition += circleStep(rng, MEDIUM_TIER_FORWARD)
		}
	case TIER_INFINITE:
		if !h.Minor {
			if r < INFINITE_SINK_PROB {
				h.Minor = true
			} else {
				h.CirclePosition += circleStep(rng, INFINITE_TIER_FORWARD)
			}
		} else {
			if r < INFINITE_SURFACE_PROB {
				h.Minor = false
			} else {
				h.CirclePosition += circleStep(rng, INFINITE_TIER_FORWARD)
			}
		}
	}

	if prevMinor != h.Minor || prevCircle != h.CirclePosition {
		h.RecentlyModulatedUntil = now + RECENT_MODULATION_WINDOW
		return true
	}
	return false
}

func circleStep(rng randomSource, forward float64) int {
	if rng.Next() < forward {
		return 1
	}
	return -1
}

// RecentlyModulated is a hard cutoff at the captured timestamp.
func (h *HarmonicState) RecentlyModulated(now float64) bool {
	return now < h.RecentlyModulatedUntil
}

// RootPitchClass is the tonic in semitones above the base frequency, using
// the relative minor when in minor mode.
func (h *HarmonicState) RootPitchClass() int {
	pos := floorMod(h.CirclePosition, CIRCLE_STEPS)
	root := (pos * FIFTH_SEMITONES) % CIRCLE_STEPS
	if h.Minor {
		root = (root + RELATIVE_MINOR_OFFSET) % CIRCLE_STEPS
	}
	return root
}

// ScaleFrequency returns the pitch of diatonic index idx. Index 7 is the
// tonic an octave up, -1 the seventh below. raiseLeadingTone selects the
// harmonic-minor seventh and only has an effect in minor on degree 6.
func (h *HarmonicState) ScaleFrequency(baseFrequency float64, idx int, raiseLeadingTone bool) float64 {
	octave := floorDiv(idx, SCALE_DEGREES)
	degree := floorMod(idx, SCALE_DEGREES)

	intervals := majorIntervals
	if h.Minor {
		intervals = minorIntervals
		if raiseLeadingTone && degree == LEADING_TONE_DEG {
			intervals[LEADING_TONE_DEG] = RAISED_SEVENTH
		}
	}

	semitones := h.RootPitchClass() + intervals[degree] + octave*12
	return baseFrequency * math.Pow(2, float64(semitones)/12)
}
