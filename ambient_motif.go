// ambient_motif.go - Session motif: a short remembered interval figure

package main

// Motif holds interval offsets from the current octave's tonic. The first
// entry is always the root (0) and is never mutated.
type Motif struct {
	Intervals []int
	pos       int
}

// GenerateMotif draws a clamped random walk of MOTIF_LENGTH entries, then a
// 25% chance to mirror it below the root.
func GenerateMotif(rng randomSource) Motif {
	m := make([]int, 1, MOTIF_LENGTH)
	walker := 0
	for i := 1; i < MOTIF_LENGTH; i++ {
		dir := 1
		if rng.Next() >= 0.5 {
			dir = -1
		}
		size := 1
		if rng.Next() < MOTIF_STEP2_PROB {
			size = 2
		}
		walker = clampInt(walker+dir*size, -MOTIF_LIMIT, MOTIF_LIMIT)
		m = append(m, walker)
	}

	if rng.Next() < MOTIF_INVERT_PROB {
		for i := 1; i < len(m); i++ {
			m[i] = -m[i]
		}
	}
	return Motif{Intervals: m}
}

// NewMotif wraps a stored interval list with its cursor at the start.
func NewMotif(intervals []int) Motif {
	return Motif{Intervals: append([]int(nil), intervals...)}
}

func (m *Motif) Len() int {
	return len(m.Intervals)
}

// Next returns the interval under the cursor and advances it round-robin.
func (m *Motif) Next() int {
	v := m.Intervals[m.pos]
	m.pos = (m.pos + 1) % len(m.Intervals)
	return v
}

// Evolve nudges one non-root entry by ±1 every MOTIF_EVOLVE_EVERY completed
// phrases. It returns the index that changed, or -1.
func (m *Motif) Evolve(phraseCount int, rng randomSource) int {
	if phraseCount <= 0 || phraseCount%MOTIF_EVOLVE_EVERY != 0 || len(m.Intervals) < MOTIF_LENGTH {
		return -1
	}
	idx := 1 + int(rng.Next()*float64(len(m.Intervals)-1))
	delta := 1
	if rng.Next() < 0.5 {
		delta = -1
	}
	m.Intervals[idx] = clampInt(m.Intervals[idx]+delta, -MOTIF_LIMIT, MOTIF_LIMIT)
	return idx
}

// Clone copies the intervals and the cursor.
func (m Motif) Clone() Motif {
	return Motif{Intervals: append([]int(nil), m.Intervals...), pos: m.pos}
}
