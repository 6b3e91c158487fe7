// ambient_phrase.go - 16-step phrase counter, cadence gravity and note selection

package main

var cadenceTargets = [...]int{0, 2, 4}

// PhraseState is the melodic cursor and the phrase position it moves within.
// PatternIndex is a diatonic index: octave = floorDiv(idx,7), degree = floorMod(idx,7).
type PhraseState struct {
	Step                  int
	Count                 int
	PendingLeadingTone    bool
	LastCadenceLandedRoot bool
	PatternIndex          int
	NotesSinceModulation  int
}

// NewPhraseState places the cursor so the first note lands on step 0.
func NewPhraseState() PhraseState {
	return PhraseState{
		Step:                  PHRASE_LENGTH - 1,
		LastCadenceLandedRoot: true,
	}
}

// advance moves to the next step. It returns true when a new phrase begins.
func (p *PhraseState) advance() bool {
	p.Step = (p.Step + 1) % PHRASE_LENGTH
	if p.Step != 0 {
		return false
	}
	p.PendingLeadingTone = false
	p.Count++
	return true
}

func (p *PhraseState) IsCadence() bool {
	return p.Step >= CADENCE_FIRST_STEP
}

func (p *PhraseState) atPhraseStart() bool {
	return p.Step == 0 || p.Step == 1
}

func (p *PhraseState) atCadenceHit() bool {
	return p.Step == CADENCE_HIT_STEP
}

func (p *PhraseState) atHarmonyBoundary() bool {
	return p.Step == 0 || p.Step == PHRASE_LENGTH/2
}

// Degree is the scale degree of the cursor in [0,7).
func (p *PhraseState) Degree() int {
	return floorMod(p.PatternIndex, SCALE_DEGREES)
}

func (p *PhraseState) octaveBase() int {
	return floorDiv(p.PatternIndex, SCALE_DEGREES) * SCALE_DEGREES
}

func (p *PhraseState) clamp() {
	p.PatternIndex = clampInt(p.PatternIndex, PATTERN_INDEX_MIN, PATTERN_INDEX_MAX)
}

// moveToDegree walks the cursor to target by the shortest circular path.
func (p *PhraseState) moveToDegree(target int) {
	p.PatternIndex += circularDelta(p.Degree(), target, SCALE_DEGREES)
}

func (p *PhraseState) slowdownProbability() float64 {
	switch p.Step {
	case CADENCE_HIT_STEP:
		return SLOWDOWN_PROB_STEP15
	case 0:
		return SLOWDOWN_PROB_STEP0
	case LEADING_TONE_STEP:
		return SLOWDOWN_PROB_STEP14
	case CADENCE_FIRST_STEP:
		return SLOWDOWN_PROB_STEP13
	}
	return 0
}

// landProbability is the chance a cadence step lands on its nearest chord tone.
func (p *PhraseState) landProbability(approachingEnd bool) float64 {
	if p.Step >= CADENCE_HIT_STEP {
		if approachingEnd {
			return CADENCE_LAND_PROB_FINAL + CADENCE_END_BOOST
		}
		return CADENCE_LAND_PROB_FINAL
	}
	if approachingEnd {
		return CADENCE_LAND_PROB + CADENCE_END_BOOST_EARLY
	}
	return CADENCE_LAND_PROB
}

// selectCadence moves the cursor on steps 13-15. It returns true when the
// pending leading tone must be cleared after the note sounds.
func (p *PhraseState) selectCadence(rng randomSource, approachingEnd bool) bool {
	deg := p.Degree()
	octave := p.octaveBase()

	best := cadenceTargets[0]
	bestDist := circularDistance(deg, best, SCALE_DEGREES)
	for _, t := range cadenceTargets[1:] {
		d := circularDistance(deg, t, SCALE_DEGREES)
		if d < bestDist || (d == bestDist && rng.Next() < 0.5) {
			best, bestDist = t, d
		}
	}

	target := best
	if !(rng.Next() < p.landProbability(approachingEnd)) {
		dir := 1
		if rng.Next() < CADENCE_MISS_DOWN_PROB {
			dir = -1
		}
		target = floorMod(target+dir, SCALE_DEGREES)
	}

	delta := circularDelta(deg, target, SCALE_DEGREES)
	if delta == MAX_CIRCULAR_SHIFT || delta == -MAX_CIRCULAR_SHIFT {
		delta = -MAX_CIRCULAR_SHIFT
	} else if delta == 0 && p.Step <= LEADING_TONE_STEP && rng.Next() < CADENCE_STATIC_NUDGE {
		delta = -1
	}
	p.PatternIndex = octave + deg + delta

	if p.Step == LEADING_TONE_STEP && rng.Next() < LEADING_TONE_SETUP_PROB {
		p.moveToDegree(LEADING_TONE_DEG)
		p.PendingLeadingTone = true
	}

	if p.Step != CADENCE_HIT_STEP {
		return false
	}
	if p.landOnRoot(rng) {
		p.moveToDegree(0)
	}
	return true
}

// landOnRoot is the final-step resolution draw.
func (p *PhraseState) landOnRoot(rng randomSource) bool {
	prob := ROOT_RESOLVE_PROB
	if p.PendingLeadingTone {
		prob = ROOT_RESOLVE_PROB_LT
	}
	return rng.Next() < prob
}

// selectFree moves the cursor on non-cadence steps: a motif recall, possibly
// answered by a neighbour tone, or a weighted random walk.
func (p *PhraseState) selectFree(rng randomSource, motif *Motif) {
	forced := p.atPhraseStart()
	prob := MOTIF_FREE_PROB
	if forced {
		prob = MOTIF_FORCED_PROB
	}

	if motif.Len() > 0 && rng.Next() < prob {
		p.PatternIndex = p.octaveBase() + motif.Next()
		if !forced && rng.Next() < MOTIF_ANSWER_PROB {
			p.PatternIndex += signedUnit(rng)
		}
		return
	}

	r := rng.Next()
	switch {
	case r < WALK_UP_THRESHOLD:
		p.PatternIndex++
	case r < WALK_DOWN_THRESHOLD:
		p.PatternIndex--
	default:
		if rng.Next() < 0.5 {
			p.PatternIndex += 2
		} else {
			p.PatternIndex -= 2
		}
	}
}

func signedUnit(rng randomSource) int {
	if rng.Next() < 0.5 {
		return -1
	}
	return 1
}

// raiseLeadingTone selects the harmonic-minor seventh for the current note.
func (p *PhraseState) raiseLeadingTone(minor bool) bool {
	return p.IsCadence() && minor && p.Degree() == LEADING_TONE_DEG &&
		(p.Step == LEADING_TONE_STEP || p.PendingLeadingTone)
}

// tollProbability is the chance of a sub-octave toll replacing a root note.
func (p *PhraseState) tollProbability(lifted bool) float64 {
	switch {
	case p.atPhraseStart():
		return 0
	case p.atCadenceHit():
		if lifted {
			return TOLL_PROB_CADENCE + TOLL_PROB_CADENCE_LIFT
		}
		return TOLL_PROB_CADENCE
	}
	if lifted {
		return TOLL_PROB_OTHER + TOLL_PROB_OTHER_LIFT
	}
	return TOLL_PROB_OTHER
}

// nudgeTowardRoot is the approaching-end pull: one shortest-path move to degree 0.
func (p *PhraseState) nudgeTowardRoot() {
	if p.Degree() != 0 {
		p.moveToDegree(0)
	}
}
