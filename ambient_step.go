// ambient_step.go - The single note-stepping function shared by live and offline drivers

package main

import "fmt"

// StepInput carries the time context of one step. Origin is the session
// start and At the note start, both on the driver's clock; Now is the
// driver's notion of the present (tick time live, note time offline).
type StepInput struct {
	Origin         float64
	At             float64
	Now            float64
	ApproachingEnd bool
}

type StepOutput struct {
	Note      NoteEvent
	Spacing   float64
	Modulated bool
}

// AtRoot reports whether the cursor sits on the tonic, the condition for the
// closing notes once the piece is approaching its end.
func (s *EngineState) AtRoot() bool {
	return s.Phrase.Degree() == 0
}

func (s *EngineState) canModulate() bool {
	return s.Policy.Tier() > TIER_STATIC &&
		s.Phrase.LastCadenceLandedRoot &&
		s.Phrase.NotesSinceModulation >= MODULATION_MIN_NOTES
}

// Step produces the next note and the gap before the one after it.
func (s *EngineState) Step(rng randomSource, in StepInput) (StepOutput, error) {
	var out StepOutput
	ph := &s.Phrase

	if in.ApproachingEnd {
		ph.nudgeTowardRoot()
	}

	if ph.advance() {
		s.Motif.Evolve(ph.Count, rng)
	}
	cadence := ph.IsCadence()

	if !in.ApproachingEnd && ph.atHarmonyBoundary() && s.canModulate() &&
		rng.Next() < s.Policy.ModulationChance() {
		out.Modulated = s.Harmony.Advance(s.Policy.Tier(), rng, in.Now)
		ph.NotesSinceModulation = 0
	}

	duration := s.Density.NoteDuration()
	if rng.Next() < ph.slowdownProbability() {
		duration *= SLOWDOWN_FACTOR_MIN + rng.Next()*SLOWDOWN_FACTOR_SPAN
	}

	clearPending := false
	if cadence {
		clearPending = ph.selectCadence(rng, in.ApproachingEnd)
	} else {
		ph.selectFree(rng, &s.Motif)
	}
	ph.clamp()

	degree := ph.Degree()
	freq := s.Harmony.ScaleFrequency(s.BaseFrequency, ph.PatternIndex, ph.raiseLeadingTone(s.Harmony.Minor))
	if ph.atCadenceHit() {
		ph.LastCadenceLandedRoot = degree == 0
	}

	lifted := s.Harmony.Minor || s.Harmony.RecentlyModulated(in.Now)
	drift := s.Drift.Ratio(in.At - in.Origin)

	if degree == 0 && !ph.atPhraseStart() && rng.Next() < ph.tollProbability(lifted) {
		tollDuration, attack := TOLL_OTHER_DURATION, TOLL_OTHER_ATTACK
		if ph.atCadenceHit() {
			tollDuration, attack = TOLL_CADENCE_DURATION, TOLL_CADENCE_ATTACK
		}
		out.Note = NoteEvent{
			Frequency:        freq * 0.5,
			StartTime:        in.At,
			Duration:         tollDuration,
			Velocity:         TOLL_VELOCITY,
			PhraseStep:       ph.Step,
			IsApproachingEnd: in.ApproachingEnd,
			Kind:             NOTE_TOLL,
			Voice: shapeVoices(rng, voiceShape{
				brightness: brightnessFor(ph.Step, false, in.ApproachingEnd),
				attack:     attack,
				driftRatio: drift,
			}),
		}
	} else {
		out.Note = NoteEvent{
			Frequency:        freq,
			StartTime:        in.At,
			Duration:         duration,
			Velocity:         MELODY_VELOCITY,
			PhraseStep:       ph.Step,
			IsCadence:        cadence,
			IsApproachingEnd: in.ApproachingEnd,
			Kind:             NOTE_MELODY,
			Voice: shapeVoices(rng, voiceShape{
				brightness: brightnessFor(ph.Step, cadence, in.ApproachingEnd),
				attack:     DEFAULT_ATTACK,
				driftRatio: drift,
			}),
		}
	}

	ph.NotesSinceModulation++
	if clearPending {
		ph.PendingLeadingTone = false
	}
	out.Spacing = s.Density.Spacing(rng)

	return out, s.checkInvariants()
}

// Conclude emits the terminal toll and the softer benediction that follows it.
func (s *EngineState) Conclude(rng randomSource, in StepInput) []NoteEvent {
	freq := s.Harmony.ScaleFrequency(s.BaseFrequency, s.Phrase.PatternIndex, false) * 0.5
	step := s.Phrase.Step

	toll := NoteEvent{
		Frequency:        freq,
		StartTime:        in.At,
		Duration:         TERMINAL_TOLL_DURATION,
		Velocity:         TERMINAL_TOLL_VELOCITY,
		PhraseStep:       step,
		IsCadence:        true,
		IsApproachingEnd: true,
		Kind:             NOTE_TERMINAL_TOLL,
		Voice: shapeVoices(rng, voiceShape{
			brightness: BRIGHTNESS_ENDING,
			attack:     DEFAULT_ATTACK,
			driftRatio: s.Drift.Ratio(in.At - in.Origin),
		}),
	}

	at := in.At + BENEDICTION_DELAY
	blessing := NoteEvent{
		Frequency:        freq,
		StartTime:        at,
		Duration:         BENEDICTION_DURATION,
		Velocity:         BENEDICTION_VELOCITY,
		PhraseStep:       step,
		IsCadence:        true,
		IsApproachingEnd: true,
		Kind:             NOTE_BENEDICTION,
		Voice: shapeVoices(rng, voiceShape{
			brightness: BRIGHTNESS_ENDING,
			attack:     BENEDICTION_ATTACK,
			centred:    true,
			driftRatio: s.Drift.Ratio(at - in.Origin),
		}),
	}
	return []NoteEvent{toll, blessing}
}

func (s *EngineState) checkInvariants() error {
	ph := &s.Phrase
	if err := checkRange("patternIndex", float64(ph.PatternIndex), PATTERN_INDEX_MIN, PATTERN_INDEX_MAX); err != nil {
		return err
	}
	if err := checkRange("phraseStep", float64(ph.Step), 0, PHRASE_LENGTH-1); err != nil {
		return err
	}
	if err := checkRange("runDensity", s.Density.Run, DENSITY_MIN, DENSITY_MAX); err != nil {
		return err
	}
	if err := checkRange("circlePosition", float64(floorMod(s.Harmony.CirclePosition, CIRCLE_STEPS)), 0, CIRCLE_STEPS-1); err != nil {
		return err
	}
	for i, v := range s.Motif.Intervals {
		if err := checkRange(fmt.Sprintf("motif[%d]", i), float64(v), -MOTIF_LIMIT, MOTIF_LIMIT); err != nil {
			return err
		}
	}
	return nil
}
